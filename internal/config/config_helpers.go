package config

import (
	"fmt"

	"github.com/shouni/netarmor/securenet"
)

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	if cfg.DatabasePath == "" {
		return fmt.Errorf("configuration error: DATABASE_PATH is not set")
	}

	if !cfg.UseMockCompletion && cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("configuration error: OPENAI_API_KEY is not set")
	}

	if cfg.Model == "" {
		return fmt.Errorf("configuration error: OPENAI_MODEL is empty")
	}

	if cfg.CopyTimeout <= 0 || cfg.ReelsTimeout <= 0 || cfg.PlanTimeout <= 0 {
		return fmt.Errorf("configuration error: generation timeouts must be positive")
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
