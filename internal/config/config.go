package config

import (
	"os"
	"time"
)

const (
	DefaultModel = "gpt-4o-mini"
	// DefaultCopyTimeout キャンペーンコピー生成の応答を考慮したタイムアウト
	DefaultCopyTimeout = 15 * time.Second
	// DefaultReelsTimeout Reels台本は出力が長いため余裕を持たせます
	DefaultReelsTimeout    = 20 * time.Second
	DefaultPlanTimeout     = 20 * time.Second
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultCopyMaxTokens コピーは短文のため出力上限を絞ってコストを制御します
	DefaultCopyMaxTokens  = 220
	DefaultReelsMaxTokens = 1200
	DefaultPlanMaxTokens  = 1600
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL string
	Port       string

	// Persistence
	DatabasePath string

	// Completion Service (OpenAI)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	// UseMockCompletion が true の場合、外部モデルを呼ばずに固定応答を返します。
	// ローカル動作確認用であり、本番では必ず false にします。
	UseMockCompletion bool

	// Generation budgets
	CopyTimeout  time.Duration
	ReelsTimeout time.Duration
	PlanTimeout  time.Duration

	CopyMaxTokens  int64
	ReelsMaxTokens int64
	PlanMaxTokens  int64

	// Notification
	SlackWebhookURL string

	ShutdownTimeout time.Duration
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	return &Config{
		ServiceURL: getEnv("SERVICE_URL", "http://localhost:8080"),
		Port:       getEnv("PORT", "8080"),

		DatabasePath: getEnv("DATABASE_PATH", "varejo.db"),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		Model:             getEnv("OPENAI_MODEL", DefaultModel),
		UseMockCompletion: getEnv("COMPLETION_MOCK", "") == "1",

		CopyTimeout:  getEnvDuration("COPY_TIMEOUT", DefaultCopyTimeout),
		ReelsTimeout: getEnvDuration("REELS_TIMEOUT", DefaultReelsTimeout),
		PlanTimeout:  getEnvDuration("PLAN_TIMEOUT", DefaultPlanTimeout),

		CopyMaxTokens:  DefaultCopyMaxTokens,
		ReelsMaxTokens: DefaultReelsMaxTokens,
		PlanMaxTokens:  DefaultPlanMaxTokens,

		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),

		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
