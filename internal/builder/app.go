// Package builder はアプリケーションの依存関係を組み立てます。
package builder

import (
	"context"
	"fmt"
	"log/slog"

	"varejo-ai-web/internal/adapters"
	"varejo-ai-web/internal/config"
	"varejo-ai-web/internal/genai"
	"varejo-ai-web/internal/pipeline"
	"varejo-ai-web/internal/storage"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// AppContext はアプリケーションの依存関係を保持します。
// 各フィールドをインターフェースで定義することで、将来的なモック利用を容易にします。
type AppContext struct {
	Config     config.Config
	Store      *storage.Store
	Completion genai.CompletionClient
	Notifier   adapters.GenerationNotifier
	HTTPClient httpkit.ClientInterface
}

// BuildAppContext は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg config.Config) (*AppContext, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(config.DefaultHTTPTimeout)

	// 2. 永続化層 (SQLite) の初期化
	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database (path: %s): %w", cfg.DatabasePath, err)
	}

	// 3. 生成クライアントの初期化
	var completion genai.CompletionClient
	if cfg.UseMockCompletion {
		slog.Warn("COMPLETION_MOCK が有効です。外部モデルは呼び出されません。")
		completion = &genai.MockClient{}
	} else {
		completion, err = genai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
		if err != nil {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("Failed to close database during teardown", "error", closeErr)
			}
			return nil, fmt.Errorf("failed to initialize completion client: %w", err)
		}
	}

	// 4. アダプターの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database during teardown", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}

	return &AppContext{
		Config:     cfg,
		Store:      store,
		Completion: completion,
		Notifier:   slack,
		HTTPClient: httpClient,
	}, nil
}

// BuildPipeline はアプリケーションコンテキストから生成パイプラインを組み立てます。
func (a *AppContext) BuildPipeline() *pipeline.Pipeline {
	return pipeline.New(&a.Config, a.Store, a.Completion, a.Notifier)
}

// Close は保持しているリソースを解放します。
func (a *AppContext) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
}
