// Package adapters は外部サービスへの出口をまとめます。
package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"varejo-ai-web/internal/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"
)

// --- インターフェース定義 ---

// GenerationNotifier は生成の終端失敗を運用チャネルへ伝えます。
type GenerationNotifier interface {
	NotifyGenerationFailure(ctx context.Context, kind domain.ArtifactKind, entityID string, cause error) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	httpClient  httpkit.ClientInterface
	webhookURL  string
	slackClient *slack.Client
}

// NewSlackAdapter は Slack アダプターを構築します。webhookURL が空でも
// エラーにはならず、通知をスキップするアダプターを返します。
func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{webhookURL: webhookURL}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗したのだ: %w", err)
	}

	return &SlackAdapter{
		httpClient:  httpClient,
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// NotifyGenerationFailure 生成パイプラインの終端失敗をSlackへ通知します。
func (a *SlackAdapter) NotifyGenerationFailure(ctx context.Context, kind domain.ArtifactKind, entityID string, cause error) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、通知をスキップします。", "kind", kind, "entity_id", entityID)
		return nil
	}

	// 種別に応じた絵文字の出し分けです。
	icon := "📝"
	switch kind {
	case domain.KindReelsScript:
		icon = "🎬"
	case domain.KindWeeklyPlan:
		icon = "🗓️"
	}

	title := fmt.Sprintf("%s コンテンツ生成に失敗しました", icon)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*種別:* `%s`\n", kind))
	sb.WriteString(fmt.Sprintf("*対象ID:* `%s`\n", entityID))
	sb.WriteString(fmt.Sprintf("*エラー種別:* `%s`\n\n", domain.KindOf(cause)))

	// エラー詳細をコードブロックで囲むことで可読性を向上させます。
	sb.WriteString("*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%v\n```\n", cause))

	if err := a.slackClient.SendTextWithHeader(ctx, title, sb.String()); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.Info("Slack に失敗通知を送信しました。", "kind", kind, "entity_id", entityID)
	return nil
}
