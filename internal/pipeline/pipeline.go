// Package pipeline は構造化生成パイプラインの本体です。1 リクエストは
// コンパイル → 呼び出し → 抽出 → 検証 →（修復 1 回）→ 永続化 の単一経路で、
// 内部並列はありません。
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"varejo-ai-web/internal/adapters"
	"varejo-ai-web/internal/config"
	"varejo-ai-web/internal/domain"
	"varejo-ai-web/internal/genai"
	"varejo-ai-web/internal/storage"
)

// Pipeline は生成フローの依存をまとめます。
type Pipeline struct {
	cfg      *config.Config
	store    *storage.Store
	client   genai.CompletionClient
	notifier adapters.GenerationNotifier

	// flight は同一エンティティへの同時生成を 1 回のモデル呼び出しに
	// 集約します（kind:entityID をキーにした advisory lock 相当）。
	flight singleflight.Group
}

// New はパイプラインを構築します。notifier は nil でも動作します。
func New(cfg *config.Config, store *storage.Store, client genai.CompletionClient, notifier adapters.GenerationNotifier) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		client:   client,
		notifier: notifier,
	}
}

// doFlight は singleflight で fn を実行します。リーダーのリクエストが途中で
// 切断されると合流側も巻き添えでキャンセルを受け取るため、自分の ctx が
// まだ生きていれば 1 回だけ再突入します。fn は先頭でゲートを読み直すので、
// 永続化済みなら再生成にはなりません。
func (p *Pipeline) doFlight(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	v, err, _ := p.flight.Do(key, fn)
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
		v, err, _ = p.flight.Do(key, fn)
	}
	return v, err
}

// --- 種別ポリシー ---

// コピーのみフィールド単位のフォールバックを許容します。台本とプランは
// 配列件数や一意性といった構造制約を既定値で埋められないため許容しません。
func (p *Pipeline) copyPolicy() domain.KindPolicy {
	return domain.KindPolicy{
		Kind:               domain.KindCampaignCopy,
		AllowFieldFallback: true,
		Temperature:        0.6,
		RepairTemperature:  0.2,
		MaxOutputTokens:    p.cfg.CopyMaxTokens,
		Timeout:            p.cfg.CopyTimeout,
	}
}

func (p *Pipeline) reelsPolicy() domain.KindPolicy {
	return domain.KindPolicy{
		Kind:              domain.KindReelsScript,
		Temperature:       0.6,
		RepairTemperature: 0.2,
		MaxOutputTokens:   p.cfg.ReelsMaxTokens,
		Timeout:           p.cfg.ReelsTimeout,
	}
}

func (p *Pipeline) planPolicy() domain.KindPolicy {
	return domain.KindPolicy{
		Kind:              domain.KindWeeklyPlan,
		Temperature:       0.7,
		RepairTemperature: 0.2,
		MaxOutputTokens:   p.cfg.PlanMaxTokens,
		Timeout:           p.cfg.PlanTimeout,
	}
}

// notifyFailure は終端失敗を運用チャネルへ通知します。レスポンスを
// ブロックしないよう別ゴルーチンで送ります。
func (p *Pipeline) notifyFailure(kind domain.ArtifactKind, entityID string, cause error) {
	if p.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.notifier.NotifyGenerationFailure(ctx, kind, entityID, cause); err != nil {
			slog.Error("Failed to send failure notification", "kind", kind, "entity_id", entityID, "error", err)
		}
	}()
}
