package pipeline

import (
	"context"
	"fmt"
	"time"

	"varejo-ai-web/internal/domain"
	"varejo-ai-web/internal/genai"
)

// ReelsResult は Reels 台本生成の結果です。
type ReelsResult struct {
	Artifact    domain.ReelsScript
	GeneratedAt time.Time
	Reused      bool
}

// GenerateReels はキャンペーンの Reels 台本を生成して永続化します。
// コピーと同じ冪等ゲートを持ちますが、フィールドフォールバックはありません。
func (p *Pipeline) GenerateReels(ctx context.Context, ownerID, campaignID string, force bool) (ReelsResult, error) {
	campaign, err := p.getCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return ReelsResult{}, err
	}
	if campaign.Reels != nil && campaign.ReelsGeneratedAt != nil && !force {
		return ReelsResult{Artifact: *campaign.Reels, GeneratedAt: *campaign.ReelsGeneratedAt, Reused: true}, nil
	}
	if !campaign.HasRequiredFacts() {
		return ReelsResult{}, domain.NewPipelineError(domain.ErrInsufficientData,
			"preencha nome do produto, público-alvo e objetivo antes de gerar")
	}

	key := fmt.Sprintf("%s:%s", domain.KindReelsScript, campaignID)
	v, err := p.doFlight(ctx, key, func() (any, error) {
		return p.generateReels(ctx, ownerID, campaignID, force)
	})
	if err != nil {
		return ReelsResult{}, err
	}
	return v.(ReelsResult), nil
}

func (p *Pipeline) generateReels(ctx context.Context, ownerID, campaignID string, force bool) (ReelsResult, error) {
	campaign, err := p.getCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return ReelsResult{}, err
	}
	if campaign.Reels != nil && campaign.ReelsGeneratedAt != nil && !force {
		return ReelsResult{Artifact: *campaign.Reels, GeneratedAt: *campaign.ReelsGeneratedAt, Reused: true}, nil
	}

	artifact, err := runGeneration(ctx, p.client, generation[domain.ReelsScript]{
		policy:   p.reelsPolicy(),
		system:   genai.SystemDirective,
		prompt:   genai.BuildReelsPrompt(campaign),
		validate: genai.ValidateReels,
	})
	if err != nil {
		p.notifyFailure(domain.KindReelsScript, campaignID, err)
		return ReelsResult{}, err
	}

	now := time.Now().UTC()
	rows, err := p.store.UpdateCampaignReels(ctx, ownerID, campaignID, artifact, force, now)
	if err != nil {
		return ReelsResult{}, domain.WrapPipelineError(domain.ErrDBUpdateFailed, "failed to persist reels script", err)
	}
	if rows == 0 {
		return p.resolveReelsRace(ctx, ownerID, campaignID, force)
	}
	return ReelsResult{Artifact: artifact, GeneratedAt: now}, nil
}

func (p *Pipeline) resolveReelsRace(ctx context.Context, ownerID, campaignID string, force bool) (ReelsResult, error) {
	if force {
		return ReelsResult{}, domain.NewPipelineError(domain.ErrDBUpdateFailed,
			"forced update matched no campaign row")
	}
	campaign, err := p.getCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return ReelsResult{}, err
	}
	if campaign.Reels != nil && campaign.ReelsGeneratedAt != nil {
		return ReelsResult{Artifact: *campaign.Reels, GeneratedAt: *campaign.ReelsGeneratedAt, Reused: true}, nil
	}
	return ReelsResult{}, domain.NewPipelineError(domain.ErrDBUpdateFailed, "reels script update matched no row")
}
