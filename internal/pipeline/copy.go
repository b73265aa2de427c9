package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"varejo-ai-web/internal/domain"
	"varejo-ai-web/internal/genai"
	"varejo-ai-web/internal/storage"
)

// CopyResult はコピー生成の結果です。Reused が true のときは既存成果物を
// そのまま返しており、モデル呼び出しは発生していません。
type CopyResult struct {
	Artifact    domain.CampaignCopy
	GeneratedAt time.Time
	Reused      bool
}

// キャンペーンコピーの既定文面です。修復後もフィールド検証に通らなかった
// 項目だけをこの文面で埋めます。
const (
	fallbackCaption  = "Aproveite nossa oferta especial! Produto de qualidade com preço que cabe no seu bolso."
	fallbackText     = "Temos uma novidade que vai facilitar o seu dia a dia. Qualidade garantida, atendimento de perto e condições especiais por tempo limitado. Venha conferir na loja ou fale com a gente pelo WhatsApp."
	fallbackCTA      = "Chama no WhatsApp e garanta o seu!"
	fallbackHashtags = "#oferta #promocao #novidade"
)

// GenerateCampaignCopy はキャンペーンの販促コピーを生成して永続化します。
// 既に生成済みで force が立っていなければ再利用します。
func (p *Pipeline) GenerateCampaignCopy(ctx context.Context, ownerID, campaignID string, force bool) (CopyResult, error) {
	campaign, err := p.getCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return CopyResult{}, err
	}
	if campaign.Copy != nil && campaign.CopyGeneratedAt != nil && !force {
		return CopyResult{Artifact: *campaign.Copy, GeneratedAt: *campaign.CopyGeneratedAt, Reused: true}, nil
	}
	if !campaign.HasRequiredFacts() {
		return CopyResult{}, domain.NewPipelineError(domain.ErrInsufficientData,
			"preencha nome do produto, público-alvo e objetivo antes de gerar")
	}

	key := fmt.Sprintf("%s:%s", domain.KindCampaignCopy, campaignID)
	v, err := p.doFlight(ctx, key, func() (any, error) {
		return p.generateCopy(ctx, ownerID, campaignID, force)
	})
	if err != nil {
		return CopyResult{}, err
	}
	return v.(CopyResult), nil
}

func (p *Pipeline) generateCopy(ctx context.Context, ownerID, campaignID string, force bool) (CopyResult, error) {
	// 他のリクエストがフライト外で先に書いた可能性があるため読み直します。
	campaign, err := p.getCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return CopyResult{}, err
	}
	if campaign.Copy != nil && campaign.CopyGeneratedAt != nil && !force {
		return CopyResult{Artifact: *campaign.Copy, GeneratedAt: *campaign.CopyGeneratedAt, Reused: true}, nil
	}

	var storeProfile *domain.Store
	if st, err := p.store.GetStore(ctx, ownerID, campaign.StoreID); err == nil {
		storeProfile = &st
	} else if !errors.Is(err, storage.ErrNotFound) {
		return CopyResult{}, err
	}

	artifact, err := runGeneration(ctx, p.client, generation[domain.CampaignCopy]{
		policy:   p.copyPolicy(),
		system:   genai.SystemDirective,
		prompt:   genai.BuildCampaignCopyPrompt(campaign, storeProfile),
		validate: genai.ValidateCampaignCopy,
		fallback: applyCopyFallback,
	})
	if err != nil {
		p.notifyFailure(domain.KindCampaignCopy, campaignID, err)
		return CopyResult{}, err
	}

	now := time.Now().UTC()
	rows, err := p.store.UpdateCampaignCopy(ctx, ownerID, campaignID, artifact, force, now)
	if err != nil {
		return CopyResult{}, domain.WrapPipelineError(domain.ErrDBUpdateFailed, "failed to persist campaign copy", err)
	}
	if rows == 0 {
		return p.resolveCopyRace(ctx, ownerID, campaignID, force)
	}
	return CopyResult{Artifact: artifact, GeneratedAt: now}, nil
}

// resolveCopyRace は CAS 書き込みが 0 行だったときの分岐です。force なしなら
// 競合相手の成果物を読み直して再利用として返します。
func (p *Pipeline) resolveCopyRace(ctx context.Context, ownerID, campaignID string, force bool) (CopyResult, error) {
	if force {
		return CopyResult{}, domain.NewPipelineError(domain.ErrDBUpdateFailed,
			"forced update matched no campaign row")
	}
	campaign, err := p.getCampaign(ctx, ownerID, campaignID)
	if err != nil {
		return CopyResult{}, err
	}
	if campaign.Copy != nil && campaign.CopyGeneratedAt != nil {
		return CopyResult{Artifact: *campaign.Copy, GeneratedAt: *campaign.CopyGeneratedAt, Reused: true}, nil
	}
	return CopyResult{}, domain.NewPipelineError(domain.ErrDBUpdateFailed, "campaign copy update matched no row")
}

func (p *Pipeline) getCampaign(ctx context.Context, ownerID, campaignID string) (domain.Campaign, error) {
	campaign, err := p.store.GetCampaign(ctx, ownerID, campaignID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Campaign{}, domain.NewPipelineError(domain.ErrCampaignNotFound, "campanha não encontrada")
	}
	if err != nil {
		return domain.Campaign{}, err
	}
	return campaign, nil
}

// applyCopyFallback は不合格フィールドだけを既定文面に差し替えます。
func applyCopyFallback(partial domain.CampaignCopy, errs []genai.FieldError) (domain.CampaignCopy, bool) {
	for _, fe := range errs {
		switch fe.Path {
		case "caption":
			partial.Caption = fallbackCaption
		case "text":
			partial.Text = fallbackText
		case "cta":
			partial.CTA = fallbackCTA
		case "hashtags":
			partial.Hashtags = fallbackHashtags
		default:
			return partial, false
		}
	}
	return partial, true
}
