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

// PlanResult は週間プラン生成の結果です。
type PlanResult struct {
	Bundle *domain.WeeklyPlanBundle
	Reused bool
}

// GenerateWeeklyPlan は 1 往復で 1 週間分（4 アイテム）のプランを生成し、
// アイテムごとのキャンペーンを種付けして保存します。weekStart が空なら
// 今週の月曜（UTC）を使います。
func (p *Pipeline) GenerateWeeklyPlan(ctx context.Context, ownerID, storeID, weekStart string, force bool) (PlanResult, error) {
	store, err := p.getStore(ctx, ownerID, storeID)
	if err != nil {
		return PlanResult{}, err
	}
	weekStart, err = normalizeWeekStart(weekStart)
	if err != nil {
		return PlanResult{}, err
	}

	if !force {
		bundle, err := p.store.FetchPlan(ctx, ownerID, storeID, weekStart)
		if err != nil {
			return PlanResult{}, err
		}
		if bundle != nil {
			return PlanResult{Bundle: bundle, Reused: true}, nil
		}
	}

	key := fmt.Sprintf("%s:%s:%s", domain.KindWeeklyPlan, storeID, weekStart)
	v, err := p.doFlight(ctx, key, func() (any, error) {
		return p.generatePlan(ctx, ownerID, store, weekStart, force)
	})
	if err != nil {
		return PlanResult{}, err
	}
	return v.(PlanResult), nil
}

func (p *Pipeline) generatePlan(ctx context.Context, ownerID string, store domain.Store, weekStart string, force bool) (PlanResult, error) {
	if !force {
		bundle, err := p.store.FetchPlan(ctx, ownerID, store.ID, weekStart)
		if err != nil {
			return PlanResult{}, err
		}
		if bundle != nil {
			return PlanResult{Bundle: bundle, Reused: true}, nil
		}
	}

	planAI, err := runGeneration(ctx, p.client, generation[domain.WeeklyPlanAI]{
		policy: p.planPolicy(),
		system: genai.SystemDirective,
		prompt: genai.BuildWeeklyPlanPrompt(store),
		validate: func(v map[string]any) (domain.WeeklyPlanAI, []genai.FieldError) {
			plan, errs := genai.ValidateWeeklyPlan(v)
			if len(errs) == 0 {
				errs = genai.CheckUniqueDays(plan.Items)
			}
			return plan, errs
		},
	})
	if err != nil {
		p.notifyFailure(domain.KindWeeklyPlan, store.ID, err)
		return PlanResult{}, err
	}

	if err := p.store.ReplacePlan(ctx, store, weekStart, planAI); err != nil {
		return PlanResult{}, domain.WrapPipelineError(domain.ErrDBUpdateFailed, "failed to persist weekly plan", err)
	}
	bundle, err := p.store.FetchPlan(ctx, ownerID, store.ID, weekStart)
	if err != nil {
		return PlanResult{}, err
	}
	if bundle == nil {
		return PlanResult{}, domain.NewPipelineError(domain.ErrDBUpdateFailed, "weekly plan vanished after write")
	}
	return PlanResult{Bundle: bundle}, nil
}

// FetchWeeklyPlan は保存済みプランを読み出します。未生成なら nil を返します。
func (p *Pipeline) FetchWeeklyPlan(ctx context.Context, ownerID, storeID, weekStart string) (*domain.WeeklyPlanBundle, error) {
	if _, err := p.getStore(ctx, ownerID, storeID); err != nil {
		return nil, err
	}
	weekStart, err := normalizeWeekStart(weekStart)
	if err != nil {
		return nil, err
	}
	return p.store.FetchPlan(ctx, ownerID, storeID, weekStart)
}

func (p *Pipeline) getStore(ctx context.Context, ownerID, storeID string) (domain.Store, error) {
	store, err := p.store.GetStore(ctx, ownerID, storeID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Store{}, domain.NewPipelineError(domain.ErrStoreNotFound, "loja não encontrada")
	}
	if err != nil {
		return domain.Store{}, err
	}
	return store, nil
}

// normalizeWeekStart は週の開始日を YYYY-MM-DD で検証し、空なら今週の
// 月曜（UTC）を返します。
func normalizeWeekStart(weekStart string) (string, error) {
	if weekStart == "" {
		return currentWeekStart(time.Now().UTC()), nil
	}
	if _, err := time.Parse("2006-01-02", weekStart); err != nil {
		return "", domain.NewPipelineError(domain.ErrInvalidInput, "week_start must be an YYYY-MM-DD date")
	}
	return weekStart, nil
}

func currentWeekStart(now time.Time) string {
	// time.Weekday は日曜=0 なので月曜基準に読み替えます。
	offset := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -offset).Format("2006-01-02")
}
