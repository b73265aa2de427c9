package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"varejo-ai-web/internal/domain"
)

// FetchPlan は店舗と週の組でプラン・アイテム・種付けキャンペーンを読み
// 出します。プランが無ければ (nil, nil) です。
func (s *Store) FetchPlan(ctx context.Context, ownerUserID, storeID, weekStart string) (*domain.WeeklyPlanBundle, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	const planQ = `SELECT p.id, p.store_id, p.week_start, p.status, p.strategy, p.created_at
	FROM weekly_plans p
	JOIN stores s ON s.id = p.store_id
	WHERE p.store_id = ? AND p.week_start = ? AND s.owner_user_id = ?`

	var plan domain.WeeklyPlan
	var strategy sql.NullString
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, planQ, storeID, weekStart, ownerUserID).Scan(
		&plan.ID, &plan.StoreID, &plan.WeekStart, &plan.Status, &strategy, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select weekly plan: %w", err)
	}
	plan.CreatedAt = fromMillis(createdAt)
	if strategy.Valid && strategy.String != "" {
		var st domain.PlanStrategy
		if err := json.Unmarshal([]byte(strategy.String), &st); err != nil {
			return nil, fmt.Errorf("decode plan strategy: %w", err)
		}
		plan.Strategy = &st
	}

	items, err := s.fetchPlanItems(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	campaigns := make([]domain.Campaign, 0, len(items))
	for _, item := range items {
		if item.CampaignID == "" {
			continue
		}
		campaign, err := s.GetCampaign(ctx, ownerUserID, item.CampaignID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}

	return &domain.WeeklyPlanBundle{Plan: plan, Items: items, Campaigns: campaigns}, nil
}

func (s *Store) fetchPlanItems(ctx context.Context, planID string) ([]domain.WeeklyPlanItem, error) {
	const q = `SELECT id, plan_id, day_of_week, content_type, theme,
		recommended_time, campaign_id, brief, created_at
	FROM weekly_plan_items WHERE plan_id = ? ORDER BY day_of_week ASC`

	rows, err := s.sqlDB.QueryContext(ctx, q, planID)
	if err != nil {
		return nil, fmt.Errorf("select plan items: %w", err)
	}
	defer rows.Close()

	var items []domain.WeeklyPlanItem
	for rows.Next() {
		var item domain.WeeklyPlanItem
		var campaignID, brief sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&item.ID, &item.PlanID, &item.DayOfWeek, &item.ContentType,
			&item.Theme, &item.RecommendedTime, &campaignID, &brief, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan plan item: %w", err)
		}
		item.CampaignID = campaignID.String
		item.CreatedAt = fromMillis(createdAt)
		if brief.Valid && brief.String != "" {
			if err := json.Unmarshal([]byte(brief.String), &item.Brief); err != nil {
				return nil, fmt.Errorf("decode item brief: %w", err)
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReplacePlan は検証済みの週間プランを 1 トランザクションで確定します。
// プラン行の upsert、旧アイテムの削除、4 キャンペーンの作成、
// 4 アイテムの挿入までを原子的に行い、途中までの状態は観測されません。
func (s *Store) ReplacePlan(ctx context.Context, store domain.Store, weekStart string, planAI domain.WeeklyPlanAI) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	strategy, err := json.Marshal(domain.PlanStrategy{
		StrategySummary: planAI.StrategySummary,
		StoreSnapshot:   store.Snapshot(),
	})
	if err != nil {
		return fmt.Errorf("encode strategy: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()

	// upsert: 同じ (store_id, week_start) が既にあれば strategy を差し替える
	planID := uuid.NewString()
	const upsertQ = `INSERT INTO weekly_plans (id, store_id, week_start, status, strategy, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(store_id, week_start) DO UPDATE SET status = excluded.status, strategy = excluded.strategy`
	if _, err := tx.ExecContext(ctx, upsertQ,
		planID, store.ID, weekStart, domain.PlanStatusGenerated, string(strategy), toMillis(now),
	); err != nil {
		return fmt.Errorf("upsert weekly plan: %w", err)
	}

	// upsert で既存行が残った場合に備えて実IDを引き直す
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM weekly_plans WHERE store_id = ? AND week_start = ?`,
		store.ID, weekStart,
	).Scan(&planID); err != nil {
		return fmt.Errorf("select plan id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_plan_items WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("clear plan items: %w", err)
	}

	for _, item := range planAI.Items {
		campaign, err := s.insertCampaign(ctx, tx, domain.Campaign{
			StoreID:            store.ID,
			ProductName:        item.Campaign.ProductName,
			Price:              item.Campaign.Price,
			Audience:           item.Campaign.Audience,
			Objective:          item.Campaign.Objective,
			ProductPositioning: item.Campaign.ProductPositioning,
			CreatedAt:          now,
		})
		if err != nil {
			return err
		}

		brief, err := json.Marshal(item.Brief)
		if err != nil {
			return fmt.Errorf("encode brief: %w", err)
		}
		const itemQ = `INSERT INTO weekly_plan_items (
			id, plan_id, day_of_week, content_type, theme, recommended_time,
			campaign_id, brief, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, itemQ,
			uuid.NewString(), planID, item.DayOfWeek, item.ContentType,
			item.Theme, item.RecommendedTime, campaign.ID, string(brief), toMillis(now),
		); err != nil {
			return fmt.Errorf("insert plan item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit plan: %w", err)
	}
	return nil
}
