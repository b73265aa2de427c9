package domain

import "time"

// PlanStatus は週間プランの状態です。現状 generated のみを書き込みます。
const PlanStatusGenerated = "generated"

// WeeklyPlan は永続化された週間プランの行です。
type WeeklyPlan struct {
	ID        string        `json:"id"`
	StoreID   string        `json:"store_id"`
	WeekStart string        `json:"week_start"`
	Status    string        `json:"status"`
	Strategy  *PlanStrategy `json:"strategy,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// PlanStrategy はプラン行の strategy カラムに保存される JSON です。
type PlanStrategy struct {
	StrategySummary string        `json:"strategy_summary"`
	StoreSnapshot   StoreSnapshot `json:"store_snapshot"`
}

// WeeklyPlanItem は週間プランの 1 アイテム行です。Brief は JSON のまま
// 保持し、CampaignID で種付けされたキャンペーンへリンクします。
type WeeklyPlanItem struct {
	ID              string    `json:"id"`
	PlanID          string    `json:"plan_id"`
	DayOfWeek       int       `json:"day_of_week"`
	ContentType     string    `json:"content_type"`
	Theme           string    `json:"theme"`
	RecommendedTime string    `json:"recommended_time"`
	CampaignID      string    `json:"campaign_id"`
	Brief           Brief     `json:"brief"`
	CreatedAt       time.Time `json:"created_at"`
}

// WeeklyPlanBundle はプラン・アイテム・種付けキャンペーンをまとめた
// 読み取り結果です。
type WeeklyPlanBundle struct {
	Plan      WeeklyPlan       `json:"plan"`
	Items     []WeeklyPlanItem `json:"items"`
	Campaigns []Campaign       `json:"campaigns"`
}
