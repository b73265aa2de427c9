package domain

import "time"

// ArtifactKind は生成物の種別です。
type ArtifactKind string

const (
	KindCampaignCopy ArtifactKind = "campaign_copy"
	KindReelsScript  ArtifactKind = "reels_script"
	KindWeeklyPlan   ArtifactKind = "weekly_plan"
)

// KindPolicy は種別ごとの生成ポリシーです。フォールバック可否は種別間の
// 非対称を表す明示的なフラグであり、分岐をコードに埋め込みません。
type KindPolicy struct {
	Kind ArtifactKind
	// AllowFieldFallback が true の場合、修復後もなお欠けているフィールドを
	// 決定的な既定文で埋めます。構造制約を持つ種別では常に false です。
	AllowFieldFallback bool
	Temperature        float64
	RepairTemperature  float64
	MaxOutputTokens    int64
	Timeout            time.Duration
}

// CampaignCopy は SNS 投稿用のコピー一式です。4 フィールドすべて必須です。
type CampaignCopy struct {
	Caption  string `json:"caption"`
	Text     string `json:"text"`
	CTA      string `json:"cta"`
	Hashtags string `json:"hashtags"`
}

// ShotlistItem は Reels 台本の 1 カットです。
type ShotlistItem struct {
	Scene    int    `json:"scene"`
	Camera   string `json:"camera"`
	Action   string `json:"action"`
	Dialogue string `json:"dialogue"`
}

// ReelsScript はショート動画（Reels）の台本アーティファクトです。
type ReelsScript struct {
	Hook            string         `json:"hook"`
	DurationSeconds int            `json:"duration_seconds"`
	AudioSuggestion string         `json:"audio_suggestion"`
	OnScreenText    []string       `json:"on_screen_text"`
	Shotlist        []ShotlistItem `json:"shotlist"`
	Script          string         `json:"script"`
	Caption         string         `json:"caption"`
	CTA             string         `json:"cta"`
	Hashtags        string         `json:"hashtags"`
}

// CampaignSeed は週間プランの各アイテムに埋め込まれる新規キャンペーンの
// 素体です。プラン確定時にここから Campaign が作成されます。
type CampaignSeed struct {
	ProductName        string   `json:"product_name"`
	Price              *float64 `json:"price,omitempty"`
	Audience           string   `json:"audience"`
	Objective          string   `json:"objective"`
	ProductPositioning string   `json:"product_positioning,omitempty"`
}

// Brief はクリエイティブの方向付けです。
type Brief struct {
	Angle    string `json:"angle"`
	HookHint string `json:"hook_hint"`
	CTAHint  string `json:"cta_hint"`
}

// PlanItemAI はモデルが返す週間プランの 1 アイテムです。
type PlanItemAI struct {
	DayOfWeek       int          `json:"day_of_week"`
	ContentType     string       `json:"content_type"`
	Theme           string       `json:"theme"`
	RecommendedTime string       `json:"recommended_time"`
	Campaign        CampaignSeed `json:"campaign"`
	Brief           Brief        `json:"brief"`
}

// WeeklyPlanAI はモデルが一回の往復で返すプラン全体です。アイテムは常に
// 4 件で、day_of_week はアイテム間で重複しません。
type WeeklyPlanAI struct {
	StrategySummary string       `json:"strategy_summary"`
	Items           []PlanItemAI `json:"items"`
}
