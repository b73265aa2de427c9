package genai

import (
	"fmt"
	"math"
	"strings"

	"varejo-ai-web/internal/domain"
)

// FieldError は検証失敗の 1 件です。修復プロンプトにそのまま埋め込むため、
// 自由文ではなくフィールドパスと理由の組で保持します。
type FieldError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Reason
}

// JoinFieldErrors は詳細表示用にエラーを連結します。
func JoinFieldErrors(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// --- キャンペーンコピー ---

// コピーのフィールド上限。超過分は切り詰めます（保存前の正規化）。
const (
	maxCaptionLen  = 260
	maxTextLen     = 800
	maxCTALen      = 200
	maxHashtagsLen = 250
)

// ValidateCampaignCopy は抽出済みの値をコピーアーティファクトへ正規化し、
// 空のままの必須フィールドを構造化エラーとして返します。
func ValidateCampaignCopy(v map[string]any) (domain.CampaignCopy, []FieldError) {
	copyArt := domain.CampaignCopy{
		Caption:  clampString(stringField(v, "caption"), maxCaptionLen),
		Text:     clampString(stringField(v, "text"), maxTextLen),
		CTA:      clampString(stringField(v, "cta"), maxCTALen),
		Hashtags: clampString(stringField(v, "hashtags"), maxHashtagsLen),
	}

	var errs []FieldError
	if copyArt.Caption == "" {
		errs = append(errs, FieldError{Path: "caption", Reason: "required, must be a non-empty string"})
	}
	if copyArt.Text == "" {
		errs = append(errs, FieldError{Path: "text", Reason: "required, must be a non-empty string"})
	}
	if copyArt.CTA == "" {
		errs = append(errs, FieldError{Path: "cta", Reason: "required, must be a non-empty string"})
	}
	if copyArt.Hashtags == "" {
		errs = append(errs, FieldError{Path: "hashtags", Reason: "required, must be a non-empty string"})
	}
	return copyArt, errs
}

// --- Reels 台本 ---

// Reels の構造制約。プロンプトでは 15〜45 秒・3〜8 カットを推奨しつつ、
// 契約としての境界はここに定義された値です。
const (
	minDurationSeconds = 10
	maxDurationSeconds = 90
	minOnScreenText    = 2
	maxOnScreenText    = 12
	minShotlist        = 3
	maxShotlist        = 12
)

// ValidateReels は抽出済みの値を Reels 台本へ変換し、境界・件数違反を
// 構造化エラーとして返します。
func ValidateReels(v map[string]any) (domain.ReelsScript, []FieldError) {
	var errs []FieldError

	reels := domain.ReelsScript{
		Hook:            stringField(v, "hook"),
		AudioSuggestion: stringField(v, "audio_suggestion"),
		Script:          stringField(v, "script"),
		Caption:         stringField(v, "caption"),
		CTA:             stringField(v, "cta"),
		Hashtags:        stringField(v, "hashtags"),
	}

	errs = appendMinLen(errs, "hook", reels.Hook, 5)
	errs = appendMinLen(errs, "audio_suggestion", reels.AudioSuggestion, 3)
	errs = appendMinLen(errs, "script", reels.Script, 20)
	errs = appendMinLen(errs, "caption", reels.Caption, 10)
	errs = appendMinLen(errs, "cta", reels.CTA, 3)
	errs = appendMinLen(errs, "hashtags", reels.Hashtags, 3)

	if d, ok := intField(v, "duration_seconds"); !ok {
		errs = append(errs, FieldError{Path: "duration_seconds", Reason: "required, must be an integer"})
	} else if d < minDurationSeconds || d > maxDurationSeconds {
		errs = append(errs, FieldError{
			Path:   "duration_seconds",
			Reason: fmt.Sprintf("must be between %d and %d", minDurationSeconds, maxDurationSeconds),
		})
	} else {
		reels.DurationSeconds = d
	}

	onScreen, ok := stringSliceField(v, "on_screen_text")
	if !ok {
		errs = append(errs, FieldError{Path: "on_screen_text", Reason: "required, must be an array of non-empty strings"})
	} else if len(onScreen) < minOnScreenText || len(onScreen) > maxOnScreenText {
		errs = append(errs, FieldError{
			Path:   "on_screen_text",
			Reason: fmt.Sprintf("must have between %d and %d entries", minOnScreenText, maxOnScreenText),
		})
	} else {
		reels.OnScreenText = onScreen
	}

	shots, shotErrs := shotlistField(v)
	if len(shotErrs) > 0 {
		errs = append(errs, shotErrs...)
	} else {
		reels.Shotlist = shots
	}

	return reels, errs
}

func shotlistField(v map[string]any) ([]domain.ShotlistItem, []FieldError) {
	rawList, ok := v["shotlist"].([]any)
	if !ok {
		return nil, []FieldError{{Path: "shotlist", Reason: "required, must be an array of shot objects"}}
	}
	if len(rawList) < minShotlist || len(rawList) > maxShotlist {
		return nil, []FieldError{{
			Path:   "shotlist",
			Reason: fmt.Sprintf("must have between %d and %d entries", minShotlist, maxShotlist),
		}}
	}

	var errs []FieldError
	shots := make([]domain.ShotlistItem, 0, len(rawList))
	for i, rawItem := range rawList {
		item, ok := rawItem.(map[string]any)
		if !ok {
			errs = append(errs, FieldError{Path: fmt.Sprintf("shotlist[%d]", i), Reason: "must be an object"})
			continue
		}
		shot := domain.ShotlistItem{
			Camera:   stringField(item, "camera"),
			Action:   stringField(item, "action"),
			Dialogue: stringField(item, "dialogue"),
		}
		if scene, ok := intField(item, "scene"); !ok || scene < 1 {
			errs = append(errs, FieldError{Path: fmt.Sprintf("shotlist[%d].scene", i), Reason: "must be an integer >= 1"})
		} else {
			shot.Scene = scene
		}
		errs = appendMinLen(errs, fmt.Sprintf("shotlist[%d].camera", i), shot.Camera, 2)
		errs = appendMinLen(errs, fmt.Sprintf("shotlist[%d].action", i), shot.Action, 2)
		errs = appendMinLen(errs, fmt.Sprintf("shotlist[%d].dialogue", i), shot.Dialogue, 1)
		shots = append(shots, shot)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return shots, nil
}

// --- 週間プラン ---

const planItemCount = 4

// ValidateWeeklyPlan は抽出済みの値を週間プランへ変換します。
// day_of_week の一意性は構造検証とは別に CheckUniqueDays で確認します。
func ValidateWeeklyPlan(v map[string]any) (domain.WeeklyPlanAI, []FieldError) {
	var errs []FieldError

	plan := domain.WeeklyPlanAI{
		StrategySummary: stringField(v, "strategy_summary"),
	}
	errs = appendMinLen(errs, "strategy_summary", plan.StrategySummary, 10)

	rawItems, ok := v["items"].([]any)
	if !ok {
		errs = append(errs, FieldError{Path: "items", Reason: "required, must be an array"})
		return plan, errs
	}
	if len(rawItems) != planItemCount {
		errs = append(errs, FieldError{
			Path:   "items",
			Reason: fmt.Sprintf("must have exactly %d entries", planItemCount),
		})
		return plan, errs
	}

	for i, rawItem := range rawItems {
		path := fmt.Sprintf("items[%d]", i)
		m, ok := rawItem.(map[string]any)
		if !ok {
			errs = append(errs, FieldError{Path: path, Reason: "must be an object"})
			continue
		}
		item, itemErrs := validatePlanItem(path, m)
		errs = append(errs, itemErrs...)
		plan.Items = append(plan.Items, item)
	}
	return plan, errs
}

func validatePlanItem(path string, m map[string]any) (domain.PlanItemAI, []FieldError) {
	var errs []FieldError

	item := domain.PlanItemAI{
		ContentType:     strings.ToLower(stringField(m, "content_type")),
		Theme:           stringField(m, "theme"),
		RecommendedTime: stringField(m, "recommended_time"),
	}

	if day, ok := intField(m, "day_of_week"); !ok || day < 1 || day > 7 {
		errs = append(errs, FieldError{Path: path + ".day_of_week", Reason: "must be an integer between 1 and 7"})
	} else {
		item.DayOfWeek = day
	}
	if item.ContentType != "post" && item.ContentType != "reels" {
		errs = append(errs, FieldError{Path: path + ".content_type", Reason: `must be "post" or "reels"`})
	}
	errs = appendMinLen(errs, path+".theme", item.Theme, 3)
	errs = appendMinLen(errs, path+".recommended_time", item.RecommendedTime, 3)

	camp, ok := m["campaign"].(map[string]any)
	if !ok {
		errs = append(errs, FieldError{Path: path + ".campaign", Reason: "required, must be an object"})
	} else {
		item.Campaign = domain.CampaignSeed{
			ProductName:        stringField(camp, "product_name"),
			Audience:           stringField(camp, "audience"),
			Objective:          stringField(camp, "objective"),
			ProductPositioning: stringField(camp, "product_positioning"),
		}
		if price, ok := floatField(camp, "price"); ok {
			if price < 0 {
				errs = append(errs, FieldError{Path: path + ".campaign.price", Reason: "must be non-negative"})
			} else {
				item.Campaign.Price = &price
			}
		}
		errs = appendMinLen(errs, path+".campaign.product_name", item.Campaign.ProductName, 3)
		errs = appendMinLen(errs, path+".campaign.audience", item.Campaign.Audience, 3)
		errs = appendMinLen(errs, path+".campaign.objective", item.Campaign.Objective, 3)
	}

	brief, ok := m["brief"].(map[string]any)
	if !ok {
		errs = append(errs, FieldError{Path: path + ".brief", Reason: "required, must be an object"})
	} else {
		item.Brief = domain.Brief{
			Angle:    stringField(brief, "angle"),
			HookHint: stringField(brief, "hook_hint"),
			CTAHint:  stringField(brief, "cta_hint"),
		}
		errs = appendMinLen(errs, path+".brief.angle", item.Brief.Angle, 3)
		errs = appendMinLen(errs, path+".brief.hook_hint", item.Brief.HookHint, 3)
		errs = appendMinLen(errs, path+".brief.cta_hint", item.Brief.CTAHint, 3)
	}

	return item, errs
}

// CheckUniqueDays はアイテム間の day_of_week 重複を検出します。フィールド
// 単位のスキーマ規則では表現できないため、構造検証の後に明示的に呼びます。
func CheckUniqueDays(items []domain.PlanItemAI) []FieldError {
	seen := make(map[int]int, len(items))
	var errs []FieldError
	for i, item := range items {
		if first, dup := seen[item.DayOfWeek]; dup {
			errs = append(errs, FieldError{
				Path:   fmt.Sprintf("items[%d].day_of_week", i),
				Reason: fmt.Sprintf("duplicate day %d (already used by items[%d])", item.DayOfWeek, first),
			})
			continue
		}
		seen[item.DayOfWeek] = i
	}
	return errs
}

// --- 型ヘルパー ---

func stringField(v map[string]any, key string) string {
	s, _ := v[key].(string)
	return strings.TrimSpace(s)
}

func floatField(v map[string]any, key string) (float64, bool) {
	f, ok := v[key].(float64)
	return f, ok
}

func intField(v map[string]any, key string) (int, bool) {
	f, ok := v[key].(float64)
	if !ok || math.Trunc(f) != f {
		return 0, false
	}
	return int(f), true
}

func stringSliceField(v map[string]any, key string) ([]string, bool) {
	raw, ok := v[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, true
}

func appendMinLen(errs []FieldError, path, value string, min int) []FieldError {
	if len([]rune(value)) < min {
		return append(errs, FieldError{Path: path, Reason: fmt.Sprintf("must be a string with at least %d characters", min)})
	}
	return errs
}

func clampString(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}
