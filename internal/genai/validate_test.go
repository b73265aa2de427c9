package genai

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"varejo-ai-web/internal/domain"
)

func mustObject(t *testing.T, raw string) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return obj
}

func validReelsObject(t *testing.T) map[string]any {
	t.Helper()
	return mustObject(t, `{
		"hook": "Você precisa ver isso hoje",
		"duration_seconds": 25,
		"audio_suggestion": "pop animado",
		"on_screen_text": ["Oferta do dia", "Só até sexta"],
		"shotlist": [
			{"scene": 1, "camera": "close no produto", "action": "mostrar o produto", "dialogue": "olha isso"},
			{"scene": 2, "camera": "plano médio", "action": "apontar o preço", "dialogue": "preço especial"},
			{"scene": 3, "camera": "close", "action": "convite final", "dialogue": "te espero aqui"}
		],
		"script": "Abrimos com o produto em destaque e fechamos com o convite.",
		"caption": "Corre que é só essa semana!",
		"cta": "Chama no WhatsApp",
		"hashtags": "#oferta #promo"
	}`)
}

// TestValidateCampaignCopyAccepts ensures a complete copy object passes.
func TestValidateCampaignCopyAccepts(t *testing.T) {
	obj := mustObject(t, `{"caption":"c","text":"t","cta":"a","hashtags":"#x"}`)
	copyArt, errs := ValidateCampaignCopy(obj)
	if len(errs) != 0 {
		t.Fatalf("expected no field errors, got %v", errs)
	}
	if copyArt.Caption != "c" || copyArt.Hashtags != "#x" {
		t.Fatalf("unexpected artifact: %+v", copyArt)
	}
}

// TestValidateCampaignCopyMissingFields ensures each empty field is reported
// with its own path.
func TestValidateCampaignCopyMissingFields(t *testing.T) {
	obj := mustObject(t, `{"caption":"  ","text":"t"}`)
	_, errs := ValidateCampaignCopy(obj)
	if len(errs) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(errs), errs)
	}
	paths := map[string]bool{}
	for _, e := range errs {
		paths[e.Path] = true
	}
	for _, want := range []string{"caption", "cta", "hashtags"} {
		if !paths[want] {
			t.Fatalf("expected error for %s, got %v", want, errs)
		}
	}
}

// TestValidateCampaignCopyClampsLongFields ensures overlong values are
// truncated instead of rejected.
func TestValidateCampaignCopyClampsLongFields(t *testing.T) {
	long := strings.Repeat("a", 500)
	obj := map[string]any{"caption": long, "text": long, "cta": long, "hashtags": long}
	copyArt, errs := ValidateCampaignCopy(obj)
	if len(errs) != 0 {
		t.Fatalf("expected no field errors, got %v", errs)
	}
	if len([]rune(copyArt.Caption)) != 260 {
		t.Fatalf("expected caption clamped to 260, got %d", len([]rune(copyArt.Caption)))
	}
	if len([]rune(copyArt.CTA)) != 200 {
		t.Fatalf("expected cta clamped to 200, got %d", len([]rune(copyArt.CTA)))
	}
}

// TestValidateReelsAccepts ensures a well-formed script passes with bounds
// intact.
func TestValidateReelsAccepts(t *testing.T) {
	reels, errs := ValidateReels(validReelsObject(t))
	if len(errs) != 0 {
		t.Fatalf("expected no field errors, got %v", errs)
	}
	if reels.DurationSeconds != 25 {
		t.Fatalf("unexpected duration: %d", reels.DurationSeconds)
	}
	if len(reels.Shotlist) != 3 {
		t.Fatalf("unexpected shotlist size: %d", len(reels.Shotlist))
	}
}

// TestValidateReelsDurationBounds exercises both edges of the duration range.
func TestValidateReelsDurationBounds(t *testing.T) {
	cases := []struct {
		duration any
		ok       bool
	}{
		{float64(10), true},
		{float64(90), true},
		{float64(9), false},
		{float64(91), false},
		{float64(25.5), false},
		{"25", false},
	}
	for _, tc := range cases {
		obj := validReelsObject(t)
		obj["duration_seconds"] = tc.duration
		_, errs := ValidateReels(obj)
		hasDurationErr := false
		for _, e := range errs {
			if e.Path == "duration_seconds" {
				hasDurationErr = true
			}
		}
		if tc.ok && hasDurationErr {
			t.Fatalf("duration %v should be accepted: %v", tc.duration, errs)
		}
		if !tc.ok && !hasDurationErr {
			t.Fatalf("duration %v should be rejected", tc.duration)
		}
	}
}

// TestValidateReelsOnScreenTextBounds exercises both edges of the on-screen
// text entry window.
func TestValidateReelsOnScreenTextBounds(t *testing.T) {
	cases := []struct {
		entries int
		ok      bool
	}{
		{2, true},
		{12, true},
		{1, false},
		{13, false},
	}
	for _, tc := range cases {
		obj := validReelsObject(t)
		texts := make([]any, tc.entries)
		for i := range texts {
			texts[i] = fmt.Sprintf("letreiro %d", i+1)
		}
		obj["on_screen_text"] = texts
		_, errs := ValidateReels(obj)
		hasTextErr := false
		for _, e := range errs {
			if e.Path == "on_screen_text" {
				hasTextErr = true
			}
		}
		if tc.ok && hasTextErr {
			t.Fatalf("%d entries should be accepted: %v", tc.entries, errs)
		}
		if !tc.ok && !hasTextErr {
			t.Fatalf("%d entries should be rejected", tc.entries)
		}
	}
}

// TestValidateReelsShotlistBounds ensures the entry-count window is enforced.
func TestValidateReelsShotlistBounds(t *testing.T) {
	obj := validReelsObject(t)
	shots := obj["shotlist"].([]any)
	obj["shotlist"] = shots[:2]
	_, errs := ValidateReels(obj)
	found := false
	for _, e := range errs {
		if e.Path == "shotlist" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected shotlist size error, got %v", errs)
	}
}

// TestValidateReelsShotNeedsScene ensures per-shot constraints carry indexed
// paths.
func TestValidateReelsShotNeedsScene(t *testing.T) {
	obj := validReelsObject(t)
	shots := obj["shotlist"].([]any)
	shot := shots[1].(map[string]any)
	delete(shot, "scene")
	_, errs := ValidateReels(obj)
	found := false
	for _, e := range errs {
		if e.Path == "shotlist[1].scene" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected shotlist[1].scene error, got %v", errs)
	}
}

func validPlanObject(t *testing.T) map[string]any {
	t.Helper()
	item := `{
		"day_of_week": %d,
		"content_type": "%s",
		"theme": "chegada de novidades",
		"recommended_time": "19:30",
		"campaign": {"product_name": "Kit café da manhã", "price": 49.9, "audience": "moradores do bairro", "objective": "aumentar vendas"},
		"brief": {"angle": "novidade da semana", "hook_hint": "abra com o produto", "cta_hint": "peça pelo WhatsApp"}
	}`
	raw := `{"strategy_summary": "Semana focada em recorrência e vendas diretas.", "items": [` +
		strings.Join([]string{
			fmt.Sprintf(item, 1, "post"),
			fmt.Sprintf(item, 3, "reels"),
			fmt.Sprintf(item, 5, "post"),
			fmt.Sprintf(item, 6, "reels"),
		}, ",") + `]}`
	return mustObject(t, raw)
}

// TestValidateWeeklyPlanAccepts ensures 4 unique-day items pass structural
// validation and the uniqueness check.
func TestValidateWeeklyPlanAccepts(t *testing.T) {
	plan, errs := ValidateWeeklyPlan(validPlanObject(t))
	if len(errs) != 0 {
		t.Fatalf("expected no field errors, got %v", errs)
	}
	if dup := CheckUniqueDays(plan.Items); len(dup) != 0 {
		t.Fatalf("expected no duplicate-day errors, got %v", dup)
	}
	if len(plan.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(plan.Items))
	}
	if plan.Items[1].ContentType != "reels" {
		t.Fatalf("unexpected content type: %s", plan.Items[1].ContentType)
	}
}

// TestValidateWeeklyPlanItemCount ensures exactly 4 items are required.
func TestValidateWeeklyPlanItemCount(t *testing.T) {
	obj := validPlanObject(t)
	items := obj["items"].([]any)
	obj["items"] = items[:3]
	_, errs := ValidateWeeklyPlan(obj)
	if len(errs) == 0 {
		t.Fatal("expected item-count error")
	}
	if errs[0].Path != "items" {
		t.Fatalf("expected items path, got %s", errs[0].Path)
	}
}

// TestCheckUniqueDaysFlagsDuplicates ensures repeated days are reported with
// the duplicate index.
func TestCheckUniqueDaysFlagsDuplicates(t *testing.T) {
	items := []domain.PlanItemAI{
		{DayOfWeek: 1}, {DayOfWeek: 1}, {DayOfWeek: 2}, {DayOfWeek: 3},
	}
	errs := CheckUniqueDays(items)
	if len(errs) != 1 {
		t.Fatalf("expected 1 duplicate error, got %v", errs)
	}
	if errs[0].Path != "items[1].day_of_week" {
		t.Fatalf("unexpected path: %s", errs[0].Path)
	}
}

// TestValidateWeeklyPlanRejectsBadContentType ensures the post/reels enum is
// enforced per item.
func TestValidateWeeklyPlanRejectsBadContentType(t *testing.T) {
	obj := validPlanObject(t)
	items := obj["items"].([]any)
	items[2].(map[string]any)["content_type"] = "story"
	_, errs := ValidateWeeklyPlan(obj)
	found := false
	for _, e := range errs {
		if e.Path == "items[2].content_type" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected content_type error, got %v", errs)
	}
}
