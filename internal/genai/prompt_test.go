package genai

import (
	"strings"
	"testing"

	"varejo-ai-web/internal/domain"
)

// TestBuildCampaignCopyPromptIncludesFacts ensures campaign facts and store
// context land in the prompt text.
func TestBuildCampaignCopyPromptIncludesFacts(t *testing.T) {
	price := 12.5
	prompt := BuildCampaignCopyPrompt(domain.Campaign{
		ProductName: "Café gelado",
		Price:       &price,
		Audience:    "universitários",
		Objective:   "atrair clientes à tarde",
	}, &domain.Store{Name: "Café da Praça", City: "Campinas", State: "SP", ToneOfVoice: "descontraído"})

	for _, want := range []string{"Café gelado", "R$ 12.50", "universitários", "Café da Praça", "Campinas/SP", "descontraído"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

// TestBuildCampaignCopyPromptPlaceholders ensures absent optional facts become
// explicit placeholders instead of empty interpolations.
func TestBuildCampaignCopyPromptPlaceholders(t *testing.T) {
	prompt := BuildCampaignCopyPrompt(domain.Campaign{ProductName: "Bolo"}, nil)
	if !strings.Contains(prompt, "não informado") {
		t.Fatal("expected placeholder for absent facts")
	}
	if strings.Contains(prompt, "R$") {
		t.Fatal("expected no price formatting without a price")
	}
}

// TestBuildWeeklyPlanPromptRules ensures the structural rules the validator
// enforces are also stated to the model.
func TestBuildWeeklyPlanPromptRules(t *testing.T) {
	prompt := BuildWeeklyPlanPrompt(domain.Store{Name: "Loja Azul", MainSegment: "moda feminina"})
	for _, want := range []string{"exatamente 4", "ÚNICO", "post", "reels", "strategy_summary", "moda feminina"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

// TestBuildRepairPromptWithRawText ensures extraction failures feed the raw
// completion text back verbatim.
func TestBuildRepairPromptWithRawText(t *testing.T) {
	raw := "desculpe, aqui vai: caption sem json"
	prompt := BuildRepairPrompt([]FieldError{{Path: "$", Reason: "resposta não contém um objeto JSON"}}, raw)
	if !strings.Contains(prompt, raw) {
		t.Fatal("expected raw completion text in repair prompt")
	}
	if !strings.Contains(prompt, `"path": "$"`) {
		t.Fatal("expected structured field errors in repair prompt")
	}
}

// TestBuildRepairPromptWithObject ensures structured invalid values are
// re-serialized for the model.
func TestBuildRepairPromptWithObject(t *testing.T) {
	invalid := map[string]any{"caption": ""}
	prompt := BuildRepairPrompt([]FieldError{{Path: "caption", Reason: "required"}}, invalid)
	if !strings.Contains(prompt, `"caption"`) {
		t.Fatal("expected invalid object in repair prompt")
	}
	if !strings.Contains(prompt, "JSON PARA CORRIGIR") {
		t.Fatal("expected repair section header")
	}
}
