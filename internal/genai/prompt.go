package genai

import (
	"encoding/json"
	"fmt"
	"strings"

	"varejo-ai-web/internal/domain"
)

// プロンプトはすべて純関数で組み立てます。I/O も副作用もありません。
// 生成されるコンテンツはブラジルの小規模小売向けのためポルトガル語です。

// SystemDirective は全種別共通のシステム指示です。
const SystemDirective = "Você é um redator de marketing para pequeno varejo. Responda somente com JSON válido, sem markdown, sem explicações."

// notProvided は任意フィールド欠落時の明示的なプレースホルダです。
// 空文字の補間をそのまま出すとモデルが書式を崩すため使用します。
const notProvided = "não informado"

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func priceLine(price *float64) string {
	if price == nil {
		return notProvided
	}
	return fmt.Sprintf("R$ %.2f", *price)
}

// BuildCampaignCopyPrompt はキャンペーンコピー生成の指示文を組み立てます。
// store は任意で、nil の場合は店舗情報をプレースホルダにします。
func BuildCampaignCopyPrompt(c domain.Campaign, store *domain.Store) string {
	storeName := notProvided
	cityState := notProvided
	tone := notProvided
	if store != nil {
		storeName = orNotProvided(store.Name)
		if strings.TrimSpace(store.City) != "" || strings.TrimSpace(store.State) != "" {
			cityState = strings.TrimSpace(store.City + "/" + store.State)
		}
		tone = orNotProvided(store.ToneOfVoice)
	}

	var b strings.Builder
	b.WriteString("Crie uma campanha de marketing para pequeno varejo no Brasil.\n\n")
	b.WriteString("DADOS:\n")
	fmt.Fprintf(&b, "- Produto: %s\n", orNotProvided(c.ProductName))
	fmt.Fprintf(&b, "- Preço: %s\n", priceLine(c.Price))
	fmt.Fprintf(&b, "- Público: %s\n", orNotProvided(c.Audience))
	fmt.Fprintf(&b, "- Objetivo: %s\n", orNotProvided(c.Objective))
	fmt.Fprintf(&b, "- Perfil do produto: %s\n", orNotProvided(c.ProductPositioning))
	fmt.Fprintf(&b, "- Loja: %s\n", storeName)
	fmt.Fprintf(&b, "- Cidade/UF: %s\n", cityState)
	fmt.Fprintf(&b, "- Tom de voz: %s\n", tone)
	b.WriteString("\nREGRAS:\n")
	b.WriteString("- Retorne APENAS JSON válido (sem texto extra)\n")
	b.WriteString("- caption: até 240 caracteres\n")
	b.WriteString("- text: 1 parágrafo curto\n")
	b.WriteString("- cta: 1 frase\n")
	b.WriteString("- hashtags: 5 a 10 hashtags separadas por espaço (sem vírgulas)\n")
	b.WriteString("\nFORMATO OBRIGATÓRIO:\n")
	b.WriteString(`{"caption":"","text":"","cta":"","hashtags":""}`)
	return b.String()
}

// BuildReelsPrompt は Reels 台本生成の指示文を組み立てます。
func BuildReelsPrompt(c domain.Campaign) string {
	var b strings.Builder
	b.WriteString("Você é um roteirista especialista em Reels/Instagram para vendas locais.\n\n")
	b.WriteString("Gere UM roteiro de Reels em PORTUGUÊS-BR e responda SOMENTE com JSON válido.\n")
	b.WriteString("NÃO inclua markdown, comentários, texto antes/depois do JSON.\n\n")
	b.WriteString("DADOS DA CAMPANHA:\n")
	fmt.Fprintf(&b, "- Produto: %s\n", orNotProvided(c.ProductName))
	fmt.Fprintf(&b, "- Preço: %s\n", priceLine(c.Price))
	fmt.Fprintf(&b, "- Público: %s\n", orNotProvided(c.Audience))
	fmt.Fprintf(&b, "- Objetivo: %s\n", orNotProvided(c.Objective))
	fmt.Fprintf(&b, "- Perfil do produto: %s\n", orNotProvided(c.ProductPositioning))
	b.WriteString("\nREGRAS:\n")
	b.WriteString("- duration_seconds entre 15 e 45\n")
	b.WriteString("- on_screen_text: array de frases curtas\n")
	b.WriteString("- shotlist: 3 a 8 itens, cada item com scene, camera, action, dialogue\n")
	b.WriteString("- Preencha TODOS os campos abaixo (nenhum pode faltar)\n")
	b.WriteString("\nFORMATO OBRIGATÓRIO:\n")
	b.WriteString(`{
  "hook": "frase curta e forte",
  "duration_seconds": 25,
  "audio_suggestion": "um estilo de áudio (ex: funk leve / pop animado)",
  "on_screen_text": ["frase 1", "frase 2", "frase 3"],
  "shotlist": [
    { "scene": 1, "camera": "close no produto", "action": "mostrar o produto", "dialogue": "fala curta" },
    { "scene": 2, "camera": "plano médio", "action": "apontar preço", "dialogue": "fala curta" },
    { "scene": 3, "camera": "close", "action": "final com convite", "dialogue": "fala curta" }
  ],
  "script": "roteiro corrido com as falas, em parágrafos curtos",
  "caption": "legenda pronta para postar",
  "cta": "chamada para ação (ex: peça no WhatsApp)",
  "hashtags": "#tag1 #tag2 #tag3"
}`)
	return b.String()
}

// BuildWeeklyPlanPrompt は週間プラン生成の指示文を組み立てます。入力は
// 店舗プロフィールのみで、キャンペーンはまだ存在しません。
func BuildWeeklyPlanPrompt(store domain.Store) string {
	var b strings.Builder
	b.WriteString("Você é um estrategista de marketing para comércios locais.\n")
	b.WriteString("Crie um PLANO SEMANAL de 4 conteúdos para a loja abaixo (foco em vendas e recorrência).\n\n")
	b.WriteString("LOJA:\n")
	fmt.Fprintf(&b, "- Nome: %s\n", orNotProvided(store.Name))
	fmt.Fprintf(&b, "- Cidade/UF: %s/%s\n", store.City, store.State)
	fmt.Fprintf(&b, "- Segmento principal: %s\n", orNotProvided(store.MainSegment))
	fmt.Fprintf(&b, "- Posicionamento padrão: %s\n", orNotProvided(store.BrandPositioning))
	fmt.Fprintf(&b, "- Tom de voz: %s\n", orNotProvided(store.ToneOfVoice))
	b.WriteString("\nREGRAS:\n")
	b.WriteString("- Responda SOMENTE com JSON válido (sem markdown).\n")
	b.WriteString("- Gere exatamente 4 itens em \"items\".\n")
	b.WriteString("- day_of_week (1=Seg ... 7=Dom) deve ser ÚNICO (não repetir dia).\n")
	b.WriteString("- content_type: \"post\" ou \"reels\".\n")
	b.WriteString("- recommended_time: formato \"HH:MM\" (24h).\n")
	b.WriteString("- theme: curto.\n")
	b.WriteString("- Em campaign, preencha SEMPRE: product_name, audience, objective. price pode ser null.\n")
	b.WriteString("- Em brief: angle, hook_hint, cta_hint.\n")
	b.WriteString("\nFORMATO:\n")
	b.WriteString(`{
  "strategy_summary": "...",
  "items": [
    {
      "day_of_week": 1,
      "content_type": "post",
      "theme": "...",
      "recommended_time": "19:30",
      "campaign": {
        "product_name": "...",
        "price": 0,
        "audience": "...",
        "objective": "...",
        "product_positioning": "..."
      },
      "brief": { "angle": "...", "hook_hint": "...", "cta_hint": "..." }
    }
  ]
}`)
	return b.String()
}

// BuildRepairPrompt は修復用の指示文を組み立てます。構造化された検証エラーと
// 不正だった値をそのまま提示し、同じスキーマの JSON のみを返すよう求めます。
func BuildRepairPrompt(errs []FieldError, invalidValue any) string {
	var b strings.Builder
	b.WriteString("O JSON abaixo está INVÁLIDO e não atende o schema obrigatório.\n")
	b.WriteString("Corrija e devolva SOMENTE o JSON válido no mesmo formato.\n")
	b.WriteString("Não inclua texto antes/depois do JSON.\n\n")
	b.WriteString("ERROS:\n")
	b.WriteString(safeStringify(errs))
	b.WriteString("\n\nJSON PARA CORRIGIR:\n")
	if raw, ok := invalidValue.(string); ok {
		// 抽出に失敗した場合はモデルの生テキストをそのまま提示する
		b.WriteString(raw)
	} else {
		b.WriteString(safeStringify(invalidValue))
	}
	return b.String()
}

func safeStringify(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
