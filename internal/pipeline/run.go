package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"varejo-ai-web/internal/domain"
	"varejo-ai-web/internal/genai"
)

// generation は 1 回の生成実行に必要な入力一式です。validate は抽出済みの
// オブジェクトを検証し、値とフィールドエラーを返します。fallback は
// AllowFieldFallback が立つ種別だけに設定します。
type generation[T any] struct {
	policy   domain.KindPolicy
	system   string
	prompt   string
	validate func(map[string]any) (T, []genai.FieldError)
	fallback func(T, []genai.FieldError) (T, bool)
}

// runGeneration は FirstAttempt → Repairing の 2 状態で生成を実行します。
// 修復はちょうど 1 回。2 回目も不合格ならフォールバックを試し、それも
// 効かなければ AI_INVALID_FORMAT で終了します。
func runGeneration[T any](ctx context.Context, client genai.CompletionClient, g generation[T]) (T, error) {
	var zero T

	raw, err := complete(ctx, client, g.policy, g.system, g.prompt, g.policy.Temperature)
	if err != nil {
		return zero, err
	}

	var invalid any
	var value T
	var fieldErrs []genai.FieldError

	obj, exErr := genai.ExtractObject(raw)
	if exErr != nil {
		// 抽出失敗もフィールドエラー扱いにして修復へ回します。
		// 生テキストをそのまま invalid value として渡すのだ。
		fieldErrs = []genai.FieldError{{Path: "$", Reason: "resposta não contém um objeto JSON"}}
		invalid = raw
	} else {
		value, fieldErrs = g.validate(obj)
		invalid = obj
	}
	if len(fieldErrs) == 0 {
		return value, nil
	}

	slog.Info("Generation output rejected, attempting one repair",
		"kind", g.policy.Kind, "field_errors", len(fieldErrs))

	repairPrompt := genai.BuildRepairPrompt(fieldErrs, invalid)
	raw, err = complete(ctx, client, g.policy, g.system, repairPrompt, g.policy.RepairTemperature)
	if err != nil {
		return zero, err
	}

	obj, exErr = genai.ExtractObject(raw)
	if exErr != nil {
		return zero, domain.WrapPipelineError(domain.ErrAIInvalidFormat,
			"repair attempt still returned no JSON object", exErr)
	}
	value, fieldErrs = g.validate(obj)
	if len(fieldErrs) == 0 {
		return value, nil
	}
	if g.policy.AllowFieldFallback && g.fallback != nil {
		if fixed, ok := g.fallback(value, fieldErrs); ok {
			slog.Warn("Generation using field-level fallback values",
				"kind", g.policy.Kind, "field_errors", len(fieldErrs))
			return fixed, nil
		}
	}
	return zero, domain.NewPipelineError(domain.ErrAIInvalidFormat, genai.JoinFieldErrors(fieldErrs))
}

// complete は種別ポリシーのタイムアウトを張ってモデルを 1 回呼びます。
func complete(ctx context.Context, client genai.CompletionClient, policy domain.KindPolicy, system, prompt string, temperature float64) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	raw, err := client.Complete(cctx, genai.Request{
		System:          system,
		Prompt:          prompt,
		Temperature:     temperature,
		MaxOutputTokens: policy.MaxOutputTokens,
		ForceJSON:       true,
	})
	if err != nil {
		if domain.KindOf(err) == domain.ErrUnhandled && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", domain.WrapPipelineError(domain.ErrTimeout,
				fmt.Sprintf("generation exceeded %s", policy.Timeout), err)
		}
		return "", err
	}
	return raw, nil
}
