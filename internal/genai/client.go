package genai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"varejo-ai-web/internal/domain"
)

// Request は 1 回の補完呼び出しのパラメータです。
type Request struct {
	System          string
	Prompt          string
	Temperature     float64
	MaxOutputTokens int64
	// ForceJSON はプロバイダの JSON 出力モードをヒントとして有効化します。
	// 保証としては信用せず、抽出と検証は常に実行します。
	ForceJSON bool
}

// CompletionClient は補完サービスを抽象化します。共有可変状態を持たず、
// 1 リクエスト内で 2 回（初回＋修復）呼び出しても安全であることが契約です。
type CompletionClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAIClient は openai-go SDK（chat completions）による実装です。
type OpenAIClient struct {
	model  string
	client openai.Client
}

// NewOpenAIClient は API キーとモデル名から補完クライアントを構築します。
func NewOpenAIClient(apiKey, baseURL, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{model: model, client: openai.NewClient(opts...)}, nil
}

// Complete はモデルを 1 回呼び出し、生テキストを返します。タイムアウトは
// 呼び出し側の ctx に委ね、期限超過は TIMEOUT として分類します。
// プロバイダ由来のエラーはステータス・メッセージを解釈し直さずに伝播します。
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxOutputTokens)
	}
	if req.ForceJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.WrapPipelineError(domain.ErrTimeout, "completion deadline exceeded", err)
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", domain.WrapPipelineError(domain.ErrUnhandled,
				fmt.Sprintf("provider status %d: %s", apiErr.StatusCode, apiErr.Message), err)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewPipelineError(domain.ErrUnhandled, "provider returned empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
