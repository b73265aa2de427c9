package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind はパイプラインの失敗分類です。レスポンスの error フィールドに
// そのまま載るため、値は安定した識別子として扱います。
type ErrorKind string

const (
	ErrInvalidInput     ErrorKind = "INVALID_INPUT"
	ErrCampaignNotFound ErrorKind = "CAMPAIGN_NOT_FOUND"
	ErrStoreNotFound    ErrorKind = "STORE_NOT_FOUND"
	ErrInsufficientData ErrorKind = "INSUFFICIENT_DATA"
	// ErrAINonJSON は抽出後も JSON オブジェクトが見つからなかった状態です。
	// 修復ラウンドも失敗した場合は ErrAIInvalidFormat として表面化します。
	ErrAINonJSON        ErrorKind = "AI_RETURNED_NON_JSON"
	ErrAIInvalidFormat  ErrorKind = "AI_INVALID_FORMAT"
	ErrTimeout          ErrorKind = "TIMEOUT"
	ErrDBUpdateFailed   ErrorKind = "DB_UPDATE_FAILED"
	ErrUnhandled        ErrorKind = "UNHANDLED"
)

// PipelineError は分類と詳細を持つ構造化エラーです。
type PipelineError struct {
	Kind    ErrorKind
	Details string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Details)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError は分類付きエラーを生成します。
func NewPipelineError(kind ErrorKind, details string) *PipelineError {
	return &PipelineError{Kind: kind, Details: details}
}

// WrapPipelineError は下位エラーを分類付きで包みます。
func WrapPipelineError(kind ErrorKind, details string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Details: details, Err: err}
}

// KindOf はエラーから分類を取り出します。未分類のものは UNHANDLED です。
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrUnhandled
}

// DetailsOf は構造化エラーの詳細文字列を返します。
func DetailsOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		if pe.Details != "" {
			return pe.Details
		}
		if pe.Err != nil {
			return pe.Err.Error()
		}
		return ""
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// HTTPStatus は分類ごとの HTTP ステータスを返します。
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case ErrInvalidInput, ErrInsufficientData:
		return http.StatusBadRequest
	case ErrCampaignNotFound, ErrStoreNotFound:
		return http.StatusNotFound
	case ErrAINonJSON, ErrAIInvalidFormat:
		return http.StatusBadGateway
	case ErrTimeout:
		return http.StatusGatewayTimeout
	case ErrDBUpdateFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
