package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"varejo-ai-web/internal/domain"
)

// リクエストボディの上限。生成 API の入力は小さな JSON だけです。
const maxBodyBytes = 64 << 10

// decodeJSON はリクエストボディを厳格に読み取ります。未知フィールドは
// 入力ミスの兆候として拒否します。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewPipelineError(domain.ErrInvalidInput, "request body is required")
		}
		return domain.WrapPipelineError(domain.ErrInvalidInput, "request body is not valid JSON", err)
	}
	if dec.More() {
		return domain.NewPipelineError(domain.ErrInvalidInput, "request body must contain a single JSON object")
	}
	return nil
}

// writeJSON はレスポンスを書き込みます。
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// errorResponse はエラーレスポンスの共通形です。
type errorResponse struct {
	OK      bool             `json:"ok"`
	Error   domain.ErrorKind `json:"error"`
	Details string           `json:"details,omitempty"`
}

// writeError はパイプラインエラーを分類ごとの HTTP ステータスへ写します。
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := domain.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "kind", kind, "error", err)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", "kind", kind, "details", domain.DetailsOf(err))
	}
	writeJSON(w, status, errorResponse{Error: kind, Details: domain.DetailsOf(err)})
}

// pathID はルートパラメータ {id} を取り出します。
func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// ownerID はリクエストの所有者識別子を取り出します。ゲートウェイが検証済みの
// ID を X-User-ID に載せてくる前提です。
func ownerID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if id == "" {
		return "", domain.NewPipelineError(domain.ErrInvalidInput, "X-User-ID header is required")
	}
	return id, nil
}
