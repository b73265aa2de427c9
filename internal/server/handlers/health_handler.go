package handlers

import "net/http"

// HandleHealth は稼働確認のエンドポイントです。DB 接続まで確認します。
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
