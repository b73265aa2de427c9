package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"varejo-ai-web/internal/domain"
)

type generateCampaignRequest struct {
	CampaignID string `json:"campaign_id"`
	Force      bool   `json:"force"`
}

type generatePlanRequest struct {
	StoreID   string `json:"store_id"`
	WeekStart string `json:"week_start"`
	Force     bool   `json:"force"`
}

// generateResponse は生成 API 共通の成功レスポンスです。artifact の中身は
// 種別ごとに異なります。
type generateResponse struct {
	OK          bool       `json:"ok"`
	Reused      bool       `json:"reused"`
	Artifact    any        `json:"artifact"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// requireUUID はエンティティ ID の形式を事前に弾きます。ストレージまで
// 到達させると 404 になり、入力ミスと存在しない ID の区別がつかないためです。
func requireUUID(field, value string) error {
	if value == "" {
		return domain.NewPipelineError(domain.ErrInvalidInput, field+" is required")
	}
	if _, err := uuid.Parse(value); err != nil {
		return domain.NewPipelineError(domain.ErrInvalidInput, field+" must be a UUID")
	}
	return nil
}

// HandleGenerateCampaignCopy はキャンペーンコピー生成リクエストを処理します。
func (h *Handler) HandleGenerateCampaignCopy(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req generateCampaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireUUID("campaign_id", req.CampaignID); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.pipeline.GenerateCampaignCopy(r.Context(), owner, req.CampaignID, req.Force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		OK:          true,
		Reused:      result.Reused,
		Artifact:    result.Artifact,
		GeneratedAt: &result.GeneratedAt,
	})
}

// HandleGenerateReels は Reels 台本生成リクエストを処理します。
func (h *Handler) HandleGenerateReels(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req generateCampaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireUUID("campaign_id", req.CampaignID); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.pipeline.GenerateReels(r.Context(), owner, req.CampaignID, req.Force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		OK:          true,
		Reused:      result.Reused,
		Artifact:    result.Artifact,
		GeneratedAt: &result.GeneratedAt,
	})
}

// HandleGenerateWeeklyPlan は週間プラン生成リクエストを処理します。
func (h *Handler) HandleGenerateWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req generatePlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireUUID("store_id", req.StoreID); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.pipeline.GenerateWeeklyPlan(r.Context(), owner, req.StoreID, req.WeekStart, req.Force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		OK:       true,
		Reused:   result.Reused,
		Artifact: result.Bundle,
	})
}

// HandleGetWeeklyPlan は保存済みの週間プランを返します。未生成の週は
// exists: false で応答します。
func (h *Handler) HandleGetWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	if err := requireUUID("store_id", storeID); err != nil {
		writeError(w, r, err)
		return
	}

	bundle, err := h.pipeline.FetchWeeklyPlan(r.Context(), owner, storeID, r.URL.Query().Get("week_start"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if bundle == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "exists": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "exists": true, "artifact": bundle})
}
