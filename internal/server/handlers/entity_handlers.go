package handlers

import (
	"errors"
	"net/http"
	"strings"

	"varejo-ai-web/internal/domain"
	"varejo-ai-web/internal/storage"
)

type createStoreRequest struct {
	Name             string `json:"name"`
	City             string `json:"city"`
	State            string `json:"state"`
	MainSegment      string `json:"main_segment"`
	BrandPositioning string `json:"brand_positioning"`
	ToneOfVoice      string `json:"tone_of_voice"`
	Phone            string `json:"phone"`
	WhatsApp         string `json:"whatsapp"`
	Instagram        string `json:"instagram"`
	PrimaryColor     string `json:"primary_color"`
	SecondaryColor   string `json:"secondary_color"`
	LogoURL          string `json:"logo_url"`
}

// HandleCreateStore は店舗プロフィールを作成します。
func (h *Handler) HandleCreateStore(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createStoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, domain.NewPipelineError(domain.ErrInvalidInput, "name is required"))
		return
	}

	store, err := h.store.CreateStore(r.Context(), domain.Store{
		OwnerUserID:      owner,
		Name:             req.Name,
		City:             req.City,
		State:            req.State,
		MainSegment:      req.MainSegment,
		BrandPositioning: req.BrandPositioning,
		ToneOfVoice:      req.ToneOfVoice,
		Phone:            req.Phone,
		WhatsApp:         req.WhatsApp,
		Instagram:        req.Instagram,
		PrimaryColor:     req.PrimaryColor,
		SecondaryColor:   req.SecondaryColor,
		LogoURL:          req.LogoURL,
	})
	if err != nil {
		writeError(w, r, domain.WrapPipelineError(domain.ErrDBUpdateFailed, "failed to create store", err))
		return
	}
	writeJSON(w, http.StatusCreated, store)
}

// HandleGetStore は店舗プロフィールを返します。
func (h *Handler) HandleGetStore(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	store, err := h.store.GetStore(r.Context(), owner, pathID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, domain.NewPipelineError(domain.ErrStoreNotFound, "loja não encontrada"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

type createCampaignRequest struct {
	StoreID            string   `json:"store_id"`
	ProductName        string   `json:"product_name"`
	Price              *float64 `json:"price"`
	Audience           string   `json:"audience"`
	Objective          string   `json:"objective"`
	ProductPositioning string   `json:"product_positioning"`
}

// HandleCreateCampaign はキャンペーンを作成します。店舗の所有者確認を
// 先に行い、他人の店舗への作成は存在しない扱いにします。
func (h *Handler) HandleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req createCampaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.StoreID == "" {
		writeError(w, r, domain.NewPipelineError(domain.ErrInvalidInput, "store_id is required"))
		return
	}
	if strings.TrimSpace(req.ProductName) == "" {
		writeError(w, r, domain.NewPipelineError(domain.ErrInvalidInput, "product_name is required"))
		return
	}
	if req.Price != nil && *req.Price < 0 {
		writeError(w, r, domain.NewPipelineError(domain.ErrInvalidInput, "price must be non-negative"))
		return
	}

	if _, err := h.store.GetStore(r.Context(), owner, req.StoreID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, domain.NewPipelineError(domain.ErrStoreNotFound, "loja não encontrada"))
			return
		}
		writeError(w, r, err)
		return
	}

	campaign, err := h.store.CreateCampaign(r.Context(), domain.Campaign{
		StoreID:            req.StoreID,
		ProductName:        req.ProductName,
		Price:              req.Price,
		Audience:           req.Audience,
		Objective:          req.Objective,
		ProductPositioning: req.ProductPositioning,
	})
	if err != nil {
		writeError(w, r, domain.WrapPipelineError(domain.ErrDBUpdateFailed, "failed to create campaign", err))
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

// HandleGetCampaign はキャンペーンと生成済みアーティファクトを返します。
func (h *Handler) HandleGetCampaign(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	campaign, err := h.store.GetCampaign(r.Context(), owner, pathID(r))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, domain.NewPipelineError(domain.ErrCampaignNotFound, "campanha não encontrada"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
