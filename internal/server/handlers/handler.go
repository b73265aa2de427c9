// Package handlers は JSON API のハンドラー群です。
package handlers

import (
	"varejo-ai-web/internal/config"
	"varejo-ai-web/internal/pipeline"
	"varejo-ai-web/internal/storage"
)

type Handler struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	store    *storage.Store
}

// NewHandler は指定された構成に基づいて新しいハンドラーを初期化します。
func NewHandler(cfg *config.Config, p *pipeline.Pipeline, store *storage.Store) *Handler {
	return &Handler{
		cfg:      cfg,
		pipeline: p,
		store:    store,
	}
}
