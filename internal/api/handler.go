package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"trait-attendance-backend/config"
	"trait-attendance-backend/internal/engine"
	"trait-attendance-backend/internal/mw"
	"trait-attendance-backend/internal/store"
	"trait-attendance-backend/internal/whatsapp"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	engine   *engine.Engine
	webpush  *webpush.Options
	whatsapp *whatsapp.Client
	dedup    *mw.Deduper
	cfg      *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, eng *engine.Engine, webpushOptions *webpush.Options, wa *whatsapp.Client, dedup *mw.Deduper, cfg *config.Config) *Handler {
	return &Handler{
		store:    s,
		engine:   eng,
		webpush:  webpushOptions,
		whatsapp: wa,
		dedup:    dedup,
		cfg:      cfg,
	}
}
