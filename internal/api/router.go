package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"trait-attendance-backend/config"
	"trait-attendance-backend/internal/engine"
	"trait-attendance-backend/internal/mw"
	"trait-attendance-backend/internal/store"
	"trait-attendance-backend/internal/whatsapp"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, eng *engine.Engine, cfg *config.Config, webpushOptions *webpush.Options, wa *whatsapp.Client) *gin.Engine {
	r := gin.Default()

	dedup := mw.NewDeduper(time.Duration(cfg.Server.DedupTTLSeconds) * time.Second)
	handler := NewHandler(s, eng, webpushOptions, wa, dedup, cfg)

	// Webhook endpoints sit outside the rate-limited group: Meta retries
	// delivery on anything but a prompt 200.
	r.GET("/webhook", handler.VerifyWebhook)
	r.POST("/webhook", handler.ReceiveWebhook)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/command", handler.PostCommand)
		api.POST("/card-scan", handler.PostCardScan)

		api.GET("/members", handler.GetMembers)
		api.POST("/members", handler.PostMember)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)

		// Static content only; command and roster paths are never cached.
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
