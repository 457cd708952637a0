package handlers

import (
	"github.com/SscSPs/statement_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/statement_ledger_app/internal/middleware"
	"github.com/SscSPs/statement_ledger_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.ServiceContainer,
) {
	r.Use(cors.Default())

	r.GET("/", home)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, container)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	container *services.ServiceContainer,
) {
	// All v1 routes require a caller identity.
	v1 := r.Group("/api/v1", middleware.UserIdentityMiddleware())

	registerImportRoutes(v1, container.Ingestion, uploadRateLimiter(cfg))
	registerSubscriptionRoutes(v1, container.Recurring)
	registerAccountRoutes(v1, container.Account)
}

// uploadRateLimiter builds the per-IP limiter for the statement upload route.
func uploadRateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.UploadRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	store := memory.NewStore()
	return middleware.RateLimit(limiter.New(store, rate))
}
