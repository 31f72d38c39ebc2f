// Package router assembles the gin engine: middleware chain and route table.
package router

import (
	"github.com/AnTengye/contractmock/config"
	"github.com/AnTengye/contractmock/handler"
	"github.com/AnTengye/contractmock/middleware"
	"github.com/AnTengye/contractmock/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the routes are bound to.
type Deps struct {
	Store *service.ContractStore
	NewID service.IDGenerator
}

// New builds the engine for cfg. Unmatched routes get gin's default 404.
func New(cfg *config.Config, deps Deps) *gin.Engine {
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	if cfg.MetricsEnabled() {
		router.Use(middleware.Metrics())
	}
	if cfg.RateLimitEnabled() {
		router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	rootHandler := handler.NewRootHandler(deps.Store)
	contractHandler := handler.NewContractHandler(deps.Store, deps.NewID)

	router.GET("/", rootHandler.Index)
	router.GET("/health", rootHandler.Health)
	if cfg.MetricsEnabled() {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	contracts := router.Group("/contracts")
	{
		contracts.GET("", contractHandler.List)
		contracts.POST("", contractHandler.Create)
		contracts.GET("/:id", contractHandler.Get)
		contracts.PUT("/:id", contractHandler.Update)
		contracts.DELETE("/:id", contractHandler.Cancel)
	}

	return router
}
