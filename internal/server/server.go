// Package server exposes the household ledger over a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hauskasse/backend/internal/auth"
	"github.com/hauskasse/backend/internal/middleware"
	"github.com/hauskasse/backend/internal/service"
	"github.com/hauskasse/backend/internal/storage"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	splits      *service.SplitService
	debts       *service.DebtService
	settlements *service.SettlementService
	settings    *service.SettingsService
	auth        *service.AuthService
	store       storage.Store
	jwtManager  *auth.JWTManager
}

// New creates a Server over the given store and JWT manager.
func New(store storage.Store, jwtManager *auth.JWTManager) *Server {
	return &Server{
		splits:      service.NewSplitService(store),
		debts:       service.NewDebtService(store),
		settlements: service.NewSettlementService(store),
		settings:    service.NewSettingsService(store),
		auth:        service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager),
		store:       store,
		jwtManager:  jwtManager,
	}
}

// Router builds the full route tree with middleware attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logging(), middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("", middleware.Auth(s.jwtManager))
	{
		authed.GET("/split/ratios", s.handleCalculateRatios)
		authed.GET("/split/settings", s.handleGetSplitSettings)
		authed.PUT("/split/settings", s.handleUpdateSplitSettings)

		authed.POST("/expenses", s.handleCreateSharedExpense)
		authed.DELETE("/expenses/:id", s.handleDeleteSharedExpense)
		authed.GET("/expenses/:id/splits", s.handleGetSplitsForTransaction)

		authed.GET("/splits/owed", s.handleGetUnpaidSplits)
		authed.GET("/splits/owing", s.handleGetSplitsOwedToUser)
		authed.POST("/splits/:id/paid", s.handleMarkSplitPaid)

		authed.GET("/debts", s.handleDirectionSummary)
		authed.GET("/debts/:userID", s.handleDebtBalance)

		authed.POST("/settlements", s.handleCreateSettlement)
		authed.GET("/settlements", s.handleListSettlements)
		authed.GET("/settlements/:id", s.handleGetSettlement)

		authed.POST("/accounts", s.handleCreateAccount)
		authed.GET("/accounts/:id", s.handleGetAccount)

		authed.POST("/incomes", s.handleRecordIncome)
	}

	return router
}
