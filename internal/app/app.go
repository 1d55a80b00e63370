package app

import (
	"github.com/gin-gonic/gin"

	"github.com/adamistheanswer/pokebay/config"
	"github.com/adamistheanswer/pokebay/internal/http"
	"github.com/adamistheanswer/pokebay/internal/repository"
	"github.com/adamistheanswer/pokebay/internal/service"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *gin.Engine {
	InitializeLogger()

	dbComponents := InitializeDatabase(cfg.Database)

	var runs service.RunRecorder
	var runsRepo *repository.RunsRepository
	if dbComponents != nil {
		runs = dbComponents.RunsRepo
		runsRepo = dbComponents.RunsRepo
	}

	serviceComponents := InitializeServices(cfg, runs)

	handler := http.NewHandler(serviceComponents.Planner, runsRepo)

	healthHandler := http.NewHealthHandler()
	if serviceComponents.MarketBreaker != nil {
		healthHandler.RegisterCircuitBreaker("market", serviceComponents.MarketBreaker)
	}

	routerCfg := http.RouterConfig{
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow,
		CORSOrigins: cfg.Server.CORSOrigins,
		EnableAuth:  cfg.Auth.Enabled,
		JWTSecret:   cfg.Auth.JWTSecretKey,
	}

	return http.NewRouter(handler, healthHandler, routerCfg)
}
