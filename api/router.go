package api

import (
	"log/slog"
	"time"

	"github.com/Domenick1991/skyfare/config"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/Domenick1991/skyfare/internal/service/flights"
	"github.com/Domenick1991/skyfare/internal/service/wallet"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const rateLimiterTTL = 3 * time.Minute

type Deps struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Wallets  wallet.WalletUseCase
	Tickets  TicketRenderer
	Health   map[string]Pinger
	Log      *slog.Logger
}

func NewRouter(httpCfg config.HTTPConfig, authCfg config.AuthConfig, deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(log), cors.New(corsConfig(httpCfg.CORSOrigins)))

	router.GET("/metrics", Metrics())
	if httpCfg.SwaggerDir != "" {
		router.Static("/swagger", httpCfg.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	apiGroup := router.Group("/api")
	apiGroup.GET("/health", Health(deps.Health))
	NewFlightHandler(deps.Flights, log).Register(apiGroup.Group("/flights"))

	authed := apiGroup.Group("", Authenticate(authCfg.JWTSecret))
	limiter := NewRateLimiter(httpCfg.RateLimitRPS, httpCfg.RateLimitBurst, rateLimiterTTL)
	NewBookingHandler(deps.Bookings, log).Register(authed.Group("/bookings"), RateLimit(limiter))
	NewTicketHandler(deps.Bookings, deps.Tickets, log).Register(authed.Group("/tickets"))
	NewWalletHandler(deps.Wallets, log).Register(authed.Group("/wallet"))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderUserID, HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
