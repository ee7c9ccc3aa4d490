package router

import (
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/handler"
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/service"
	"movie-catalog/internal/session"
	"movie-catalog/internal/throttle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter wires services, handlers and middleware onto a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	// Trust no proxy headers: the login throttle keys on the client address,
	// and honoring X-Forwarded-For would let a direct client pick its own key.
	_ = r.SetTrustedProxies(nil)
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	limiter := throttle.New(cfg.Throttle)
	sessions := session.NewStore(db, time.Duration(cfg.Session.IdleMinutes)*time.Minute)

	authSvc := service.NewAuthService(db, limiter, cfg.Security.BcryptCost, log)
	catalogSvc := service.NewCatalogService(db, log)

	authHandler := handler.NewAuthHandler(authSvc, sessions, cfg.JWT, cfg.Session.CookieName, log)
	movieHandler := handler.NewMovieHandler(catalogSvc, log)
	exportHandler := handler.NewExportHandler(catalogSvc, log)

	api := r.Group("/api")

	// Login, registration and token exchange need no session.
	api.GET("/auth/login", authHandler.LoginPrompt)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/token", authHandler.Token)
	api.GET("/auth/logout", authHandler.Logout)

	// Everything else sits behind the session gate.
	protected := api.Group("")
	protected.Use(middleware.SessionGate(sessions, cfg.JWT.Secret, cfg.Session.CookieName, cfg.Session.Enabled))

	protected.GET("/me", authHandler.Me)

	protected.GET("/movies", movieHandler.List)
	protected.GET("/movies/:id", movieHandler.Get)
	protected.DELETE("/movies/:id", movieHandler.Delete)
	protected.POST("/movies/:id/favorite", movieHandler.Favorite)

	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	return r
}
