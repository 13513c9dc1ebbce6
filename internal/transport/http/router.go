package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/contactdeck/contactdeck/internal/transport/http/handler"
	"github.com/contactdeck/contactdeck/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterConfig struct {
	JWTKey        []byte
	AuthRateRPS   float64
	AuthRateBurst int
}

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, contactHandler *handler.ContactHandler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Contact API"})
	})

	// Auth routes are public but rate limited per IP.
	auth := r.Group("/api/auth", middleware.RateLimit(cfg.AuthRateRPS, cfg.AuthRateBurst))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected contact routes
	contacts := r.Group("/api/contacts", middleware.Auth(cfg.JWTKey))
	contacts.POST("", contactHandler.Create)
	contacts.GET("", contactHandler.List)
	contacts.GET("/:id", contactHandler.Get)
	contacts.PUT("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Delete)

	return r
}
