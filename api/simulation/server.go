package simulation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/kilianp07/iexsim/core/logger"
	"github.com/kilianp07/iexsim/core/pricing"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Address        string
	AllowedOrigins []string
	Release        bool
}

// NewRouter builds the gin engine serving the simulation API.
func NewRouter(svc *pricing.Service, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(log))
	router.Use(ErrorHandler())

	h := NewHandler(svc)
	router.GET("/health", h.Health)
	api := router.Group("/api/v1")
	{
		api.GET("/presets", h.ListPresets)
		api.POST("/simulations", h.Simulate)
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}

// NewHandlerWithCORS wraps the router with CORS handling for the allowed origins.
func NewHandlerWithCORS(router http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return router
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	}).Handler(router)
}

// Serve runs the API until ctx is canceled.
func Serve(ctx context.Context, cfg ServerConfig, svc *pricing.Service, log logger.Logger) error {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewHandlerWithCORS(NewRouter(svc, log), cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api shutdown: %v", err)
		}
	}()
	log.Infof("serving API on %s", cfg.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
