package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/shiftworks/recon-api-go/pkg/auth"
	"github.com/shiftworks/recon-api-go/pkg/config"
	"github.com/shiftworks/recon-api-go/pkg/database"
	"github.com/shiftworks/recon-api-go/pkg/handlers"
	"github.com/shiftworks/recon-api-go/pkg/recon"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.MustOpen(cfg.DatabaseURL, cfg.DataPath)
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Warn("could not ensure admin user", "error", err)
	}

	h := &handlers.Handler{
		DB:     db,
		Auth:   auth.New(cfg.JWTSecret, cfg.APIMasterSecret),
		Engine: recon.NewEngine(cfg.Locale),
		Logger: logger,
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Assignment Reconciliation API",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Reconciliation Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.GET("/collections/:id/matrix", h.GetMatrix)
		api.GET("/collections/:id/dates/:dateID/board", h.GetBoard)
		api.POST("/slots/:id/assignments", h.CreateAssignment)
		api.POST("/slots/:id/roster", h.ReplaceRoster)
		api.DELETE("/assignments/:id", h.CancelAssignment)
		api.GET("/usage", h.GetMyUsage)
	}

	logger.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("could not run server", "error", err)
		os.Exit(1)
	}
}
