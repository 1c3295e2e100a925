package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftworks/recon-api-go/pkg/database"
)

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, created, cancelled int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":         gorm.Expr("request_count + ?", 1),
			"assignments_created":   gorm.Expr("assignments_created + ?", created),
			"assignments_cancelled": gorm.Expr("assignments_cancelled + ?", cancelled),
		}),
	}).Create(&database.APIUsage{
		KeyID:                apiKey.ID,
		Date:                 today,
		RequestCount:         1,
		AssignmentsCreated:   created,
		AssignmentsCancelled: cancelled,
	})
}

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	// Calculate totals
	var totalRequests, totalCreated, totalCancelled int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalCreated += int64(u.AssignmentsCreated)
		totalCancelled += int64(u.AssignmentsCancelled)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests":              totalRequests,
			"assignments_created":   totalCreated,
			"assignments_cancelled": totalCancelled,
		},
	})
}

// GetUsage returns usage stats for a key (admin)
func (h *Handler) GetUsage(c *gin.Context) {
	id := c.Param("id")
	var usage []database.APIUsage
	h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage)
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}
