package controllers

import (
	"log"
	"net/http"

	"firstline/internal/services"

	"github.com/gin-gonic/gin"
)

type UsageController struct {
	Usage *services.UsageService
}

// GetUsage returns how many analyses the authenticated user has run today
// along with the daily limit. Auth is handled by the middleware.
func (uc *UsageController) GetUsage(c *gin.Context) {
	userID := c.GetString("userID")

	count, err := uc.Usage.CountToday(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to fetch usage for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usage data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": count,
		"limit": services.DailyLimit,
	})
}
