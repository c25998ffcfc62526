package controllers

import (
	"log"
	"net/http"
	"unicode/utf8"

	"firstline/internal/middleware"
	"firstline/internal/models"
	"firstline/internal/pkg/analyzer"
	"firstline/internal/pkg/supabase"
	"firstline/internal/services"
	"firstline/internal/tasks"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const maxHookLength = 280 // characters, matching the platform limit

// TaskEnqueuer is the part of asynq.Client the controller uses to hand a
// failed insert to the worker.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AnalysisController struct {
	DB       *gorm.DB
	Auth     *supabase.AuthClient
	Analyzer *analyzer.HookAnalyzer
	Usage    *services.UsageService
	Queue    TaskEnqueuer // optional; nil disables persistence retries
}

type analyzeRequest struct {
	Hook string `json:"hook"`
}

// Analyze runs the full pipeline: input validation, token verification,
// quota check, model call, score extraction, persistence, response. Each
// stage fails fast; only the persistence step is allowed to fail silently.
func (ac *AnalysisController) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Hook == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hook text is required"})
		return
	}

	if utf8.RuneCountInString(req.Hook) > maxHookLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hook must be 280 characters or less"})
		return
	}

	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
		return
	}

	user, err := ac.Auth.GetUser(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	count, err := ac.Usage.CountToday(ctx, user.ID)
	if err != nil {
		log.Printf("failed to check usage for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check usage limit"})
		return
	}

	if count >= services.DailyLimit {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily limit reached. You can analyze 5 hooks per day."})
		return
	}

	result, err := ac.Analyzer.Analyze(ctx, req.Hook)
	if err != nil {
		log.Printf("analysis failed for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed. Check API key and credits."})
		return
	}

	score := analyzer.ExtractScore(result.Analysis)

	record := models.HookAnalysis{
		UserID:     user.ID,
		InputText:  req.Hook,
		Score:      score,
		UsedTokens: result.UsedTokens,
	}
	if err := gorm.G[models.HookAnalysis](ac.DB).Create(ctx, &record); err != nil {
		// The user still gets the analysis; the usage counter under-counts
		// until the retry task lands.
		log.Printf("failed to store analysis for %s: %v", user.ID, err)
		ac.enqueueRetry(record)
	}

	c.JSON(http.StatusOK, gin.H{"analysis": result.Analysis})
}

func (ac *AnalysisController) enqueueRetry(record models.HookAnalysis) {
	if ac.Queue == nil {
		return
	}

	task, err := tasks.NewRecordAnalysisTask(record.UserID, record.InputText, record.Score, record.UsedTokens)
	if err != nil {
		log.Printf("failed to build retry task: %v", err)
		return
	}

	if _, err := ac.Queue.Enqueue(task); err != nil {
		log.Printf("failed to enqueue retry task: %v", err)
	}
}
