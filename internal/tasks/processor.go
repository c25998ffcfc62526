package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"firstline/internal/config"
	"firstline/internal/models"
	"firstline/internal/pkg/supabase"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// TaskProcessor holds dependencies for our task handlers
type TaskProcessor struct {
	DB         *gorm.DB
	config     *config.Config
	authClient *supabase.AuthClient
}

// NewTaskProcessor creates a new TaskProcessor
func NewTaskProcessor(db *gorm.DB, config *config.Config) *TaskProcessor {
	return &TaskProcessor{
		DB:         db,
		config:     config,
		authClient: supabase.NewWithServiceKey(config.SupabaseURL, config.SupabaseAnonKey, config.SupabaseServiceKey),
	}
}

// HandleRecordAnalysisTask re-attempts an analysis insert that was dropped on
// the request path. Records for accounts that no longer exist are discarded.
func (p *TaskProcessor) HandleRecordAnalysisTask(ctx context.Context, t *asynq.Task) error {
	var payload RecordAnalysisPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	if payload.UserID == "" {
		return fmt.Errorf("payload has no user id: %w", asynq.SkipRetry)
	}

	if p.config.SupabaseServiceKey != "" {
		if _, err := p.authClient.AdminGetUser(ctx, payload.UserID); err != nil {
			log.Printf("dropping analysis record for unknown user %s: %v", payload.UserID, err)
			return nil
		}
	}

	record := models.HookAnalysis{
		UserID:     payload.UserID,
		InputText:  payload.InputText,
		Score:      payload.Score,
		UsedTokens: payload.UsedTokens,
	}
	if err := gorm.G[models.HookAnalysis](p.DB).Create(ctx, &record); err != nil {
		return err
	}

	log.Printf("stored retried analysis record for %s", payload.UserID)
	return nil
}

func (p *TaskProcessor) GetAuthClient() *supabase.AuthClient {
	return p.authClient
}
