package models

import "time"

// HookAnalysis is one scored analysis of a submitted hook. Rows are written
// once and used only for daily quota accounting; they are never updated.
type HookAnalysis struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     string `gorm:"index"`
	InputText  string
	Score      *int // nil when the model output had no parsable score line
	UsedTokens int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
