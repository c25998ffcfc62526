package services

import (
	"context"
	"time"

	"firstline/internal/models"

	"gorm.io/gorm"
)

// DailyLimit is the number of analyses a user gets per calendar day.
const DailyLimit = 5

// UsageService answers "how many analyses has this user run since a given
// instant". Pure reads; the quota boundary is the start of the current
// server-local day.
type UsageService struct {
	db *gorm.DB
}

func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db}
}

// CountSince counts this user's analyses created at or after the boundary.
func (s *UsageService) CountSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	return gorm.G[models.HookAnalysis](s.db).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(ctx, "id")
}

// CountToday counts against the current day's quota window.
func (s *UsageService) CountToday(ctx context.Context, userID string) (int64, error) {
	return s.CountSince(ctx, userID, StartOfDay(time.Now()))
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
