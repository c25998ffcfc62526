package testhelpers

import (
	"context"
	"fmt"
	"time"

	"firstline/internal/models"

	g "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func CleanupDB(db *gorm.DB) {
	var tables []string

	err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error
	g.Expect(err).NotTo(g.HaveOccurred())

	if len(tables) == 0 {
		return
	}

	for _, table := range tables {
		if table == "spatial_ref_sys" || table == "schema_migrations" {
			continue
		}

		query := fmt.Sprintf("TRUNCATE TABLE \"%s\" RESTART IDENTITY CASCADE", table)
		err := db.Exec(query).Error
		g.Expect(err).NotTo(g.HaveOccurred(), "Failed to truncate table: "+table)
	}
}

// CreateHookAnalysis inserts one analysis row, defaulting CreatedAt to now.
// Tests around the quota boundary pass explicit timestamps.
func CreateHookAnalysis(db *gorm.DB, ctx context.Context, record *models.HookAnalysis) *models.HookAnalysis {
	if record.InputText == "" {
		record.InputText = "test hook"
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	result := gorm.WithResult()
	g.Expect(gorm.G[models.HookAnalysis](db, result).Create(ctx, record)).To(g.Succeed())
	g.Expect(result.RowsAffected).To(g.Equal(int64(1)))
	return record
}
