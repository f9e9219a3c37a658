package progress

import (
	"testing"

	"lms/database"
	trailModels "lms/models/trail"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func makeTrail(t *testing.T, db *gorm.DB) *trailModels.Trail {
	t.Helper()
	trail := &trailModels.Trail{Name: "Backpacking Basics", IsPublished: true}
	require.NoError(t, db.Create(trail).Error)
	return trail
}

func makeSection(t *testing.T, db *gorm.DB, trailID uint, order int) *trailModels.TrailSection {
	t.Helper()
	section := &trailModels.TrailSection{TrailID: trailID, Title: "Section", OrderIndex: order}
	require.NoError(t, db.Create(section).Error)
	return section
}

func makeItem(t *testing.T, db *gorm.DB, trailID uint, sectionID *uint, kind trailModels.ItemKind, order int, required bool, duration *int) *trailModels.TrailItem {
	t.Helper()
	item := &trailModels.TrailItem{
		TrailID:            trailID,
		SectionID:          sectionID,
		Title:              "Item",
		Kind:               kind,
		OrderIndex:         order,
		DurationSeconds:    duration,
		RequiresCompletion: &required,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func completeItem(t *testing.T, db *gorm.DB, userID, itemID uint) {
	t.Helper()
	_, _, err := UpsertItemProgress(db, userID, itemID, ProgressUpdate{
		Status: trailModels.ProgressCompleted,
	})
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
