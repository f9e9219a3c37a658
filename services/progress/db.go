package progress

import (
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row-level write lock on engines that support it.
// SQLite (used by the test suite) serializes writers on its own and rejects
// the FOR UPDATE syntax.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// round2 rounds to two decimal places, the precision stored on enrollments
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
