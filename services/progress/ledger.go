package progress

import (
	"errors"
	"time"

	"lms/config"
	trailModels "lms/models/trail"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressUpdate is a client-reported progress change for one item
type ProgressUpdate struct {
	Status        trailModels.ProgressStatus
	ProgressValue *int
	// Submission that caused completion, for FORM items
	CompletedSubmissionID *uint
}

// watchPolicy returns the video completion thresholds. Falls back to the
// documented defaults when configuration was not loaded (engine tests).
func watchPolicy() (requiredPercent, tolerancePercent int) {
	if config.AppConfig != nil {
		return config.AppConfig.RequiredWatchPercent, config.AppConfig.WatchTolerancePercent
	}
	return 70, 5
}

// UpsertItemProgress applies a reported progress update to the (user, item)
// ledger row, creating it lazily, and re-syncs the owning trail's enrollment
// inside the same transaction.
//
// Invariants enforced here:
//   - ProgressValue is monotonically non-decreasing.
//   - COMPLETED is sticky; a lesser later update never downgrades it (only
//     the completed-submission link may still be refreshed).
//   - A COMPLETED claim on a video item is validated against the stored
//     watch time, never against the value reported in the same request.
//
// The read-modify-write runs under a row lock so two tabs reporting progress
// concurrently cannot lose updates.
func UpsertItemProgress(db *gorm.DB, userID, itemID uint, upd ProgressUpdate) (*trailModels.ItemProgress, *SyncResult, error) {
	var row trailModels.ItemProgress
	var syncRes *SyncResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var item trailModels.TrailItem
		if err := tx.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Create the baseline row if this is the first interaction; the
		// unique (user, item) index makes concurrent creates collapse.
		baseline := trailModels.ItemProgress{
			UserID:      userID,
			TrailItemID: itemID,
			Status:      trailModels.ProgressNotStarted,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "trail_item_id"}},
			DoNothing: true,
		}).Create(&baseline).Error; err != nil {
			return err
		}

		if err := lockForUpdate(tx).
			Where("user_id = ? AND trail_item_id = ?", userID, itemID).
			First(&row).Error; err != nil {
			return err
		}

		reported := 0
		if upd.ProgressValue != nil && *upd.ProgressValue > 0 {
			reported = *upd.ProgressValue
		}

		if upd.Status == trailModels.ProgressCompleted && row.Status != trailModels.ProgressCompleted {
			if err := checkVideoCompletion(&item, row.ProgressValue, reported); err != nil {
				return err
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"progress_value":      maxInt(row.ProgressValue, reported),
			"last_interaction_at": now,
		}

		// Sticky completion: a stored COMPLETED survives any later status
		effective := upd.Status
		if row.Status == trailModels.ProgressCompleted {
			effective = trailModels.ProgressCompleted
		}
		updates["status"] = effective

		if effective == trailModels.ProgressCompleted {
			if row.CompletedAt == nil {
				updates["completed_at"] = now
			}
		} else {
			updates["completed_at"] = nil
		}

		if upd.CompletedSubmissionID != nil {
			updates["completed_submission_id"] = *upd.CompletedSubmissionID
		}

		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND trail_item_id = ?", userID, itemID).First(&row).Error; err != nil {
			return err
		}

		// Re-aggregate the trail within the same transaction so the
		// enrollment row is never observably stale.
		res, err := syncWithin(tx, userID, item.TrailID)
		if err != nil {
			return err
		}
		syncRes = res
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &row, syncRes, nil
}

// checkVideoCompletion validates a COMPLETED claim on a video item. Items
// without a duration, and non-video items, complete unconditionally.
func checkVideoCompletion(item *trailModels.TrailItem, storedValue, reportedValue int) error {
	if item.Kind != trailModels.KindVideo || item.DurationSeconds == nil || *item.DurationSeconds <= 0 {
		return nil
	}
	requiredPct, tolPct := watchPolicy()
	duration := *item.DurationSeconds
	target := float64(duration) * float64(requiredPct) / 100
	tolerance := float64(duration) * float64(tolPct) / 100

	if float64(reportedValue) > float64(duration)+tolerance {
		return &SkipAheadBlockedError{ReportedSeconds: reportedValue, DurationSeconds: duration}
	}
	if float64(storedValue)+tolerance < target {
		return &InsufficientWatchTimeError{
			WatchedSeconds:  storedValue,
			RequiredSeconds: int(target),
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
