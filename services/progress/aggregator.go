package progress

import (
	"errors"
	"time"

	trailModels "lms/models/trail"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncResult reports what a trail sync did
type SyncResult struct {
	Enrollment        *trailModels.Enrollment
	Certificate       *trailModels.TrailCertificate
	CertificateIssued bool
}

// ProgressSummary is the aggregate view of one trail for one user
type ProgressSummary struct {
	Done            int                          `json:"done"`
	Total           int                          `json:"total"`
	ProgressPercent float64                      `json:"computed_progress_percent"`
	Status          trailModels.EnrollmentStatus `json:"status"`
	NextAction      string                       `json:"next_action"`
	EnrolledAt      *time.Time                   `json:"enrolled_at"`
	CompletedAt     *time.Time                   `json:"completed_at"`
}

// EnsureEnrollment returns the user's enrollment in a trail, creating it
// idempotently on first access.
func EnsureEnrollment(db *gorm.DB, userID, trailID uint) (*trailModels.Enrollment, error) {
	var enrollment trailModels.Enrollment
	err := db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&enrollment).Error
	if err == nil {
		return &enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	fresh := trailModels.Enrollment{
		UserID:    userID,
		TrailID:   trailID,
		Status:    trailModels.EnrollmentEnrolled,
		StartedAt: &now,
	}
	// Concurrent first accesses collapse on the unique (user, trail) index
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "trail_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Sync recomputes a user's enrollment state for a trail from the item
// progress ledger, in its own transaction. Safe to call repeatedly; two
// consecutive calls with no writes in between persist identical values.
func Sync(db *gorm.DB, userID, trailID uint) (*SyncResult, error) {
	var res *SyncResult
	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := syncWithin(tx, userID, trailID)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// syncWithin runs the reconciliation inside the caller's transaction. The
// certificate issuer runs here too, so issuance commits together with the
// progress write that triggered completion.
func syncWithin(tx *gorm.DB, userID, trailID uint) (*SyncResult, error) {
	if _, err := EnsureEnrollment(tx, userID, trailID); err != nil {
		return nil, err
	}

	var enrollment trailModels.Enrollment
	if err := lockForUpdate(tx).
		Where("user_id = ? AND trail_id = ?", userID, trailID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}

	total, done, err := trailCounts(tx, userID, trailID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if total > 0 {
		percent = round2(100 * float64(done) / float64(total))
	}

	now := time.Now()
	updates := map[string]interface{}{"progress_percent": percent}

	var status trailModels.EnrollmentStatus
	switch {
	case total > 0 && done >= total:
		status = trailModels.EnrollmentCompleted
		if enrollment.CompletedAt == nil {
			updates["completed_at"] = now
		}
	case done > 0:
		status = trailModels.EnrollmentInProgress
		updates["completed_at"] = nil
	default:
		status = trailModels.EnrollmentEnrolled
		updates["completed_at"] = nil
	}
	updates["status"] = status

	if err := tx.Model(&enrollment).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&enrollment).Error; err != nil {
		return nil, err
	}

	res := &SyncResult{Enrollment: &enrollment}
	if status == trailModels.EnrollmentCompleted {
		cert, issued, err := EnsureCertificate(tx, userID, trailID)
		if err != nil {
			return nil, err
		}
		res.Certificate = cert
		res.CertificateIssued = issued
	}
	return res, nil
}

// trailCounts recomputes (total items, completed items) from the ledger
func trailCounts(db *gorm.DB, userID, trailID uint) (total, done int, err error) {
	var totalCount int64
	if err = db.Model(&trailModels.TrailItem{}).
		Where("trail_id = ? AND is_deleted = ?", trailID, false).
		Count(&totalCount).Error; err != nil {
		return 0, 0, err
	}

	var doneCount int64
	if err = db.Model(&trailModels.ItemProgress{}).
		Joins("JOIN trail_items ON trail_items.id = item_progresses.trail_item_id").
		Where("item_progresses.user_id = ? AND trail_items.trail_id = ? AND trail_items.is_deleted = ? AND item_progresses.status = ?",
			userID, trailID, false, trailModels.ProgressCompleted).
		Count(&doneCount).Error; err != nil {
		return 0, 0, err
	}
	return int(totalCount), int(doneCount), nil
}

// ProgressMap returns the aggregate view of several trails at once for
// listing endpoints. With sync enabled every trail is reconciled and
// committed first, so certificate side effects are durable before the
// caller renders anything.
func ProgressMap(db *gorm.DB, userID uint, trailIDs []uint, sync bool) (map[uint]ProgressSummary, error) {
	if sync {
		for _, trailID := range trailIDs {
			if _, err := Sync(db, userID, trailID); err != nil {
				return nil, err
			}
		}
	}

	out := make(map[uint]ProgressSummary, len(trailIDs))
	for _, trailID := range trailIDs {
		total, done, err := trailCounts(db, userID, trailID)
		if err != nil {
			return nil, err
		}
		summary := ProgressSummary{
			Done:   done,
			Total:  total,
			Status: trailModels.EnrollmentEnrolled,
		}
		if total > 0 {
			summary.ProgressPercent = round2(100 * float64(done) / float64(total))
		}
		if done > 0 {
			summary.NextAction = "CONTINUE"
		} else {
			summary.NextAction = "START"
		}

		var enrollment trailModels.Enrollment
		err = db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&enrollment).Error
		if err == nil {
			summary.Status = enrollment.Status
			summary.EnrolledAt = enrollment.StartedAt
			summary.CompletedAt = enrollment.CompletedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out[trailID] = summary
	}
	return out, nil
}

// SaveReview records a rating and comment on a completed enrollment and
// refreshes the trail's aggregate rating. Completion is proven by status,
// completion timestamp or a full progress percent; any one is enough.
func SaveReview(db *gorm.DB, userID, trailID uint, rating int, comment string) (*trailModels.Enrollment, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	var enrollment trailModels.Enrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("user_id = ? AND trail_id = ?", userID, trailID).
			First(&enrollment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEnrolled
			}
			return err
		}
		if !enrollment.Completed() {
			return ErrReviewNotAllowed
		}

		now := time.Now()
		if err := tx.Model(&enrollment).Updates(map[string]interface{}{
			"review_rating":  rating,
			"review_comment": comment,
			"reviewed_at":    now,
		}).Error; err != nil {
			return err
		}

		return refreshTrailRating(tx, trailID)
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// refreshTrailRating recomputes a trail's average rating and rating count
// from all enrollments carrying a review
func refreshTrailRating(tx *gorm.DB, trailID uint) error {
	type agg struct {
		Avg   float64
		Count int64
	}
	var a agg
	if err := tx.Model(&trailModels.Enrollment{}).
		Select("AVG(review_rating) as avg, COUNT(review_rating) as count").
		Where("trail_id = ? AND review_rating IS NOT NULL", trailID).
		Scan(&a).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{"review_count": a.Count}
	if a.Count > 0 {
		updates["review"] = round2(a.Avg)
	} else {
		updates["review"] = nil
	}
	return tx.Model(&trailModels.Trail{}).Where("id = ?", trailID).Updates(updates).Error
}

// BackfillCertificates re-syncs every enrollment and issues any certificate
// a completed trail is still missing. Returns the number issued.
func BackfillCertificates(db *gorm.DB) (int, error) {
	var enrollments []trailModels.Enrollment
	if err := db.Find(&enrollments).Error; err != nil {
		return 0, err
	}

	issued := 0
	for _, e := range enrollments {
		res, err := Sync(db, e.UserID, e.TrailID)
		if err != nil {
			return issued, err
		}
		if res.CertificateIssued {
			issued++
		}
	}
	return issued, nil
}
