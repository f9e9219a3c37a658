package trail

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a trail with aggregated progress.
// One row per (user, trail), created on first access. ProgressPercent is
// always recomputed from ItemProgress rows, never treated as source of truth.
type Enrollment struct {
	gorm.Model
	UserID          uint             `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_trail;not null"`
	TrailID         uint             `json:"trail_id" gorm:"uniqueIndex:idx_enrollment_user_trail;not null"`
	Status          EnrollmentStatus `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	ProgressPercent float64          `json:"progress_percent" gorm:"default:0"`
	StartedAt       *time.Time       `json:"started_at"`
	CompletedAt     *time.Time       `json:"completed_at"`
	// Review fields, settable only after completion
	ReviewRating  *int       `json:"review_rating"`
	ReviewComment *string    `json:"review_comment"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
}

// Completed reports whether any of the completion markers proves the trail
// was finished. Any one of them is accepted as proof.
func (e *Enrollment) Completed() bool {
	return e.Status == EnrollmentCompleted || e.CompletedAt != nil || e.ProgressPercent >= 100
}
