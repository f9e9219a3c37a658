package trail

import (
	"time"

	"gorm.io/gorm"
)

// ItemProgress tracks a user's progress on a single trail item. One row per
// (user, item), created lazily on first interaction. ProgressValue is seconds
// watched for videos, an opaque percent otherwise; it never decreases, and a
// COMPLETED status is sticky.
type ItemProgress struct {
	gorm.Model
	UserID            uint           `json:"user_id" gorm:"uniqueIndex:idx_item_progress_user_item;not null"`
	TrailItemID       uint           `json:"trail_item_id" gorm:"uniqueIndex:idx_item_progress_user_item;not null"`
	Status            ProgressStatus `json:"status" gorm:"default:'NOT_STARTED'"`
	ProgressValue     int            `json:"progress_value" gorm:"default:0"`
	LastInteractionAt *time.Time     `json:"last_interaction_at"`
	CompletedAt       *time.Time     `json:"completed_at"`
	// Submission that caused completion, for FORM items
	CompletedSubmissionID *uint `json:"completed_submission_id"`
}
