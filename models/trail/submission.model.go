package trail

import (
	"time"

	"gorm.io/gorm"
)

// FormSubmission is one grading attempt against a form
type FormSubmission struct {
	gorm.Model
	FormID       uint      `json:"form_id" gorm:"index;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	SubmittedAt  time.Time `json:"submitted_at"`
	ScorePercent float64   `json:"score_percent"`
	// nil while the submission awaits manual review
	Passed          *bool        `json:"passed"`
	DurationSeconds *int         `json:"duration_seconds"`
	Answers         []FormAnswer `json:"answers" gorm:"foreignKey:SubmissionID"`
}

// FormAnswer is the recorded answer for one question of a submission
type FormAnswer struct {
	gorm.Model
	SubmissionID     uint     `json:"submission_id" gorm:"index;not null"`
	QuestionID       uint     `json:"question_id" gorm:"index;not null"`
	SelectedOptionID *uint    `json:"selected_option_id"`
	AnswerText       *string  `json:"answer_text"`
	IsCorrect        *bool    `json:"is_correct"`
	PointsAwarded    *float64 `json:"points_awarded"`
}
