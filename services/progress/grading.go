package progress

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	trailModels "lms/models/trail"

	"gorm.io/gorm"
)

// AnswerInput is one supplied answer of a form submission
type AnswerInput struct {
	QuestionID       uint
	SelectedOptionID *uint
	AnswerText       *string
}

// AnswerResult is the graded outcome for one question
type AnswerResult struct {
	QuestionID    uint     `json:"question_id"`
	IsCorrect     *bool    `json:"is_correct"`
	PointsAwarded *float64 `json:"points_awarded"`
}

// GradeResult is the verdict of one grading attempt
type GradeResult struct {
	SubmissionID uint    `json:"submission_id"`
	ScorePercent float64 `json:"score"`
	ScorePoints  float64 `json:"score_points"`
	MaxPoints    float64 `json:"max_points"`
	// nil while the submission awaits manual review
	Passed               *bool          `json:"passed"`
	RequiresManualReview bool           `json:"requires_manual_review"`
	Answers              []AnswerResult `json:"answers"`
}

// GradeSubmission validates and grades a form submission for the given FORM
// item, persists the attempt with its answers, and — when the verdict is a
// pass — pushes a COMPLETED update into the progress ledger linking the
// submission.
//
// Essay questions are never auto-scored: a required or answered essay forces
// manual review and its points are excluded from the denominator. Objective
// questions accumulate their points into the denominator, and into the
// numerator when the selected option is marked correct.
func GradeSubmission(db *gorm.DB, userID uint, item *trailModels.TrailItem, answers []AnswerInput, durationSeconds *int) (*GradeResult, *SyncResult, error) {
	form, err := loadForm(db, item.ID)
	if err != nil {
		return nil, nil, err
	}

	questions := form.Questions
	sort.SliceStable(questions, func(a, b int) bool {
		if questions[a].OrderIndex != questions[b].OrderIndex {
			return questions[a].OrderIndex < questions[b].OrderIndex
		}
		return questions[a].ID < questions[b].ID
	})

	questionByID := make(map[uint]*trailModels.FormQuestion, len(questions))
	for i := range questions {
		questionByID[questions[i].ID] = &questions[i]
	}

	provided := make(map[uint]*AnswerInput, len(answers))
	var invalid []uint
	for i := range answers {
		if _, ok := questionByID[answers[i].QuestionID]; !ok {
			invalid = append(invalid, answers[i].QuestionID)
			continue
		}
		provided[answers[i].QuestionID] = &answers[i]
	}
	if len(invalid) > 0 {
		return nil, nil, &ValidationError{
			Message:            "one or more questions do not belong to this form",
			InvalidQuestionIDs: invalid,
		}
	}

	var missing []uint
	for i := range questions {
		q := &questions[i]
		if !q.IsRequired() {
			continue
		}
		if !hasResponse(provided[q.ID], q) {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &ValidationError{
			Message:            "all required questions must be answered",
			MissingQuestionIDs: missing,
		}
	}

	var totalPoints, scoredPoints float64
	requiresManualReview := false
	results := make([]AnswerResult, 0, len(questions))
	entities := make([]trailModels.FormAnswer, 0, len(questions))

	for i := range questions {
		q := &questions[i]
		in := provided[q.ID]

		if q.Kind == trailModels.QuestionEssay {
			var text *string
			if in != nil && in.AnswerText != nil {
				trimmed := strings.TrimSpace(*in.AnswerText)
				if trimmed != "" {
					text = &trimmed
				}
			}
			if q.IsRequired() || text != nil {
				requiresManualReview = true
			}
			entities = append(entities, trailModels.FormAnswer{QuestionID: q.ID, AnswerText: text})
			results = append(results, AnswerResult{QuestionID: q.ID})
			continue
		}

		// objective question
		totalPoints += q.Points

		var selected *trailModels.FormQuestionOption
		if in != nil && in.SelectedOptionID != nil {
			for j := range q.Options {
				if q.Options[j].ID == *in.SelectedOptionID {
					selected = &q.Options[j]
					break
				}
			}
			if selected == nil {
				return nil, nil, &ValidationError{
					Message:         fmt.Sprintf("invalid option for question %d", q.ID),
					QuestionID:      q.ID,
					InvalidOptionID: *in.SelectedOptionID,
				}
			}
		}

		isCorrect := selected != nil && selected.MarkedCorrect()
		awarded := 0.0
		if isCorrect {
			scoredPoints += q.Points
			awarded = q.Points
		}

		correct := isCorrect
		points := awarded
		entity := trailModels.FormAnswer{
			QuestionID:    q.ID,
			IsCorrect:     &correct,
			PointsAwarded: &points,
		}
		if selected != nil {
			id := selected.ID
			entity.SelectedOptionID = &id
		}
		entities = append(entities, entity)
		results = append(results, AnswerResult{QuestionID: q.ID, IsCorrect: &correct, PointsAwarded: &points})
	}

	scorePercent := 0.0
	if totalPoints > 0 {
		scorePercent = round2(100 * scoredPoints / totalPoints)
	}

	var passed *bool
	if !requiresManualReview {
		v := scorePercent >= form.MinScoreToPass
		passed = &v
	}

	submission := trailModels.FormSubmission{
		FormID:          form.ID,
		UserID:          userID,
		SubmittedAt:     time.Now(),
		ScorePercent:    scorePercent,
		Passed:          passed,
		DurationSeconds: durationSeconds,
		Answers:         entities,
	}
	if err := db.Create(&submission).Error; err != nil {
		return nil, nil, err
	}

	result := &GradeResult{
		SubmissionID:         submission.ID,
		ScorePercent:         scorePercent,
		ScorePoints:          round2(scoredPoints),
		MaxPoints:            round2(totalPoints),
		Passed:               passed,
		RequiresManualReview: requiresManualReview,
		Answers:              results,
	}

	var syncRes *SyncResult
	if passed != nil && *passed {
		subID := submission.ID
		_, res, err := UpsertItemProgress(db, userID, item.ID, ProgressUpdate{
			Status:                trailModels.ProgressCompleted,
			CompletedSubmissionID: &subID,
		})
		if err != nil {
			return nil, nil, err
		}
		syncRes = res
	}
	return result, syncRes, nil
}

// loadForm fetches the form of a FORM item with questions and options
func loadForm(db *gorm.DB, trailItemID uint) (*trailModels.Form, error) {
	var form trailModels.Form
	err := db.Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc, id asc")
	}).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc, id asc")
	}).Where("trail_item_id = ?", trailItemID).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// hasResponse reports whether an answer carries an actual response for its
// question kind: non-blank text for essays, a selected option otherwise.
func hasResponse(in *AnswerInput, q *trailModels.FormQuestion) bool {
	if in == nil {
		return false
	}
	if q.Kind == trailModels.QuestionEssay {
		return in.AnswerText != nil && strings.TrimSpace(*in.AnswerText) != ""
	}
	return in.SelectedOptionID != nil
}
