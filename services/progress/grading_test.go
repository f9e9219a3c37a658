package progress

import (
	"testing"

	trailModels "lms/models/trail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// formFixture is a quiz with two objective questions and one optional essay.
// The essay never contributes to the denominator.
type formFixture struct {
	trail    *trailModels.Trail
	item     *trailModels.TrailItem
	form     *trailModels.Form
	choice   *trailModels.FormQuestion
	boolean  *trailModels.FormQuestion
	essay    *trailModels.FormQuestion
	choiceOK *trailModels.FormQuestionOption
	choiceKO *trailModels.FormQuestionOption
	boolOK   *trailModels.FormQuestionOption
	boolKO   *trailModels.FormQuestionOption
}

func newFormFixture(t *testing.T, db *gorm.DB, minScore float64) *formFixture {
	t.Helper()
	f := &formFixture{}
	f.trail = makeTrail(t, db)
	f.item = makeItem(t, db, f.trail.ID, nil, trailModels.KindForm, 0, true, nil)

	f.form = &trailModels.Form{TrailItemID: f.item.ID, Title: "Final quiz", MinScoreToPass: minScore}
	require.NoError(t, db.Create(f.form).Error)

	required := true
	f.choice = &trailModels.FormQuestion{
		FormID: f.form.ID, Prompt: "Pick one", Kind: trailModels.QuestionSingleChoice,
		OrderIndex: 0, Points: 3, Required: &required,
	}
	require.NoError(t, db.Create(f.choice).Error)
	// Correctness only present in the legacy Y/N column
	f.choiceOK = &trailModels.FormQuestionOption{QuestionID: f.choice.ID, OptionText: "right", IsCorrectYN: strPtr("Y")}
	f.choiceKO = &trailModels.FormQuestionOption{QuestionID: f.choice.ID, OptionText: "wrong", IsCorrectYN: strPtr("N")}
	require.NoError(t, db.Create(f.choiceOK).Error)
	require.NoError(t, db.Create(f.choiceKO).Error)

	f.boolean = &trailModels.FormQuestion{
		FormID: f.form.ID, Prompt: "True or false", Kind: trailModels.QuestionTrueOrFalse,
		OrderIndex: 1, Points: 1, Required: &required,
	}
	require.NoError(t, db.Create(f.boolean).Error)
	correct := true
	incorrect := false
	f.boolOK = &trailModels.FormQuestionOption{QuestionID: f.boolean.ID, OptionText: "true", IsCorrect: &correct}
	f.boolKO = &trailModels.FormQuestionOption{QuestionID: f.boolean.ID, OptionText: "false", IsCorrect: &incorrect}
	require.NoError(t, db.Create(f.boolOK).Error)
	require.NoError(t, db.Create(f.boolKO).Error)

	f.essay = &trailModels.FormQuestion{
		FormID: f.form.ID, Prompt: "Tell us more", Kind: trailModels.QuestionEssay,
		OrderIndex: 2, Points: 5,
	}
	require.NoError(t, db.Create(f.essay).Error)
	return f
}

func TestGradePassingSubmissionCompletesItem(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	result, syncRes, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.choice.ID, SelectedOptionID: &f.choiceOK.ID},
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
	}, intPtr(95))
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.ScorePercent)
	assert.Equal(t, 4.0, result.ScorePoints)
	assert.Equal(t, 4.0, result.MaxPoints)
	require.NotNil(t, result.Passed)
	assert.True(t, *result.Passed)
	assert.False(t, result.RequiresManualReview)

	// The pass flows into the ledger and links back to the submission
	var row trailModels.ItemProgress
	require.NoError(t, db.Where("user_id = ? AND trail_item_id = ?", 1, f.item.ID).First(&row).Error)
	assert.Equal(t, trailModels.ProgressCompleted, row.Status)
	require.NotNil(t, row.CompletedSubmissionID)
	assert.Equal(t, result.SubmissionID, *row.CompletedSubmissionID)

	// Single-item trail: the pass completes the trail too
	require.NotNil(t, syncRes)
	assert.Equal(t, trailModels.EnrollmentCompleted, syncRes.Enrollment.Status)
	assert.True(t, syncRes.CertificateIssued)
}

func TestGradeFailingSubmissionDoesNotComplete(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	result, syncRes, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.choice.ID, SelectedOptionID: &f.choiceKO.ID},
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 25.0, result.ScorePercent)
	require.NotNil(t, result.Passed)
	assert.False(t, *result.Passed)
	assert.Nil(t, syncRes)

	// The failed attempt is persisted, the ledger stays untouched
	var count int64
	require.NoError(t, db.Model(&trailModels.FormSubmission{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err = db.Where("user_id = ? AND trail_item_id = ?", 1, f.item.ID).First(&trailModels.ItemProgress{}).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGradeEssayForcesManualReview(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	result, syncRes, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.choice.ID, SelectedOptionID: &f.choiceOK.ID},
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
		{QuestionID: f.essay.ID, AnswerText: strPtr("My thoughts on the matter.")},
	}, nil)
	require.NoError(t, err)

	assert.True(t, result.RequiresManualReview)
	assert.Nil(t, result.Passed)
	assert.Nil(t, syncRes)
	// Essay points stay out of the denominator
	assert.Equal(t, 4.0, result.MaxPoints)
	assert.Equal(t, 100.0, result.ScorePercent)
}

func TestGradeBlankEssayIsNotAResponse(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	// Whitespace-only essay text: no manual review, grades like an omission
	result, _, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.choice.ID, SelectedOptionID: &f.choiceOK.ID},
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
		{QuestionID: f.essay.ID, AnswerText: strPtr("   ")},
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.RequiresManualReview)
	require.NotNil(t, result.Passed)
	assert.True(t, *result.Passed)
}

func TestGradeRejectsForeignQuestion(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	_, _, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.choice.ID, SelectedOptionID: &f.choiceOK.ID},
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
		{QuestionID: 9999, SelectedOptionID: &f.choiceOK.ID},
	}, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.InvalidQuestionIDs, uint(9999))

	// A rejected submission leaves nothing behind
	var count int64
	require.NoError(t, db.Model(&trailModels.FormSubmission{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGradeRejectsMissingRequiredAnswers(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	_, _, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
	}, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.MissingQuestionIDs, f.choice.ID)
}

func TestGradeRejectsOptionFromAnotherQuestion(t *testing.T) {
	db := setupTestDB(t)
	f := newFormFixture(t, db, 60)

	_, _, err := GradeSubmission(db, 1, f.item, []AnswerInput{
		{QuestionID: f.choice.ID, SelectedOptionID: &f.boolOK.ID},
		{QuestionID: f.boolean.ID, SelectedOptionID: &f.boolOK.ID},
	}, nil)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, f.choice.ID, vErr.QuestionID)
	assert.Equal(t, f.boolOK.ID, vErr.InvalidOptionID)
}

func TestGradeMissingForm(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)
	item := makeItem(t, db, trail.ID, nil, trailModels.KindForm, 0, true, nil)

	_, _, err := GradeSubmission(db, 1, item, []AnswerInput{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
