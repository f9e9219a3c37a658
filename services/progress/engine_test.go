package progress

import (
	"testing"

	trailModels "lms/models/trail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end walk through a three-item trail: a gating video, a doc and a
// final quiz, finishing with a certificate.
func TestTrailWalkthrough(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)

	video := makeItem(t, db, trail.ID, nil, trailModels.KindVideo, 0, true, intPtr(100))
	doc := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 1, false, nil)
	quiz := makeItem(t, db, trail.ID, nil, trailModels.KindForm, 2, false, nil)

	form := &trailModels.Form{TrailItemID: quiz.ID, Title: "Final", MinScoreToPass: 70}
	require.NoError(t, db.Create(form).Error)
	question := &trailModels.FormQuestion{
		FormID: form.ID, Prompt: "Pick one", Kind: trailModels.QuestionSingleChoice, Points: 10,
	}
	require.NoError(t, db.Create(question).Error)
	right := &trailModels.FormQuestionOption{QuestionID: question.ID, OptionText: "right", IsCorrectYN: strPtr("Y")}
	wrong := &trailModels.FormQuestionOption{QuestionID: question.ID, OptionText: "wrong", IsCorrectYN: strPtr("N")}
	require.NoError(t, db.Create(right).Error)
	require.NoError(t, db.Create(wrong).Error)

	// The doc is gated until the video is done
	blocker, err := FindBlockingItem(db, 1, trail.ID, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, blocker)
	assert.Equal(t, video.ID, blocker.ID)

	// Watch enough of the video, then claim completion (80 >= 70)
	_, _, err = UpsertItemProgress(db, 1, video.ID, ProgressUpdate{
		Status:        trailModels.ProgressInProgress,
		ProgressValue: intPtr(80),
	})
	require.NoError(t, err)
	_, _, err = UpsertItemProgress(db, 1, video.ID, ProgressUpdate{Status: trailModels.ProgressCompleted})
	require.NoError(t, err)

	blocker, err = FindBlockingItem(db, 1, trail.ID, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, blocker)

	completeItem(t, db, 1, doc.ID)

	// Ace the quiz; the pass completes the item, the trail, the certificate
	result, syncRes, err := GradeSubmission(db, 1, quiz, []AnswerInput{
		{QuestionID: question.ID, SelectedOptionID: &right.ID},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.ScorePercent)
	require.NotNil(t, result.Passed)
	assert.True(t, *result.Passed)

	require.NotNil(t, syncRes)
	assert.Equal(t, trailModels.EnrollmentCompleted, syncRes.Enrollment.Status)
	assert.Equal(t, 100.0, syncRes.Enrollment.ProgressPercent)
	assert.True(t, syncRes.CertificateIssued)

	var count int64
	require.NoError(t, db.Model(&trailModels.TrailCertificate{}).
		Where("user_id = ? AND trail_id = ?", 1, trail.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
