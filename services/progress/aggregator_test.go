package progress

import (
	"testing"

	trailModels "lms/models/trail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureEnrollmentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)

	first, err := EnsureEnrollment(db, 1, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, trailModels.EnrollmentEnrolled, first.Status)
	assert.NotNil(t, first.StartedAt)

	second, err := EnsureEnrollment(db, 1, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&trailModels.Enrollment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)
	first := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 0, true, nil)
	second := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 1, true, nil)
	third := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 2, false, nil)

	res, err := Sync(db, 1, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, trailModels.EnrollmentEnrolled, res.Enrollment.Status)
	assert.Equal(t, 0.0, res.Enrollment.ProgressPercent)

	completeItem(t, db, 1, first.ID)
	res, err = Sync(db, 1, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, trailModels.EnrollmentInProgress, res.Enrollment.Status)
	// Optional items still count toward the percent denominator
	assert.Equal(t, 33.33, res.Enrollment.ProgressPercent)
	assert.Nil(t, res.Enrollment.CompletedAt)

	completeItem(t, db, 1, second.ID)
	completeItem(t, db, 1, third.ID)
	res, err = Sync(db, 1, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, trailModels.EnrollmentCompleted, res.Enrollment.Status)
	assert.Equal(t, 100.0, res.Enrollment.ProgressPercent)
	assert.NotNil(t, res.Enrollment.CompletedAt)

	// Two consecutive syncs with no writes in between agree exactly
	again, err := Sync(db, 1, trail.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Enrollment.ProgressPercent, again.Enrollment.ProgressPercent)
	assert.Equal(t, res.Enrollment.Status, again.Enrollment.Status)
	assert.Equal(t, res.Enrollment.CompletedAt.Unix(), again.Enrollment.CompletedAt.Unix())
}

func TestSyncEmptyTrailStaysEnrolled(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)

	res, err := Sync(db, 1, trail.ID)
	require.NoError(t, err)
	// A trail without items can never be completed
	assert.Equal(t, trailModels.EnrollmentEnrolled, res.Enrollment.Status)
	assert.Equal(t, 0.0, res.Enrollment.ProgressPercent)
	assert.False(t, res.CertificateIssued)
}

func TestProgressMapSummaries(t *testing.T) {
	db := setupTestDB(t)
	started := makeTrail(t, db)
	startedItem := makeItem(t, db, started.ID, nil, trailModels.KindDoc, 0, true, nil)
	makeItem(t, db, started.ID, nil, trailModels.KindDoc, 1, true, nil)
	untouched := makeTrail(t, db)
	makeItem(t, db, untouched.ID, nil, trailModels.KindDoc, 0, true, nil)

	completeItem(t, db, 1, startedItem.ID)

	summaries, err := ProgressMap(db, 1, []uint{started.ID, untouched.ID}, true)
	require.NoError(t, err)

	s := summaries[started.ID]
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 50.0, s.ProgressPercent)
	assert.Equal(t, trailModels.EnrollmentInProgress, s.Status)
	assert.Equal(t, "CONTINUE", s.NextAction)

	u := summaries[untouched.ID]
	assert.Equal(t, 0, u.Done)
	assert.Equal(t, "START", u.NextAction)
}

func TestSaveReviewRequiresCompletion(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)
	item := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 0, true, nil)

	_, err := SaveReview(db, 1, trail.ID, 9, "")
	assert.ErrorIs(t, err, ErrRatingOutOfRange)

	_, err = SaveReview(db, 1, trail.ID, 5, "great")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, _, err = UpsertItemProgress(db, 1, item.ID, ProgressUpdate{Status: trailModels.ProgressInProgress})
	require.NoError(t, err)
	_, err = SaveReview(db, 1, trail.ID, 5, "great")
	assert.ErrorIs(t, err, ErrReviewNotAllowed)

	completeItem(t, db, 1, item.ID)
	enrollment, err := SaveReview(db, 1, trail.ID, 5, "great")
	require.NoError(t, err)
	require.NotNil(t, enrollment.ReviewedAt)
}

func TestSaveReviewRefreshesTrailRating(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)
	item := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 0, true, nil)

	completeItem(t, db, 1, item.ID)
	completeItem(t, db, 2, item.ID)

	_, err := SaveReview(db, 1, trail.ID, 5, "great")
	require.NoError(t, err)
	_, err = SaveReview(db, 2, trail.ID, 4, "good")
	require.NoError(t, err)

	var got trailModels.Trail
	require.NoError(t, db.First(&got, trail.ID).Error)
	require.NotNil(t, got.Review)
	assert.Equal(t, 4.5, *got.Review)
	assert.Equal(t, 2, got.ReviewCount)
}

func TestBackfillCertificates(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)
	item := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 0, true, nil)

	completeItem(t, db, 1, item.ID)

	// Simulate a completion that predates issuance
	require.NoError(t, db.Unscoped().Where("user_id = ? AND trail_id = ?", 1, trail.ID).
		Delete(&trailModels.TrailCertificate{}).Error)

	issued, err := BackfillCertificates(db)
	require.NoError(t, err)
	assert.Equal(t, 1, issued)

	var cert trailModels.TrailCertificate
	require.NoError(t, db.Where("user_id = ? AND trail_id = ?", 1, trail.ID).First(&cert).Error)

	// A second sweep has nothing left to do
	issued, err = BackfillCertificates(db)
	require.NoError(t, err)
	assert.Equal(t, 0, issued)
}
