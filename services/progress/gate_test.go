package progress

import (
	"testing"

	trailModels "lms/models/trail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// gateFixture builds a trail with one loose item followed by a section:
//
//	intro   (no section, required)
//	packing (section 1, required)
//	map     (section 1, optional)
//	quiz    (section 1, required)
type gateFixture struct {
	trail   *trailModels.Trail
	intro   *trailModels.TrailItem
	packing *trailModels.TrailItem
	mapItem *trailModels.TrailItem
	quiz    *trailModels.TrailItem
}

func newGateFixture(t *testing.T, db *gorm.DB) *gateFixture {
	trail := makeTrail(t, db)
	section := makeSection(t, db, trail.ID, 1)

	return &gateFixture{
		trail:   trail,
		intro:   makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 0, true, nil),
		packing: makeItem(t, db, trail.ID, &section.ID, trailModels.KindDoc, 0, true, nil),
		mapItem: makeItem(t, db, trail.ID, &section.ID, trailModels.KindDoc, 1, false, nil),
		quiz:    makeItem(t, db, trail.ID, &section.ID, trailModels.KindForm, 2, true, nil),
	}
}

func TestFirstItemIsNeverBlocked(t *testing.T) {
	db := setupTestDB(t)
	f := newGateFixture(t, db)

	blocker, err := FindBlockingItem(db, 1, f.trail.ID, f.intro.ID)
	require.NoError(t, err)
	assert.Nil(t, blocker)
}

func TestEarliestIncompleteRequiredItemBlocks(t *testing.T) {
	db := setupTestDB(t)
	f := newGateFixture(t, db)

	// Sectionless items come before any sectioned item in trail order
	blocker, err := FindBlockingItem(db, 1, f.trail.ID, f.quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, blocker)
	assert.Equal(t, f.intro.ID, blocker.ID)

	completeItem(t, db, 1, f.intro.ID)

	blocker, err = FindBlockingItem(db, 1, f.trail.ID, f.quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, blocker)
	assert.Equal(t, f.packing.ID, blocker.ID)
}

func TestOptionalItemsNeverBlock(t *testing.T) {
	db := setupTestDB(t)
	f := newGateFixture(t, db)

	completeItem(t, db, 1, f.intro.ID)
	completeItem(t, db, 1, f.packing.ID)

	// The optional map item stays incomplete yet the quiz is reachable
	blocker, err := FindBlockingItem(db, 1, f.trail.ID, f.quiz.ID)
	require.NoError(t, err)
	assert.Nil(t, blocker)
}

func TestGateIsPerUser(t *testing.T) {
	db := setupTestDB(t)
	f := newGateFixture(t, db)

	completeItem(t, db, 1, f.intro.ID)

	blocker, err := FindBlockingItem(db, 2, f.trail.ID, f.packing.ID)
	require.NoError(t, err)
	require.NotNil(t, blocker)
	assert.Equal(t, f.intro.ID, blocker.ID)
}

func TestGateHonorsLegacyRequiredFlag(t *testing.T) {
	db := setupTestDB(t)
	trail := makeTrail(t, db)

	// Gating flag only present in the legacy S/N column
	legacy := &trailModels.TrailItem{
		TrailID:              trail.ID,
		Title:                "Legacy gate",
		Kind:                 trailModels.KindDoc,
		OrderIndex:           0,
		RequiresCompletionYN: strPtr("S"),
	}
	require.NoError(t, db.Create(legacy).Error)
	target := makeItem(t, db, trail.ID, nil, trailModels.KindDoc, 1, false, nil)

	blocker, err := FindBlockingItem(db, 1, trail.ID, target.ID)
	require.NoError(t, err)
	require.NotNil(t, blocker)
	assert.Equal(t, legacy.ID, blocker.ID)
}
