package trail

import (
	"strings"

	"gorm.io/gorm"
)

// TrailItem is a single unit of content inside a trail. Items are ordered by
// (section order, item order, id); SectionID is nullable for items that sit
// directly under the trail.
type TrailItem struct {
	gorm.Model
	TrailID         uint     `json:"trail_id" gorm:"index;not null"`
	SectionID       *uint    `json:"section_id" gorm:"index"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Kind            ItemKind `json:"kind" gorm:"default:'DOC'"` // VIDEO, DOC, FORM
	DurationSeconds *int     `json:"duration_seconds"`          // VIDEO only
	OrderIndex      int      `json:"order_index" gorm:"default:0"`
	// Legacy data carries the gating flag both as a boolean and as an S/N
	// char column; CompletionRequired resolves the pair once.
	RequiresCompletion   *bool   `json:"requires_completion"`
	RequiresCompletionYN *string `json:"-" gorm:"column:requires_completion_yn;size:1"`
	IsDeleted            bool    `gorm:"default:false"`
}

// CompletionRequired resolves the boolean/YN duality at the data boundary.
// Business logic must use this, never the raw columns.
func (i *TrailItem) CompletionRequired() bool {
	if i.RequiresCompletion != nil {
		return *i.RequiresCompletion
	}
	if i.RequiresCompletionYN != nil {
		return strings.ToUpper(*i.RequiresCompletionYN) == "S"
	}
	return false
}
