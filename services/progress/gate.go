package progress

import (
	"sort"

	trailModels "lms/models/trail"

	"gorm.io/gorm"
)

// BlockingItem identifies the earliest incomplete required item standing
// before a target item
type BlockingItem struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// orderedItem is a trail item joined with its section's order index for
// trail-wide sequencing
type orderedItem struct {
	item         trailModels.TrailItem
	sectionOrder *int
}

// FindBlockingItem walks the trail's items in trail order and returns the
// first required item before target that the user has not completed, or nil
// when nothing upstream blocks the target.
//
// Trail order is (section order nulls-first, item order, item id): items
// without a section come before any sectioned item. If a later occurrence of
// a recorded blocker turns up completed, the blocker is cleared again; this
// guards against stale ordering data producing duplicate entries and must be
// preserved as-is.
func FindBlockingItem(db *gorm.DB, userID, trailID, targetItemID uint) (*BlockingItem, error) {
	items, err := loadTrailOrder(db, trailID)
	if err != nil {
		return nil, err
	}

	completed, err := completedItemIDs(db, userID, trailID)
	if err != nil {
		return nil, err
	}

	var blocker *BlockingItem
	for i := range items {
		it := &items[i].item
		if it.ID == targetItemID {
			break
		}
		if !it.CompletionRequired() {
			continue
		}
		if !completed[it.ID] {
			// first incomplete required item wins
			if blocker == nil {
				blocker = &BlockingItem{ID: it.ID, Title: it.Title}
			}
			continue
		}
		if blocker != nil && blocker.ID == it.ID {
			blocker = nil
		}
	}
	return blocker, nil
}

// loadTrailOrder returns all items of a trail in trail order
func loadTrailOrder(db *gorm.DB, trailID uint) ([]orderedItem, error) {
	var items []trailModels.TrailItem
	if err := db.Where("trail_id = ? AND is_deleted = ?", trailID, false).Find(&items).Error; err != nil {
		return nil, err
	}

	var sections []trailModels.TrailSection
	if err := db.Where("trail_id = ? AND is_deleted = ?", trailID, false).Find(&sections).Error; err != nil {
		return nil, err
	}
	sectionOrder := make(map[uint]int, len(sections))
	for _, s := range sections {
		sectionOrder[s.ID] = s.OrderIndex
	}

	ordered := make([]orderedItem, 0, len(items))
	for _, it := range items {
		oi := orderedItem{item: it}
		if it.SectionID != nil {
			if idx, ok := sectionOrder[*it.SectionID]; ok {
				v := idx
				oi.sectionOrder = &v
			}
		}
		ordered = append(ordered, oi)
	}

	sort.SliceStable(ordered, func(a, b int) bool {
		sa, sb := ordered[a].sectionOrder, ordered[b].sectionOrder
		switch {
		case sa == nil && sb != nil:
			return true
		case sa != nil && sb == nil:
			return false
		case sa != nil && sb != nil && *sa != *sb:
			return *sa < *sb
		}
		if ordered[a].item.OrderIndex != ordered[b].item.OrderIndex {
			return ordered[a].item.OrderIndex < ordered[b].item.OrderIndex
		}
		return ordered[a].item.ID < ordered[b].item.ID
	})
	return ordered, nil
}

// completedItemIDs returns the set of items of a trail the user has completed
func completedItemIDs(db *gorm.DB, userID, trailID uint) (map[uint]bool, error) {
	var ids []uint
	err := db.Model(&trailModels.ItemProgress{}).
		Joins("JOIN trail_items ON trail_items.id = item_progresses.trail_item_id").
		Where("item_progresses.user_id = ? AND trail_items.trail_id = ? AND item_progresses.status = ?",
			userID, trailID, trailModels.ProgressCompleted).
		Pluck("item_progresses.trail_item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
