package trail

import "gorm.io/gorm"

// Trail represents a learning trail composed of ordered sections and items
type Trail struct {
	gorm.Model
	Name         string `json:"name"`
	Description  string `json:"description"`
	Author       string `json:"author"`
	ThumbnailURL string `json:"thumbnail_url"`
	// Aggregate review score, recomputed from enrollments with a rating
	Review      *float64 `json:"review"`
	ReviewCount int      `json:"review_count" gorm:"default:0"`
	IsPublished bool     `json:"is_published" gorm:"default:false"`
	IsDeleted   bool     `gorm:"default:false"`
}

// TrailSection groups items inside a trail
type TrailSection struct {
	gorm.Model
	TrailID    uint   `json:"trail_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
