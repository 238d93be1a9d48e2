package model

// DefaultCategoryColor is the hex color assigned when none is chosen.
const DefaultCategoryColor = "#6c757d"

// Category groups tasks under a user-chosen label and color.
// UserID is nullable for legacy rows that predate per-user ownership.
type Category struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID *uint  `json:"user_id" gorm:"index"`
	Name   string `json:"name" gorm:"size:50;not null"`
	Color  string `json:"color" gorm:"size:7;not null;default:'#6c757d'"`
}
