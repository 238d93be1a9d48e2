package model

import "time"

// Priority represents the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "L"
	PriorityMedium Priority = "M"
	PriorityHigh   Priority = "H"
)

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the display name for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// Task represents a single to-do item. CreatedAt is set once on insert and
// never updated; lists are ordered by it, newest first.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      *uint      `json:"user_id" gorm:"index"`
	CategoryID  *uint      `json:"category_id" gorm:"index"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description" gorm:"type:text"`
	Completed   bool       `json:"completed" gorm:"default:false;index"`
	DueDate     *time.Time `json:"due_date"`
	Reminder    *time.Time `json:"reminder"`
	Priority    Priority   `json:"priority" gorm:"type:varchar(1);not null;default:'M'"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime;<-:create"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations. A deleted category leaves its tasks in place with a null reference.
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

// IsOverdue reports whether the task has a due date in the past and is not
// yet completed, evaluated against the supplied clock reading.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return now.After(*t.DueDate)
}
