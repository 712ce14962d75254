package model

import "time"

// swagger:model Assignment
type Assignment struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	ModuleName  *string    `gorm:"size:255" json:"module_name"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}
