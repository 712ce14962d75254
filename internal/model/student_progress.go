package model

import (
	"time"

	"gorm.io/gorm"
)

// StudentProgress 按 (user, module) 记录学习进度。表上不做唯一约束，
// 同一用户同一模块可能存在多行，读取方需容忍重复。
// swagger:model StudentProgress
type StudentProgress struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID             string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ModuleName         *string   `gorm:"size:255;index" json:"module_name"`
	ProgressPercentage int       `gorm:"not null;default:0" json:"progress_percentage"`
	LastScore          *float64  `json:"last_score"`
	Attempts           int       `gorm:"not null;default:0" json:"attempts"`
	Struggling         bool      `gorm:"not null;default:false" json:"struggling"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

// Weak 进度低于 60% 或被标记为困难
func (p *StudentProgress) Weak() bool {
	return p.ProgressPercentage < WeakProgressThreshold || p.Struggling
}

const WeakProgressThreshold = 60

func (p *StudentProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = GenerateUUID()
	}
	return nil
}
