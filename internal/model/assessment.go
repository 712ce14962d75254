package model

import (
	"time"

	"gorm.io/gorm"
)

type AssessmentLevel string

const (
	LevelL2 AssessmentLevel = "L2"
	LevelL3 AssessmentLevel = "L3"
)

type AssessmentMajor string

const (
	MajorBusiness AssessmentMajor = "Business"
	MajorIT       AssessmentMajor = "IT"
)

// Assessment 评分接口的副产物，尽力持久化
// swagger:model Assessment
type Assessment struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Question        string          `gorm:"type:text;not null" json:"question"`
	Level           AssessmentLevel `gorm:"size:8;not null" json:"level"`
	Major           AssessmentMajor `gorm:"size:32;not null" json:"major"`
	DifficultyScore *int            `json:"difficulty_score"`
	Advice          *string         `gorm:"type:text" json:"advice"`
	OwnerID         *string         `gorm:"type:varchar(36);index" json:"owner_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Assessment) TableName() string {
	return "assessments"
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = GenerateUUID()
	}
	return nil
}
