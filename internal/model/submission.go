package model

import "time"

// Submission 每次提交都是新的一行；Grade 为空表示未批改
// swagger:model Submission
type Submission struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	AssignmentID uint       `gorm:"not null;index" json:"assignment_id"`
	StudentID    *string    `gorm:"type:varchar(36);index" json:"student_id"`
	ContentURL   *string    `gorm:"size:2048" json:"content_url"`
	ContentText  *string    `gorm:"type:text" json:"content_text"`
	Grade        *int       `json:"grade"`
	Feedback     *string    `gorm:"type:text" json:"feedback"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at"`
	GradedBy     *string    `gorm:"type:varchar(36)" json:"graded_by"`

	Assignment *Assignment `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Student    *User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) IsGraded() bool {
	return s.Grade != nil
}
