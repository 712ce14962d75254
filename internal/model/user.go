package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// swagger:model User
type User struct {
	UUIDBase
	Email          string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string   `gorm:"size:255;not null" json:"-"`
	FullName       *string  `gorm:"size:255" json:"full_name"`
	Role           UserRole `gorm:"size:20;default:'student';not null" json:"role"`
	IsActive       bool     `gorm:"default:true;not null" json:"is_active"`
	IsSuperuser    bool     `gorm:"default:false;not null" json:"is_superuser"`
}

func (User) TableName() string {
	return "users"
}

// IsInstructor 教师角色或超级管理员可以布置和批改作业
func (u *User) IsInstructor() bool {
	return u.IsSuperuser || u.Role == Teacher
}
