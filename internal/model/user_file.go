package model

import (
	"time"

	"gorm.io/gorm"
)

// UserFile 上传文件的元数据；文件内容在存储提供方，以随机名保存
// swagger:model UserFile
type UserFile struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID          string    `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	StoredPath       string    `gorm:"size:1024;not null" json:"stored_path"`
	ContentType      *string   `gorm:"size:255" json:"content_type"`
	Size             *int64    `json:"size"`
	CreatedAt        time.Time `json:"created_at"`
}

func (UserFile) TableName() string {
	return "user_files"
}

func (f *UserFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = GenerateUUID()
	}
	return nil
}
