package repository

import (
	"context"
	"edu_core_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fullName *string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("full_name", fullName).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashed string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("hashed_password", hashed).Error
}

// SetActive 软停用：只改 is_active，不删除行
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) PromoteToSuperuser(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_superuser": true, "is_active": true}).Error
}
