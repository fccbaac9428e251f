package repository

import (
	"context"
	"strings"
	"time"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithContext(ctx context.Context) *UserRepository {
	return &UserRepository{DB: r.DB.WithContext(ctx)}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

// UserFilter 管理端账号列表筛选
type UserFilter struct {
	Search      string
	IsStaff     *bool
	IsSuperuser *bool
	IsActive    *bool
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Omit("Groups").Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByIDWithGroups(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Groups").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

// EmailExists 邮箱比较不区分大小写
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateFlags(id uint, isStaff, isSuperuser, isActive bool) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_staff":     isStaff,
			"is_superuser": isSuperuser,
			"is_active":    isActive,
			"updated_at":   time.Now(),
		}).Error
}

func (r *UserRepository) UpdateLastLogin(id uint, at time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

func (r *UserRepository) AddGroup(user *model.User, group *model.Group) error {
	return r.DB.Model(user).Association("Groups").Append(group)
}

func (r *UserRepository) ReplaceGroups(user *model.User, groups []model.Group) error {
	return r.DB.Model(user).Association("Groups").Replace(groups)
}

func (r *UserRepository) ClearGroups(user *model.User) error {
	return r.DB.Model(user).Association("Groups").Clear()
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&model.User{}, id).Error
}

func (r *UserRepository) List(page, limit int, filter UserFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", term, term)
	}
	if filter.IsStaff != nil {
		query = query.Where("is_staff = ?", *filter.IsStaff)
	}
	if filter.IsSuperuser != nil {
		query = query.Where("is_superuser = ?", *filter.IsSuperuser)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Groups").
		Order("username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}
