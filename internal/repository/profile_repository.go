package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) WithContext(ctx context.Context) *ProfileRepository {
	return &ProfileRepository{DB: r.DB.WithContext(ctx)}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: tx}
}

func (r *ProfileRepository) Create(profile *model.Profile) error {
	return r.DB.Omit("User").Create(profile).Error
}

func (r *ProfileRepository) FindByID(id uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.Preload("User").First(&profile, id).Error
	return &profile, err
}

func (r *ProfileRepository) FindByUserID(userID uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

// FindApprovedByUsername 公开主页只展示已审核的资料
func (r *ProfileRepository) FindApprovedByUsername(username string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.Preload("User").
		Where("is_approved = ?", true).
		Where("user_id IN (?)", r.DB.Model(&model.User{}).Select("id").Where("username = ?", username)).
		First(&profile).Error
	return &profile, err
}

// UpdateContent 编辑后总是回到待审核状态
func (r *ProfileRepository) UpdateContent(profile *model.Profile) error {
	profile.IsApproved = false
	return r.DB.Model(profile).
		Updates(map[string]interface{}{
			"bio":         profile.Bio,
			"avatar":      profile.Avatar,
			"is_approved": false,
		}).Error
}

func (r *ProfileRepository) SetApproved(id uint, approved bool) error {
	return r.DB.Model(&model.Profile{}).
		Where("id = ?", id).
		Update("is_approved", approved).Error
}

func (r *ProfileRepository) DeleteByUserID(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.Profile{}).Error
}

func (r *ProfileRepository) List(page, limit int, approved *bool) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	query := r.DB.Model(&model.Profile{})
	if approved != nil {
		query = query.Where("is_approved = ?", *approved)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&profiles).Error
	return profiles, total, err
}
