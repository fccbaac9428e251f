package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) WithContext(ctx context.Context) *ResourceRepository {
	return &ResourceRepository{DB: r.DB.WithContext(ctx)}
}

func (r *ResourceRepository) WithTx(tx *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: tx}
}

func (r *ResourceRepository) ownedSkills(ownerID uint) *gorm.DB {
	return r.DB.Model(&model.Skill{}).Select("id").Where("owner_id = ?", ownerID)
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	return r.DB.Omit("Skill", "AddedBy").Create(resource).Error
}

func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var resource model.Resource
	err := r.DB.Preload("Skill").First(&resource, id).Error
	return &resource, err
}

// FindByOwner 账号自己技能下的全部资源，包括未审核的
func (r *ResourceRepository) FindByOwner(ownerID uint) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("skill_id IN (?)", r.ownedSkills(ownerID)).
		Order("skill_id, id").
		Find(&resources).Error
	return resources, err
}

// FindApprovedByOwner 只返回已审核的资源
func (r *ResourceRepository) FindApprovedByOwner(ownerID uint) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("approved = ? AND skill_id IN (?)", true, r.ownedSkills(ownerID)).
		Order("skill_id, id").
		Find(&resources).Error
	return resources, err
}

func (r *ResourceRepository) SetApproved(id uint, approved bool) error {
	return r.DB.Model(&model.Resource{}).
		Where("id = ?", id).
		Update("approved", approved).Error
}

func (r *ResourceRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Resource{}, id).Error
}

// ClearAddedBy added_by_id 带 <-:create 权限，这里绕过模型直接改表
func (r *ResourceRepository) ClearAddedBy(userID uint) error {
	return r.DB.Table(model.Resource{}.TableName()).
		Where("added_by_id = ?", userID).
		Update("added_by_id", nil).Error
}

func (r *ResourceRepository) AdminList(page, limit int, approved *bool) ([]model.Resource, int64, error) {
	var resources []model.Resource
	var total int64

	query := r.DB.Model(&model.Resource{})
	if approved != nil {
		query = query.Where("approved = ?", *approved)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Skill").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&resources).Error
	return resources, total, err
}
