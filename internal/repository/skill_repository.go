package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// SkillRepository 所有面向账号的查询都带 owner_id 条件
type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) WithContext(ctx context.Context) *SkillRepository {
	return &SkillRepository{DB: r.DB.WithContext(ctx)}
}

func (r *SkillRepository) WithTx(tx *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: tx}
}

// SkillFilter 管理端技能列表的筛选与搜索
type SkillFilter struct {
	Category   string
	Difficulty string
	Search     string
}

// SkillChoice 目标/资源表单里 skill 下拉框的可选项
type SkillChoice struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func goalsByTargetDate(db *gorm.DB) *gorm.DB {
	return db.Order("target_date, id")
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Omit("Owner", "Goals", "Resources").Create(skill).Error
}

func (r *SkillRepository) FindOwned(id, ownerID uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Preload("Goals", goalsByTargetDate).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&skill).Error
	return &skill, err
}

func (r *SkillRepository) IsOwnedBy(id, ownerID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Skill{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Count(&count).Error
	return count > 0, err
}

func (r *SkillRepository) FindByOwner(ownerID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Preload("Goals", goalsByTargetDate).
		Where("owner_id = ?", ownerID).
		Order("created_at, id").
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) Choices(ownerID uint) ([]SkillChoice, error) {
	var choices []SkillChoice
	err := r.DB.Model(&model.Skill{}).
		Select("id, name").
		Where("owner_id = ?", ownerID).
		Order("name").
		Scan(&choices).Error
	return choices, err
}

// Update 只更新可编辑字段，owner_id 和 created_at 不变
func (r *SkillRepository) Update(skill *model.Skill) error {
	return r.DB.Model(&model.Skill{}).
		Where("id = ? AND owner_id = ?", skill.ID, skill.OwnerID).
		Updates(map[string]interface{}{
			"name":        skill.Name,
			"description": skill.Description,
			"category":    skill.Category,
			"difficulty":  skill.Difficulty,
		}).Error
}

// Delete 连同目标、进度记录和资源一起删除
func (r *SkillRepository) Delete(id uint) error {
	goalIDs := r.DB.Model(&model.LearningGoal{}).Select("id").Where("skill_id = ?", id)
	if err := r.DB.Where("goal_id IN (?)", goalIDs).Delete(&model.ProgressUpdate{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("skill_id = ?", id).Delete(&model.LearningGoal{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("skill_id = ?", id).Delete(&model.Resource{}).Error; err != nil {
		return err
	}
	return r.DB.Delete(&model.Skill{}, id).Error
}

// DeleteByOwner 删除账号时使用
func (r *SkillRepository) DeleteByOwner(ownerID uint) error {
	skillIDs := r.DB.Model(&model.Skill{}).Select("id").Where("owner_id = ?", ownerID)
	goalIDs := r.DB.Model(&model.LearningGoal{}).Select("id").Where("skill_id IN (?)", skillIDs)

	if err := r.DB.Where("goal_id IN (?)", goalIDs).Delete(&model.ProgressUpdate{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("skill_id IN (?)", skillIDs).Delete(&model.LearningGoal{}).Error; err != nil {
		return err
	}
	if err := r.DB.Where("skill_id IN (?)", skillIDs).Delete(&model.Resource{}).Error; err != nil {
		return err
	}
	return r.DB.Where("owner_id = ?", ownerID).Delete(&model.Skill{}).Error
}

func (r *SkillRepository) AdminList(page, limit int, filter SkillFilter) ([]model.Skill, int64, error) {
	var skills []model.Skill
	var total int64

	query := r.DB.Model(&model.Skill{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Goals", goalsByTargetDate).
		Order("name, id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&skills).Error
	return skills, total, err
}
