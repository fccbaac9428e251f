package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoalRepository 处理学习目标的数据访问，归属通过所属技能的 owner_id 判断
type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) WithContext(ctx context.Context) *GoalRepository {
	return &GoalRepository{DB: r.DB.WithContext(ctx)}
}

func (r *GoalRepository) WithTx(tx *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: tx}
}

func (r *GoalRepository) ownedSkills(ownerID uint) *gorm.DB {
	return r.DB.Model(&model.Skill{}).Select("id").Where("owner_id = ?", ownerID)
}

// Create 创建新的学习目标
func (r *GoalRepository) Create(goal *model.LearningGoal) error {
	return r.DB.Omit("Skill", "Updates").Create(goal).Error
}

// Update 更新可编辑字段，skill_id 不变
func (r *GoalRepository) Update(goal *model.LearningGoal) error {
	return r.DB.Model(&model.LearningGoal{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"name":        goal.Name,
			"description": goal.Description,
			"target_date": goal.TargetDate,
			"progress":    goal.Progress,
		}).Error
}

func (r *GoalRepository) UpdateProgress(id uint, progress int) error {
	return r.DB.Model(&model.LearningGoal{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

// Delete 删除学习目标及其进度记录
func (r *GoalRepository) Delete(id uint) error {
	if err := r.DB.Where("goal_id = ?", id).Delete(&model.ProgressUpdate{}).Error; err != nil {
		return err
	}
	return r.DB.Delete(&model.LearningGoal{}, id).Error
}

// FindOwned 按 ID 查找，且必须属于 ownerID 的技能
func (r *GoalRepository) FindOwned(id, ownerID uint) (*model.LearningGoal, error) {
	var goal model.LearningGoal
	err := r.DB.Preload("Skill").
		Where("id = ? AND skill_id IN (?)", id, r.ownedSkills(ownerID)).
		First(&goal).Error
	return &goal, err
}

// LockOwned 在事务中对目标行加写锁
func (r *GoalRepository) LockOwned(id, ownerID uint) (*model.LearningGoal, error) {
	var goal model.LearningGoal
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND skill_id IN (?)", id, r.ownedSkills(ownerID)).
		First(&goal).Error
	return &goal, err
}

// FindByOwner 获取账号的所有学习目标，按目标日期排序
func (r *GoalRepository) FindByOwner(ownerID uint) ([]model.LearningGoal, error) {
	var goals []model.LearningGoal
	err := r.DB.Preload("Skill").
		Where("skill_id IN (?)", r.ownedSkills(ownerID)).
		Order("target_date, id").
		Find(&goals).Error
	return goals, err
}

// AdminList 管理端目标列表，按目标日期排序
func (r *GoalRepository) AdminList(page, limit int, skillID uint) ([]model.LearningGoal, int64, error) {
	var goals []model.LearningGoal
	var total int64

	query := r.DB.Model(&model.LearningGoal{})
	if skillID != 0 {
		query = query.Where("skill_id = ?", skillID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Skill").
		Order("target_date, id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&goals).Error
	return goals, total, err
}
