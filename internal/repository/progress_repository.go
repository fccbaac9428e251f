package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithContext(ctx context.Context) *ProgressRepository {
	return &ProgressRepository{DB: r.DB.WithContext(ctx)}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) ownedGoals(ownerID uint) *gorm.DB {
	skillIDs := r.DB.Model(&model.Skill{}).Select("id").Where("owner_id = ?", ownerID)
	return r.DB.Model(&model.LearningGoal{}).Select("id").Where("skill_id IN (?)", skillIDs)
}

func (r *ProgressRepository) Create(update *model.ProgressUpdate) error {
	return r.DB.Omit("Goal").Create(update).Error
}

// SumForGoal 没有记录时返回 0
func (r *ProgressRepository) SumForGoal(goalID uint) (int, error) {
	var total int
	err := r.DB.Model(&model.ProgressUpdate{}).
		Select("COALESCE(SUM(progress), 0)").
		Where("goal_id = ?", goalID).
		Scan(&total).Error
	return total, err
}

func (r *ProgressRepository) CountForGoal(goalID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ProgressUpdate{}).Where("goal_id = ?", goalID).Count(&count).Error
	return count, err
}

func (r *ProgressRepository) FindByGoal(goalID uint) ([]model.ProgressUpdate, error) {
	var updates []model.ProgressUpdate
	err := r.DB.Where("goal_id = ?", goalID).Order("date, id").Find(&updates).Error
	return updates, err
}

// FindByOwner 账号所有目标下的进度记录，最新的在前
func (r *ProgressRepository) FindByOwner(ownerID uint) ([]model.ProgressUpdate, error) {
	var updates []model.ProgressUpdate
	err := r.DB.Preload("Goal.Skill").
		Where("goal_id IN (?)", r.ownedGoals(ownerID)).
		Order("date DESC, id DESC").
		Find(&updates).Error
	return updates, err
}

