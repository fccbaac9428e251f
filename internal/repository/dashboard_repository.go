package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

func (r *DashboardRepository) WithContext(ctx context.Context) *DashboardRepository {
	return &DashboardRepository{DB: r.DB.WithContext(ctx)}
}

// DashboardCounts 仪表盘顶部的统计数字
type DashboardCounts struct {
	Skills          int64 `json:"skills"`
	Goals           int64 `json:"goals"`
	CompletedGoals  int64 `json:"completed_goals"`
	ProgressUpdates int64 `json:"progress_updates"`
	Resources       int64 `json:"resources"`
}

func (r *DashboardRepository) Counts(ownerID uint) (*DashboardCounts, error) {
	counts := &DashboardCounts{}

	skillIDs := r.DB.Model(&model.Skill{}).Select("id").Where("owner_id = ?", ownerID)
	goalIDs := r.DB.Model(&model.LearningGoal{}).Select("id").Where("skill_id IN (?)", skillIDs)

	if err := r.DB.Model(&model.Skill{}).Where("owner_id = ?", ownerID).Count(&counts.Skills).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.LearningGoal{}).Where("skill_id IN (?)", skillIDs).Count(&counts.Goals).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.LearningGoal{}).
		Where("skill_id IN (?) AND progress >= ?", skillIDs, model.MaxGoalProgress).
		Count(&counts.CompletedGoals).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.ProgressUpdate{}).Where("goal_id IN (?)", goalIDs).Count(&counts.ProgressUpdates).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.Resource{}).Where("skill_id IN (?)", skillIDs).Count(&counts.Resources).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
