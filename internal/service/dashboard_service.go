package service

import (
	"context"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
)

type DashboardService struct {
	SkillRepo     *repository.SkillRepository
	DashboardRepo *repository.DashboardRepository
}

func NewDashboardService(skillRepo *repository.SkillRepository, dashboardRepo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{
		SkillRepo:     skillRepo,
		DashboardRepo: dashboardRepo,
	}
}

type Dashboard struct {
	Skills          []model.Skill `json:"skills"`
	SkillCount      int64         `json:"skill_count"`
	GoalCount       int64         `json:"goal_count"`
	CompletedGoals  int64         `json:"completed_goal_count"`
	CompletedSkills int           `json:"completed_skill_count"`
	ProgressCount   int64         `json:"progress_count"`
	ResourceCount   int64         `json:"resource_count"`
}

// GetUserDashboard 技能按创建顺序，目标按目标日期排序
func (s *DashboardService) GetUserDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	skills, err := s.SkillRepo.WithContext(ctx).FindByOwner(userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.DashboardRepo.WithContext(ctx).Counts(userID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, sk := range skills {
		if sk.IsComplete() {
			completed++
		}
	}

	return &Dashboard{
		Skills:          skills,
		SkillCount:      counts.Skills,
		GoalCount:       counts.Goals,
		CompletedGoals:  counts.CompletedGoals,
		CompletedSkills: completed,
		ProgressCount:   counts.ProgressUpdates,
		ResourceCount:   counts.Resources,
	}, nil
}
