package service

import (
	"context"
	"errors"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const msgInvalidGoal = "Invalid goal."

// GoalService 学习目标，归属经由所属技能判断
type GoalService struct {
	DB           *gorm.DB
	GoalRepo     *repository.GoalRepository
	SkillRepo    *repository.SkillRepository
	ProgressRepo *repository.ProgressRepository
}

func NewGoalService(db *gorm.DB, goalRepo *repository.GoalRepository, skillRepo *repository.SkillRepository, progressRepo *repository.ProgressRepository) *GoalService {
	return &GoalService{
		DB:           db,
		GoalRepo:     goalRepo,
		SkillRepo:    skillRepo,
		ProgressRepo: progressRepo,
	}
}

// Create skill 只能选自己的技能
func (s *GoalService) Create(ctx context.Context, ownerID uint, form validation.GoalForm) (*model.LearningGoal, error) {
	errs, err := collectErrors(form)
	if err != nil {
		return nil, err
	}

	if form.SkillID != nil {
		owned, err := s.SkillRepo.WithContext(ctx).IsOwnedBy(*form.SkillID, ownerID)
		if err != nil {
			return nil, err
		}
		if !owned {
			errs.Add("skill", msgInvalidChoice)
		}
	}
	if err := validation.FromErrors(errs); err != nil {
		return nil, err
	}

	goal := &model.LearningGoal{
		SkillID:     *form.SkillID,
		Name:        form.Name,
		Description: form.Description,
		TargetDate:  datatypes.Date(form.Date()),
		Progress:    *form.Progress,
	}
	if err := s.GoalRepo.WithContext(ctx).Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, ownerID, id uint) (*model.LearningGoal, error) {
	goal, err := s.GoalRepo.WithContext(ctx).FindOwned(id, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return goal, err
}

func (s *GoalService) List(ctx context.Context, ownerID uint) ([]model.LearningGoal, error) {
	return s.GoalRepo.WithContext(ctx).FindByOwner(ownerID)
}

// Update 已有进度记录时，进度由记录重新汇总，忽略表单里的值
func (s *GoalService) Update(ctx context.Context, ownerID, id uint, form validation.GoalEditForm) (*model.LearningGoal, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	var goal *model.LearningGoal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goalRepo := s.GoalRepo.WithTx(tx)
		progressRepo := s.ProgressRepo.WithTx(tx)

		var err error
		goal, err = goalRepo.LockOwned(id, ownerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validation.NewNonFieldError(msgInvalidGoal)
		}
		if err != nil {
			return err
		}

		progress := *form.Progress
		count, err := progressRepo.CountForGoal(goal.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			total, err := progressRepo.SumForGoal(goal.ID)
			if err != nil {
				return err
			}
			progress = model.ClampProgress(total)
		}

		goal.Name = form.Name
		goal.Description = form.Description
		goal.TargetDate = datatypes.Date(form.Date())
		goal.Progress = progress
		return goalRepo.Update(goal)
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, ownerID, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goalRepo := s.GoalRepo.WithTx(tx)
		if _, err := goalRepo.LockOwned(id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validation.NewNonFieldError(msgInvalidGoal)
			}
			return err
		}
		return goalRepo.Delete(id)
	})
}

func (s *GoalService) AdminList(ctx context.Context, page, limit int, skillID uint) ([]model.LearningGoal, int64, error) {
	return s.GoalRepo.WithContext(ctx).AdminList(page, limit, skillID)
}
