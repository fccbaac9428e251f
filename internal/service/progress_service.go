package service

import (
	"context"
	"errors"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/logger"
	"skill_tracker_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgGoalRequired = "Goal ID is required."

// ProgressResult 新记录以及重新汇总后的目标
type ProgressResult struct {
	Update *model.ProgressUpdate `json:"update"`
	Goal   *model.LearningGoal   `json:"goal"`
}

type ProgressService struct {
	DB           *gorm.DB
	GoalRepo     *repository.GoalRepository
	ProgressRepo *repository.ProgressRepository
}

func NewProgressService(db *gorm.DB, goalRepo *repository.GoalRepository, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		DB:           db,
		GoalRepo:     goalRepo,
		ProgressRepo: progressRepo,
	}
}

// Record 写入一条进度并重新计算目标进度：min(100, max(0, 全部记录之和))。
// 目标行在事务内加锁，同一目标的并发记录不会互相覆盖。
func (s *ProgressService) Record(ctx context.Context, ownerID uint, goalID *uint, form validation.ProgressForm) (*ProgressResult, error) {
	if goalID == nil {
		goalID = form.GoalID
	}
	if goalID == nil || *goalID == 0 {
		return nil, validation.NewNonFieldError(msgGoalRequired)
	}
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "ProgressService.Record",
		attribute.Int("goal.id", int(*goalID)),
		attribute.Int("progress.delta", *form.Progress),
	)
	defer span.End()

	result := &ProgressResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		goalRepo := s.GoalRepo.WithTx(tx)
		progressRepo := s.ProgressRepo.WithTx(tx)

		goal, err := goalRepo.LockOwned(*goalID, ownerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validation.NewNonFieldError(msgInvalidGoal)
		}
		if err != nil {
			return err
		}

		update := &model.ProgressUpdate{
			GoalID:     goal.ID,
			Progress:   *form.Progress,
			UpdateText: form.UpdateText,
		}
		if err := progressRepo.Create(update); err != nil {
			return err
		}

		total, err := progressRepo.SumForGoal(goal.ID)
		if err != nil {
			return err
		}
		goal.Progress = model.ClampProgress(total)
		if err := goalRepo.UpdateProgress(goal.ID, goal.Progress); err != nil {
			return err
		}

		result.Update = update
		result.Goal = goal
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("goal.progress", result.Goal.Progress))

	logger.Log.Debug("Progress recorded",
		zap.Uint("goal_id", result.Goal.ID),
		zap.Int("delta", result.Update.Progress),
		zap.Int("progress", result.Goal.Progress),
	)
	return result, nil
}

// ListForGoal 目标下的全部记录，目标必须属于 ownerID
func (s *ProgressService) ListForGoal(ctx context.Context, ownerID, goalID uint) ([]model.ProgressUpdate, error) {
	if _, err := s.GoalRepo.WithContext(ctx).FindOwned(goalID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return s.ProgressRepo.WithContext(ctx).FindByGoal(goalID)
}
