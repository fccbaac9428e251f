package service

import (
	"context"
	"errors"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"gorm.io/gorm"
)

const msgInvalidSkill = "Invalid skill."

// SkillService 技能的增删改查，全部按 owner 限定
type SkillService struct {
	DB        *gorm.DB
	SkillRepo *repository.SkillRepository
}

func NewSkillService(db *gorm.DB, skillRepo *repository.SkillRepository) *SkillService {
	return &SkillService{DB: db, SkillRepo: skillRepo}
}

func (s *SkillService) Create(ctx context.Context, ownerID uint, form validation.SkillForm) (*model.Skill, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	skill := &model.Skill{
		Name:        form.Name,
		Description: form.Description,
		Category:    form.Category,
		Difficulty:  form.Difficulty,
		OwnerID:     ownerID,
	}
	if err := s.SkillRepo.WithContext(ctx).Create(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) List(ctx context.Context, ownerID uint) ([]model.Skill, error) {
	return s.SkillRepo.WithContext(ctx).FindByOwner(ownerID)
}

// Get 别人的技能与不存在的技能一样返回 ErrNotFound；修改和删除则返回非字段校验错误
func (s *SkillService) Get(ctx context.Context, ownerID, id uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.WithContext(ctx).FindOwned(id, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return skill, err
}

func (s *SkillService) Update(ctx context.Context, ownerID, id uint, form validation.SkillForm) (*model.Skill, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	skill, err := s.SkillRepo.WithContext(ctx).FindOwned(id, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validation.NewNonFieldError(msgInvalidSkill)
	}
	if err != nil {
		return nil, err
	}
	skill.Name = form.Name
	skill.Description = form.Description
	skill.Category = form.Category
	skill.Difficulty = form.Difficulty

	if err := s.SkillRepo.WithContext(ctx).Update(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Delete(ctx context.Context, ownerID, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.SkillRepo.WithTx(tx)
		owned, err := repo.IsOwnedBy(id, ownerID)
		if err != nil {
			return err
		}
		if !owned {
			return validation.NewNonFieldError(msgInvalidSkill)
		}
		return repo.Delete(id)
	})
}

// Choices 目标、资源表单中 skill 下拉框的可选项
func (s *SkillService) Choices(ctx context.Context, ownerID uint) ([]repository.SkillChoice, error) {
	return s.SkillRepo.WithContext(ctx).Choices(ownerID)
}

func (s *SkillService) AdminList(ctx context.Context, page, limit int, filter repository.SkillFilter) ([]model.Skill, int64, error) {
	return s.SkillRepo.WithContext(ctx).AdminList(page, limit, filter)
}
