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

// ResourceService 资源提交与审核。新资源总是未审核状态
type ResourceService struct {
	ResourceRepo *repository.ResourceRepository
	SkillRepo    *repository.SkillRepository
}

func NewResourceService(resourceRepo *repository.ResourceRepository, skillRepo *repository.SkillRepository) *ResourceService {
	return &ResourceService{ResourceRepo: resourceRepo, SkillRepo: skillRepo}
}

func (s *ResourceService) Create(ctx context.Context, userID uint, form validation.ResourceForm) (*model.Resource, error) {
	errs, err := collectErrors(form)
	if err != nil {
		return nil, err
	}

	if form.SkillID != nil {
		owned, err := s.SkillRepo.WithContext(ctx).IsOwnedBy(*form.SkillID, userID)
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

	addedBy := userID
	resource := &model.Resource{
		Title:     form.Title,
		Link:      form.Link,
		SkillID:   *form.SkillID,
		Approved:  false,
		AddedByID: &addedBy,
	}
	if err := s.ResourceRepo.WithContext(ctx).Create(resource); err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *ResourceService) List(ctx context.Context, userID uint) ([]model.Resource, error) {
	return s.ResourceRepo.WithContext(ctx).FindByOwner(userID)
}

func (s *ResourceService) AdminList(ctx context.Context, page, limit int, approved *bool) ([]model.Resource, int64, error) {
	return s.ResourceRepo.WithContext(ctx).AdminList(page, limit, approved)
}

func (s *ResourceService) SetApproved(ctx context.Context, id uint, approved bool) (*model.Resource, error) {
	repo := s.ResourceRepo.WithContext(ctx)
	resource, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := repo.SetApproved(id, approved); err != nil {
		return nil, err
	}
	resource.Approved = approved
	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	repo := s.ResourceRepo.WithContext(ctx)
	if _, err := repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	return repo.Delete(id)
}
