package service

import (
	"context"
	"errors"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// SkillResources 某个技能下的已审核资源
type SkillResources struct {
	Skill     SkillSummary     `json:"skill"`
	Resources []model.Resource `json:"resources"`
}

type SkillSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProfileView 个人主页数据
type ProfileView struct {
	Profile                  *model.Profile         `json:"profile"`
	Username                 string                 `json:"username"`
	Skills                   []model.Skill          `json:"skills"`
	Goals                    []model.LearningGoal   `json:"goals"`
	Updates                  []model.ProgressUpdate `json:"updates"`
	Resources                []model.Resource       `json:"resources"`
	ApprovedResourcesBySkill []SkillResources       `json:"approved_resources_by_skill"`
}

// PublicProfileView 公开主页，只包含已审核资源
type PublicProfileView struct {
	Username                 string           `json:"username"`
	Bio                      *string          `json:"bio"`
	Avatar                   string           `json:"avatar"`
	Skills                   []model.Skill    `json:"skills"`
	ApprovedResourcesBySkill []SkillResources `json:"approved_resources_by_skill"`
}

type ProfileService struct {
	ProfileRepo  *repository.ProfileRepository
	SkillRepo    *repository.SkillRepository
	GoalRepo     *repository.GoalRepository
	ProgressRepo *repository.ProgressRepository
	ResourceRepo *repository.ResourceRepository
	Storage      *StorageService
}

func NewProfileService(
	profileRepo *repository.ProfileRepository,
	skillRepo *repository.SkillRepository,
	goalRepo *repository.GoalRepository,
	progressRepo *repository.ProgressRepository,
	resourceRepo *repository.ResourceRepository,
	storage *StorageService,
) *ProfileService {
	return &ProfileService{
		ProfileRepo:  profileRepo,
		SkillRepo:    skillRepo,
		GoalRepo:     goalRepo,
		ProgressRepo: progressRepo,
		ResourceRepo: resourceRepo,
		Storage:      storage,
	}
}

// CreateForAccount 账号创建钩子：每个账号一份空资料
func (s *ProfileService) CreateForAccount(tx *gorm.DB, user *model.User) error {
	return s.ProfileRepo.WithTx(tx).Create(&model.Profile{UserID: user.ID})
}

func (s *ProfileService) getOwn(ctx context.Context, userID uint) (*model.Profile, error) {
	profile, err := s.ProfileRepo.WithContext(ctx).FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return profile, err
}

// View 当前账号的主页
func (s *ProfileService) View(ctx context.Context, userID uint) (*ProfileView, error) {
	profile, err := s.getOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	skills, err := s.SkillRepo.WithContext(ctx).FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.GoalRepo.WithContext(ctx).FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	updates, err := s.ProgressRepo.WithContext(ctx).FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	resources, err := s.ResourceRepo.WithContext(ctx).FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	approved, err := s.ResourceRepo.WithContext(ctx).FindApprovedByOwner(userID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		Profile:                  profile,
		Username:                 profile.User.Username,
		Skills:                   skills,
		Goals:                    goals,
		Updates:                  updates,
		Resources:                resources,
		ApprovedResourcesBySkill: GroupResourcesBySkill(skills, approved),
	}, nil
}

// Public 按用户名查看已审核的主页
func (s *ProfileService) Public(ctx context.Context, username string) (*PublicProfileView, error) {
	profile, err := s.ProfileRepo.WithContext(ctx).FindApprovedByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	skills, err := s.SkillRepo.WithContext(ctx).FindByOwner(profile.UserID)
	if err != nil {
		return nil, err
	}
	approved, err := s.ResourceRepo.WithContext(ctx).FindApprovedByOwner(profile.UserID)
	if err != nil {
		return nil, err
	}

	return &PublicProfileView{
		Username:                 profile.User.Username,
		Bio:                      profile.Bio,
		Avatar:                   profile.Avatar,
		Skills:                   skills,
		ApprovedResourcesBySkill: GroupResourcesBySkill(skills, approved),
	}, nil
}

// Edit 修改自己的资料，之后需要重新审核。avatar 为 nil 表示不换头像
func (s *ProfileService) Edit(ctx context.Context, userID uint, form validation.ProfileForm, avatar *AvatarUpload) (*model.Profile, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	profile, err := s.getOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldAvatar := profile.Avatar
	if avatar != nil {
		url, err := s.Storage.SaveAvatar(ctx, avatar)
		if errors.Is(err, util.ErrInvalidFile) {
			return nil, validation.NewFieldError("avatar", msgInvalidImage)
		}
		if err != nil {
			return nil, err
		}
		profile.Avatar = url
	}

	bio := form.Bio
	if bio != nil && *bio == "" {
		bio = nil
	}
	profile.Bio = bio

	if err := s.ProfileRepo.WithContext(ctx).UpdateContent(profile); err != nil {
		if avatar != nil {
			s.discardAvatar(ctx, profile.Avatar)
		}
		return nil, err
	}

	if avatar != nil && oldAvatar != "" && oldAvatar != profile.Avatar {
		s.discardAvatar(ctx, oldAvatar)
	}
	return profile, nil
}

// discardAvatar 删除失败只记日志
func (s *ProfileService) discardAvatar(ctx context.Context, url string) {
	if err := s.Storage.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
		logger.Log.Warn("Failed to delete avatar", zap.String("avatar", url), zap.Error(err))
	}
}

func (s *ProfileService) AdminList(ctx context.Context, page, limit int, approved *bool) ([]model.Profile, int64, error) {
	return s.ProfileRepo.WithContext(ctx).List(page, limit, approved)
}

func (s *ProfileService) SetApproved(ctx context.Context, id uint, approved bool) (*model.Profile, error) {
	repo := s.ProfileRepo.WithContext(ctx)
	if _, err := repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if err := repo.SetApproved(id, approved); err != nil {
		return nil, err
	}
	return repo.FindByID(id)
}

// GroupResourcesBySkill 按技能分组，保持技能顺序，没有资源的技能不出现
func GroupResourcesBySkill(skills []model.Skill, resources []model.Resource) []SkillResources {
	bySkill := make(map[uint][]model.Resource)
	for _, r := range resources {
		bySkill[r.SkillID] = append(bySkill[r.SkillID], r)
	}

	groups := make([]SkillResources, 0, len(bySkill))
	for _, sk := range skills {
		if res, ok := bySkill[sk.ID]; ok {
			groups = append(groups, SkillResources{
				Skill:     SkillSummary{ID: sk.ID, Name: sk.Name},
				Resources: res,
			})
		}
	}
	return groups
}
