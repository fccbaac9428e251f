package service

import (
	"context"
	"errors"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PermissionService 权限同步、管理组初始化与权限判断
type PermissionService struct {
	PermRepo *repository.PermissionRepository
	UserRepo *repository.UserRepository
	Registry model.EntityRegistry
}

func NewPermissionService(permRepo *repository.PermissionRepository, userRepo *repository.UserRepository, registry model.EntityRegistry) *PermissionService {
	return &PermissionService{
		PermRepo: permRepo,
		UserRepo: userRepo,
		Registry: registry,
	}
}

// SyncPermissions 为每个登记的实体和动作建立权限记录，已存在的跳过
func (s *PermissionService) SyncPermissions(ctx context.Context) error {
	repo := s.PermRepo.WithContext(ctx)
	for _, entity := range s.Registry {
		for _, action := range entity.Actions {
			perm := &model.Permission{
				Codename:   model.Codename(action, entity.Type),
				Name:       model.PermissionName(action, entity.Verbose),
				EntityType: string(entity.Type),
				Action:     string(action),
			}
			if err := repo.FirstOrCreatePermission(perm); err != nil {
				return err
			}
		}
	}
	return nil
}

// Provision 建立 SuperAdmin / StaffAdmin 并授权。
// 授权只增不减，重复执行结果不变；找不到的权限记日志后跳过。
func (s *PermissionService) Provision(ctx context.Context) error {
	repo := s.PermRepo.WithContext(ctx)

	superAdmin, err := repo.FirstOrCreateGroup(model.GroupSuperAdmin)
	if err != nil {
		return err
	}
	staffAdmin, err := repo.FirstOrCreateGroup(model.GroupStaffAdmin)
	if err != nil {
		return err
	}

	var all []model.Permission
	for _, entityType := range s.Registry.Types() {
		perms, err := repo.FindPermissionsByEntity(entityType)
		if err != nil {
			return err
		}
		if len(perms) == 0 {
			logger.Log.Warn("No permissions found for entity", zap.String("entity", string(entityType)))
			continue
		}
		all = append(all, perms...)
	}
	if err := repo.GrantPermissions(superAdmin, all); err != nil {
		return err
	}

	entities, actions := model.StaffAdminGrants()
	var staff []model.Permission
	for _, entityType := range entities {
		for _, action := range actions {
			codename := model.Codename(action, entityType)
			perm, err := repo.FindPermission(codename)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Warn("Permission not found, skipping", zap.String("codename", codename))
				continue
			}
			if err != nil {
				return err
			}
			staff = append(staff, *perm)
		}
	}
	if err := repo.GrantPermissions(staffAdmin, staff); err != nil {
		return err
	}

	logger.Log.Info("Admin groups provisioned",
		zap.Int("superadmin_permissions", len(all)),
		zap.Int("staffadmin_permissions", len(staff)),
	)
	return nil
}

// AssignDefaultGroup 账号创建后的钩子：superuser 进 SuperAdmin，staff 进 StaffAdmin
func (s *PermissionService) AssignDefaultGroup(tx *gorm.DB, user *model.User) error {
	var name string
	switch {
	case user.IsSuperuser:
		name = model.GroupSuperAdmin
	case user.IsStaff:
		name = model.GroupStaffAdmin
	default:
		return nil
	}

	group, err := s.PermRepo.WithTx(tx).FirstOrCreateGroup(name)
	if err != nil {
		return err
	}
	return s.UserRepo.WithTx(tx).AddGroup(user, group)
}

// HasPermission superuser 拥有全部权限，停用账号没有任何权限
func (s *PermissionService) HasPermission(ctx context.Context, userID uint, action model.Action, entity model.EntityType) (bool, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	return s.userHas(ctx, user, action, entity)
}

// HasAdminPermission 管理端接口还要求账号是 staff 或 superuser
func (s *PermissionService) HasAdminPermission(ctx context.Context, userID uint, action model.Action, entity model.EntityType) (bool, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	if !user.IsAdminCapable() {
		return false, nil
	}
	return s.userHas(ctx, user, action, entity)
}

func (s *PermissionService) loadUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.WithContext(ctx).FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *PermissionService) userHas(ctx context.Context, user *model.User, action model.Action, entity model.EntityType) (bool, error) {
	if !user.IsActive {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}

	codenames, err := s.PermRepo.WithContext(ctx).UserCodenames(user.ID)
	if err != nil {
		return false, err
	}
	want := model.Codename(action, entity)
	for _, c := range codenames {
		if c == want {
			return true, nil
		}
	}
	return false, nil
}

func (s *PermissionService) ListGroups(ctx context.Context) ([]model.Group, error) {
	return s.PermRepo.WithContext(ctx).ListGroups()
}
