package repository

import (
	"context"

	"skill_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// PermissionRepository 权限与分组
type PermissionRepository struct {
	DB *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{DB: db}
}

func (r *PermissionRepository) WithContext(ctx context.Context) *PermissionRepository {
	return &PermissionRepository{DB: r.DB.WithContext(ctx)}
}

func (r *PermissionRepository) WithTx(tx *gorm.DB) *PermissionRepository {
	return &PermissionRepository{DB: tx}
}

// FirstOrCreatePermission 按 codename 查找，不存在则创建
func (r *PermissionRepository) FirstOrCreatePermission(perm *model.Permission) error {
	return r.DB.Where(model.Permission{Codename: perm.Codename}).
		Attrs(model.Permission{Name: perm.Name, EntityType: perm.EntityType, Action: perm.Action}).
		FirstOrCreate(perm).Error
}

func (r *PermissionRepository) FindPermission(codename string) (*model.Permission, error) {
	var perm model.Permission
	err := r.DB.Where("codename = ?", codename).First(&perm).Error
	return &perm, err
}

func (r *PermissionRepository) FindPermissionsByEntity(entity model.EntityType) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.DB.Where("entity_type = ?", string(entity)).Order("id").Find(&perms).Error
	return perms, err
}

func (r *PermissionRepository) FirstOrCreateGroup(name string) (*model.Group, error) {
	group := model.Group{Name: name}
	err := r.DB.Where(model.Group{Name: name}).FirstOrCreate(&group).Error
	return &group, err
}

func (r *PermissionRepository) FindGroupByName(name string) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Permissions").Where("name = ?", name).First(&group).Error
	return &group, err
}

func (r *PermissionRepository) FindGroupsByIDs(ids []uint) ([]model.Group, error) {
	var groups []model.Group
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.DB.Where("id IN ?", ids).Order("id").Find(&groups).Error
	return groups, err
}

func (r *PermissionRepository) ListGroups() ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Preload("Permissions").Order("name").Find(&groups).Error
	return groups, err
}

// GrantPermissions 追加授权，已有的不受影响
func (r *PermissionRepository) GrantPermissions(group *model.Group, perms []model.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	return r.DB.Model(group).Association("Permissions").Append(perms)
}

// UserCodenames 账号通过所属分组获得的全部权限 codename
func (r *PermissionRepository) UserCodenames(userID uint) ([]string, error) {
	var codenames []string
	err := r.DB.Table("permissions").
		Distinct("permissions.codename").
		Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
		Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ?", userID).
		Pluck("permissions.codename", &codenames).Error
	return codenames, err
}
