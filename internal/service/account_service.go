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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgUsernameTaken  = "A user with that username already exists."
	msgEmailTaken     = "An account with this email already exists."
	msgAdminGroupOnly = "Only staff or superuser accounts can be members of SuperAdmin or StaffAdmin."
)

// AccountHook 账号创建后在同一事务里执行
type AccountHook func(tx *gorm.DB, user *model.User) error

// AccountService 账号的创建、管理端修改与删除
type AccountService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	ProfileRepo  *repository.ProfileRepository
	SkillRepo    *repository.SkillRepository
	ResourceRepo *repository.ResourceRepository
	PermRepo     *repository.PermissionRepository

	hooks []AccountHook
}

func NewAccountService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	skillRepo *repository.SkillRepository,
	resourceRepo *repository.ResourceRepository,
	permRepo *repository.PermissionRepository,
) *AccountService {
	return &AccountService{
		DB:           db,
		UserRepo:     userRepo,
		ProfileRepo:  profileRepo,
		SkillRepo:    skillRepo,
		ResourceRepo: resourceRepo,
		PermRepo:     permRepo,
	}
}

// OnCreated 注册创建后钩子，按注册顺序执行
func (s *AccountService) OnCreated(hooks ...AccountHook) {
	s.hooks = append(s.hooks, hooks...)
}

// Register 公开注册
func (s *AccountService) Register(ctx context.Context, form validation.RegisterForm) (*model.User, error) {
	form.Normalize()

	errs, err := collectErrors(form)
	if err != nil {
		return nil, err
	}

	uniq, err := s.checkUnique(ctx, form.Username, form.Email, errs)
	if err != nil {
		return nil, err
	}
	if errs.HasErrors() {
		return nil, &validation.Error{Fields: errs, Conflict: len(uniq) == len(errs)}
	}

	user := &model.User{
		Username: form.Username,
		Email:    form.Email,
		IsActive: true,
	}
	if err := s.create(ctx, user, form.Password1); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAccount 管理端或命令行建号，可以直接指定 staff/superuser
func (s *AccountService) CreateAccount(ctx context.Context, form validation.NewAccountForm) (*model.User, error) {
	errs, err := collectErrors(form)
	if err != nil {
		return nil, err
	}

	uniq, err := s.checkUnique(ctx, form.Username, form.Email, errs)
	if err != nil {
		return nil, err
	}
	if errs.HasErrors() {
		return nil, &validation.Error{Fields: errs, Conflict: len(uniq) == len(errs)}
	}

	user := &model.User{
		Username:    form.Username,
		Email:       form.Email,
		IsStaff:     form.IsStaff,
		IsSuperuser: form.IsSuperuser,
		IsActive:    true,
	}
	if err := s.create(ctx, user, form.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// checkUnique 用户名、邮箱的唯一性检查，只检查本身格式已通过的字段。
// 返回写入 errs 的字段名。
func (s *AccountService) checkUnique(ctx context.Context, username, email string, errs validation.Errors) ([]string, error) {
	var fields []string
	repo := s.UserRepo.WithContext(ctx)

	if _, bad := errs["username"]; !bad && username != "" {
		_, err := repo.FindByUsername(username)
		if err == nil {
			errs.Add("username", msgUsernameTaken)
			fields = append(fields, "username")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if _, bad := errs["email"]; !bad && email != "" {
		exists, err := repo.EmailExists(email)
		if err != nil {
			return nil, err
		}
		if exists {
			errs.Add("email", msgEmailTaken)
			fields = append(fields, "email")
		}
	}
	return fields, nil
}

func (s *AccountService) create(ctx context.Context, user *model.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		for _, hook := range s.hooks {
			if err := hook(tx, user); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validation.NewConflict("username", msgUsernameTaken)
	}
	if err != nil {
		return err
	}

	logger.Log.Info("Account created",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Strings("groups", user.GroupNames()),
	)
	return nil
}

func (s *AccountService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.WithContext(ctx).FindByIDWithGroups(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return user, err
}

// IsActive 账号不存在也视为不可用
func (s *AccountService) IsActive(ctx context.Context, id uint) (bool, error) {
	user, err := s.UserRepo.WithContext(ctx).FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsActive, nil
}

func (s *AccountService) List(ctx context.Context, page, limit int, filter repository.UserFilter) ([]model.User, int64, error) {
	return s.UserRepo.WithContext(ctx).List(page, limit, filter)
}

// AdminUpdate 管理端修改账号标志与分组。
// 修改后的账号既不是 staff 也不是 superuser 时，不能留在管理组里。
func (s *AccountService) AdminUpdate(ctx context.Context, id uint, form validation.AdminAccountForm) (*model.User, error) {
	var user *model.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := s.UserRepo.WithTx(tx)

		var err error
		user, err = userRepo.FindByIDWithGroups(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		if err != nil {
			return err
		}

		if form.IsStaff != nil {
			user.IsStaff = *form.IsStaff
		}
		if form.IsSuperuser != nil {
			user.IsSuperuser = *form.IsSuperuser
		}
		if form.IsActive != nil {
			user.IsActive = *form.IsActive
		}

		groups := user.Groups
		if form.Groups != nil {
			groups, err = s.PermRepo.WithTx(tx).FindGroupsByIDs(form.Groups)
			if err != nil {
				return err
			}
			if len(groups) != len(uniqueIDs(form.Groups)) {
				return validation.NewFieldError("groups", msgInvalidChoice)
			}
		}

		if !user.IsAdminCapable() && containsAdminGroup(groups) {
			return validation.NewFieldError("groups", msgAdminGroupOnly)
		}

		if err := userRepo.UpdateFlags(user.ID, user.IsStaff, user.IsSuperuser, user.IsActive); err != nil {
			return err
		}
		if form.Groups != nil {
			if err := userRepo.ReplaceGroups(user, groups); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除账号及其名下的全部数据；别人技能下由该账号添加的资源保留，added_by 置空
func (s *AccountService) Delete(ctx context.Context, id uint) error {
	ctx, span := tracing.StartSpan(ctx, "AccountService.Delete", attribute.Int("user.id", int(id)))
	defer span.End()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.UserRepo.WithTx(tx).FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := s.SkillRepo.WithTx(tx).DeleteByOwner(id); err != nil {
			return err
		}
		if err := s.ResourceRepo.WithTx(tx).ClearAddedBy(id); err != nil {
			return err
		}
		if err := s.UserRepo.WithTx(tx).ClearGroups(user); err != nil {
			return err
		}
		if err := s.ProfileRepo.WithTx(tx).DeleteByUserID(id); err != nil {
			return err
		}
		if err := s.UserRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}

		logger.Log.Info("Account deleted", zap.Uint("user_id", id), zap.String("username", user.Username))
		return nil
	})
	if err != nil && !errors.Is(err, util.ErrNotFound) {
		tracing.RecordError(span, err)
	}
	return err
}

func containsAdminGroup(groups []model.Group) bool {
	for _, g := range groups {
		if g.Name == model.GroupSuperAdmin || g.Name == model.GroupStaffAdmin {
			return true
		}
	}
	return false
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
