package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	ctx context.Context
	db  *gorm.DB
	cfg *config.Config

	blacklist *memoryBlacklist

	accounts  *AccountService
	perms     *PermissionService
	auth      *AuthService
	profiles  *ProfileService
	skills    *SkillService
	goals     *GoalService
	progress  *ProgressService
	resources *ResourceService
	dashboard *DashboardService
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (b *memoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = ttl
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[jti]
	return ok, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.InitDB(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on",
		LogLevel: "silent",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	permRepo := repository.NewPermissionRepository(db)

	env := &testEnv{
		ctx:       context.Background(),
		db:        db,
		cfg:       cfg,
		blacklist: &memoryBlacklist{revoked: map[string]time.Duration{}},
	}
	env.perms = NewPermissionService(permRepo, userRepo, model.DefaultRegistry())
	env.profiles = NewProfileService(profileRepo, skillRepo, goalRepo, progressRepo, resourceRepo, NewStorageService(cfg))
	env.accounts = NewAccountService(db, userRepo, profileRepo, skillRepo, resourceRepo, permRepo)
	env.accounts.OnCreated(env.profiles.CreateForAccount, env.perms.AssignDefaultGroup)
	env.auth = NewAuthService(userRepo, cfg, env.blacklist)
	env.skills = NewSkillService(db, skillRepo)
	env.goals = NewGoalService(db, goalRepo, skillRepo, progressRepo)
	env.progress = NewProgressService(db, goalRepo, progressRepo)
	env.resources = NewResourceService(resourceRepo, skillRepo)
	env.dashboard = NewDashboardService(skillRepo, repository.NewDashboardRepository(db))

	require.NoError(t, env.perms.SyncPermissions(env.ctx))
	require.NoError(t, env.perms.Provision(env.ctx))
	return env
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
func boolPtr(v bool) *bool { return &v }

func (e *testEnv) user(t *testing.T, username string, staff, superuser bool) *model.User {
	t.Helper()
	u, err := e.accounts.CreateAccount(e.ctx, validation.NewAccountForm{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "correct-horse",
		IsStaff:     staff,
		IsSuperuser: superuser,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) skill(t *testing.T, owner *model.User, name string) *model.Skill {
	t.Helper()
	sk, err := e.skills.Create(e.ctx, owner.ID, validation.SkillForm{
		Name:        name,
		Description: name + " basics",
		Category:    "programming",
		Difficulty:  "medium",
	})
	require.NoError(t, err)
	return sk
}

func (e *testEnv) goal(t *testing.T, owner *model.User, skill *model.Skill, progress int) *model.LearningGoal {
	t.Helper()
	g, err := e.goals.Create(e.ctx, owner.ID, validation.GoalForm{
		SkillID:     uintPtr(skill.ID),
		Name:        skill.Name + " goal",
		Description: "reach the target",
		TargetDate:  "2030-06-01",
		Progress:    intPtr(progress),
	})
	require.NoError(t, err)
	return g
}

func (e *testEnv) record(t *testing.T, owner *model.User, goal *model.LearningGoal, delta int) *ProgressResult {
	t.Helper()
	res, err := e.progress.Record(e.ctx, owner.ID, uintPtr(goal.ID), validation.ProgressForm{
		Progress:   intPtr(delta),
		UpdateText: "worked on it",
	})
	require.NoError(t, err)
	return res
}

func requireFieldError(t *testing.T, err error, field, message string) *validation.Error {
	t.Helper()
	verr, ok := validation.As(err)
	require.True(t, ok, "expected validation error, got %v", err)
	require.Contains(t, verr.Fields, field)
	require.Contains(t, verr.Fields[field], message)
	return verr
}
