package service

import (
	"testing"

	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerForm(username, email string) validation.RegisterForm {
	return validation.RegisterForm{
		Username:  username,
		Email:     email,
		Password1: "correct-horse",
		Password2: "correct-horse",
	}
}

func TestRegisterCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.accounts.Register(env.ctx, registerForm(" alice ", "alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "correct-horse", user.Password)

	profile, err := repository.NewProfileRepository(env.db).FindByUserID(user.ID)
	require.NoError(t, err)
	assert.False(t, profile.IsApproved)
	assert.Nil(t, profile.Bio)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "alice", false, false)

	_, err := env.accounts.Register(env.ctx, registerForm("alice", "other@example.com"))
	verr := requireFieldError(t, err, "username", msgUsernameTaken)
	assert.True(t, verr.Conflict)
}

func TestRegisterDuplicateEmailIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "alice", false, false)

	_, err := env.accounts.Register(env.ctx, registerForm("alice2", "ALICE@example.com"))
	verr, ok := validation.As(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, validation.Errors{"email": {msgEmailTaken}}, verr.Fields)
	assert.True(t, verr.Conflict)
}

// 绕过预检查，直接撞唯一索引
func TestCreateDuplicateUsernameFromStorage(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "alice", false, false)

	err := env.accounts.create(env.ctx, &model.User{
		Username: "alice",
		Email:    "someone-else@example.com",
		IsActive: true,
	}, "correct-horse")

	verr, ok := validation.As(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.True(t, verr.Conflict)
	assert.Equal(t, validation.Errors{"username": {msgUsernameTaken}}, verr.Fields)

	var count int64
	require.NoError(t, env.db.Model(&model.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterMixedErrorsIsNotConflict(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "alice", false, false)

	form := registerForm("alice", "new@example.com")
	form.Password2 = "mismatch-pass"
	_, err := env.accounts.Register(env.ctx, form)

	verr := requireFieldError(t, err, "username", msgUsernameTaken)
	assert.Contains(t, verr.Fields, "password2")
	assert.False(t, verr.Conflict)
}

func TestAdminUpdateRejectsAdminGroupForPlainAccount(t *testing.T) {
	env := newTestEnv(t)
	plain := env.user(t, "plain", false, false)

	staffGroup, err := repository.NewPermissionRepository(env.db).FindGroupByName(model.GroupStaffAdmin)
	require.NoError(t, err)

	_, err = env.accounts.AdminUpdate(env.ctx, plain.ID, validation.AdminAccountForm{
		Groups: []uint{staffGroup.ID},
	})
	requireFieldError(t, err, "groups", msgAdminGroupOnly)

	reloaded, err := env.accounts.Get(env.ctx, plain.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Groups)
}

func TestAdminUpdateDemotionMustLeaveAdminGroups(t *testing.T) {
	env := newTestEnv(t)
	staff := env.user(t, "staffer", true, false)

	// 仍在 StaffAdmin 中时不能取消 staff
	_, err := env.accounts.AdminUpdate(env.ctx, staff.ID, validation.AdminAccountForm{IsStaff: boolPtr(false)})
	requireFieldError(t, err, "groups", msgAdminGroupOnly)

	updated, err := env.accounts.AdminUpdate(env.ctx, staff.ID, validation.AdminAccountForm{
		IsStaff: boolPtr(false),
		Groups:  []uint{},
	})
	require.NoError(t, err)
	assert.False(t, updated.IsStaff)

	reloaded, err := env.accounts.Get(env.ctx, staff.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsStaff)
	assert.Empty(t, reloaded.Groups)
}

func TestAdminUpdateUnknownGroup(t *testing.T) {
	env := newTestEnv(t)
	staff := env.user(t, "staffer", true, false)

	_, err := env.accounts.AdminUpdate(env.ctx, staff.ID, validation.AdminAccountForm{Groups: []uint{4242}})
	requireFieldError(t, err, "groups", msgInvalidChoice)

	_, err = env.accounts.AdminUpdate(env.ctx, 4242, validation.AdminAccountForm{})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	bob := env.user(t, "bob", false, false)

	sk := env.skill(t, alice, "Go")
	g := env.goal(t, alice, sk, 0)
	env.record(t, alice, g, 30)
	_, err := env.resources.Create(env.ctx, alice.ID, validation.ResourceForm{
		SkillID: uintPtr(sk.ID), Title: "Tour", Link: "https://go.dev/tour",
	})
	require.NoError(t, err)

	// alice 在 bob 的技能下添加过资源
	bobSkill := env.skill(t, bob, "Rust")
	aliceID := alice.ID
	shared := &model.Resource{Title: "Book", Link: "https://doc.rust-lang.org/book", SkillID: bobSkill.ID, AddedByID: &aliceID}
	require.NoError(t, repository.NewResourceRepository(env.db).Create(shared))

	require.NoError(t, env.accounts.Delete(env.ctx, alice.ID))

	count := func(m interface{}) int64 {
		var n int64
		require.NoError(t, env.db.Model(m).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&model.Skill{}))
	assert.EqualValues(t, 0, count(&model.LearningGoal{}))
	assert.EqualValues(t, 0, count(&model.ProgressUpdate{}))
	assert.EqualValues(t, 1, count(&model.Resource{}))
	assert.EqualValues(t, 1, count(&model.Profile{}))

	kept, err := repository.NewResourceRepository(env.db).FindByID(shared.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.AddedByID)

	_, err = env.accounts.Get(env.ctx, alice.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.ErrorIs(t, env.accounts.Delete(env.ctx, alice.ID), util.ErrNotFound)
}
