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

func TestSkillScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	bob := env.user(t, "bob", false, false)

	aliceSkill := env.skill(t, alice, "Go")
	bobSkill := env.skill(t, bob, "Rust")

	skills, err := env.skills.List(env.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, aliceSkill.ID, skills[0].ID)
	assert.Equal(t, alice.ID, skills[0].OwnerID)

	_, err = env.skills.Get(env.ctx, bob.ID, aliceSkill.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	choices, err := env.skills.Choices(env.ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []repository.SkillChoice{{ID: bobSkill.ID, Name: "Rust"}}, choices)
}

func TestSkillUpdateAndDeleteRejectForeignOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	mallory := env.user(t, "mallory", false, false)
	sk := env.skill(t, alice, "Go")

	form := validation.SkillForm{Name: "Hacked", Description: "d", Category: "c", Difficulty: "hard"}
	_, err := env.skills.Update(env.ctx, mallory.ID, sk.ID, form)
	requireFieldError(t, err, validation.NonFieldErrors, msgInvalidSkill)

	err = env.skills.Delete(env.ctx, mallory.ID, sk.ID)
	requireFieldError(t, err, validation.NonFieldErrors, msgInvalidSkill)

	stored, err := env.skills.Get(env.ctx, alice.ID, sk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", stored.Name)
}

func TestSkillUpdateKeepsOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	sk := env.skill(t, alice, "Go")

	updated, err := env.skills.Update(env.ctx, alice.ID, sk.ID, validation.SkillForm{
		Name: "Go 2", Description: "generics", Category: "lang", Difficulty: "hard",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go 2", updated.Name)
	assert.Equal(t, alice.ID, updated.OwnerID)
	assert.Equal(t, sk.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestSkillDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	sk := env.skill(t, alice, "Go")
	g := env.goal(t, alice, sk, 0)
	env.record(t, alice, g, 10)
	_, err := env.resources.Create(env.ctx, alice.ID, validation.ResourceForm{
		SkillID: uintPtr(sk.ID), Title: "Tour", Link: "https://go.dev/tour",
	})
	require.NoError(t, err)

	require.NoError(t, env.skills.Delete(env.ctx, alice.ID, sk.ID))

	for _, m := range []interface{}{&model.Skill{}, &model.LearningGoal{}, &model.ProgressUpdate{}, &model.Resource{}} {
		var n int64
		require.NoError(t, env.db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T", m)
	}
}

func TestSkillCompletion(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	sk := env.skill(t, alice, "Go")
	g1 := env.goal(t, alice, sk, 0)
	g2 := env.goal(t, alice, sk, 0)

	env.record(t, alice, g1, 100)
	stored, err := env.skills.Get(env.ctx, alice.ID, sk.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsComplete())

	env.record(t, alice, g2, 60)
	env.record(t, alice, g2, 60)
	stored, err = env.skills.Get(env.ctx, alice.ID, sk.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsComplete())

	dash, err := env.dashboard.GetUserDashboard(env.ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dash.SkillCount)
	assert.EqualValues(t, 2, dash.GoalCount)
	assert.EqualValues(t, 2, dash.CompletedGoals)
	assert.Equal(t, 1, dash.CompletedSkills)
	assert.EqualValues(t, 3, dash.ProgressCount)
}
