package service

import (
	"sync"
	"testing"

	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSumsUpdates(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 50)

	res := env.record(t, alice, g, 20)
	// 第一条记录后进度等于记录之和，不叠加创建时的进度
	assert.Equal(t, 20, res.Goal.Progress)
	assert.Equal(t, 20, res.Update.Progress)

	res = env.record(t, alice, g, 35)
	assert.Equal(t, 55, res.Goal.Progress)

	stored, err := env.goals.Get(env.ctx, alice.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, stored.Progress)
	assert.False(t, stored.IsComplete())
}

func TestRecordConcurrentSubmissions(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 0)

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.progress.Record(env.ctx, alice.ID, uintPtr(g.ID), validation.ProgressForm{
				Progress:   intPtr(5),
				UpdateText: "parallel",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := env.goals.Get(env.ctx, alice.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 5*workers, stored.Progress)

	updates, err := env.progress.ListForGoal(env.ctx, alice.ID, g.ID)
	require.NoError(t, err)
	assert.Len(t, updates, workers)
}

func TestRecordCapsAtHundred(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 0)

	env.record(t, alice, g, 80)
	res := env.record(t, alice, g, 60)
	assert.Equal(t, 100, res.Goal.Progress)
	assert.True(t, res.Goal.IsComplete())

	// 记录之和 140 - 50 = 90
	res = env.record(t, alice, g, -50)
	assert.Equal(t, 90, res.Goal.Progress)
}

func TestRecordClampsNegativeTotal(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 40)

	res := env.record(t, alice, g, -30)
	assert.Equal(t, 0, res.Goal.Progress)
}

func TestRecordRequiresGoal(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)

	form := validation.ProgressForm{Progress: intPtr(10), UpdateText: "x"}
	_, err := env.progress.Record(env.ctx, alice.ID, nil, form)
	requireFieldError(t, err, validation.NonFieldErrors, msgGoalRequired)

	_, err = env.progress.Record(env.ctx, alice.ID, uintPtr(0), form)
	requireFieldError(t, err, validation.NonFieldErrors, msgGoalRequired)
}

func TestRecordFallsBackToFormGoal(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 0)

	res, err := env.progress.Record(env.ctx, alice.ID, nil, validation.ProgressForm{
		GoalID: uintPtr(g.ID), Progress: intPtr(15), UpdateText: "chapter 1",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Goal.Progress)
}

func TestRecordRejectsForeignGoal(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	mallory := env.user(t, "mallory", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 0)

	_, err := env.progress.Record(env.ctx, mallory.ID, uintPtr(g.ID), validation.ProgressForm{
		Progress: intPtr(10), UpdateText: "not mine",
	})
	requireFieldError(t, err, validation.NonFieldErrors, msgInvalidGoal)

	_, err = env.progress.Record(env.ctx, alice.ID, uintPtr(g.ID+100), validation.ProgressForm{
		Progress: intPtr(10), UpdateText: "missing",
	})
	requireFieldError(t, err, validation.NonFieldErrors, msgInvalidGoal)

	updates, err := env.progress.ListForGoal(env.ctx, alice.ID, g.ID)
	require.NoError(t, err)
	assert.Empty(t, updates)

	_, err = env.progress.ListForGoal(env.ctx, mallory.ID, g.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestRecordValidatesForm(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	g := env.goal(t, alice, env.skill(t, alice, "Go"), 0)

	_, err := env.progress.Record(env.ctx, alice.ID, uintPtr(g.ID), validation.ProgressForm{Progress: intPtr(10)})
	requireFieldError(t, err, "update_text", "This field is required.")
}
