package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func avatar(name string, data []byte) *AvatarUpload {
	return &AvatarUpload{Filename: name, Size: int64(len(data)), Reader: bytes.NewReader(data)}
}

func bio(s string) *string { return &s }

func TestPublicProfileHiddenUntilApproved(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)

	_, err := env.profiles.Public(env.ctx, "alice")
	assert.ErrorIs(t, err, util.ErrNotFound)

	view, err := env.profiles.View(env.ctx, alice.ID)
	require.NoError(t, err)

	_, err = env.profiles.SetApproved(env.ctx, view.Profile.ID, true)
	require.NoError(t, err)

	public, err := env.profiles.Public(env.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", public.Username)

	_, err = env.profiles.Public(env.ctx, "nobody")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestEditProfileResetsApproval(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	view, err := env.profiles.View(env.ctx, alice.ID)
	require.NoError(t, err)
	_, err = env.profiles.SetApproved(env.ctx, view.Profile.ID, true)
	require.NoError(t, err)

	profile, err := env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{Bio: bio("Learning Go every day.")}, nil)
	require.NoError(t, err)
	assert.False(t, profile.IsApproved)
	require.NotNil(t, profile.Bio)

	_, err = env.profiles.Public(env.ctx, "alice")
	assert.ErrorIs(t, err, util.ErrNotFound)

	profile, err = env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{Bio: bio("")}, nil)
	require.NoError(t, err)
	assert.Nil(t, profile.Bio)
}

func TestEditProfileRejectsShortBio(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)

	_, err := env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{Bio: bio("short")}, nil)
	requireFieldError(t, err, "bio", "Biography must be at least 10 characters long.")
}

func TestEditProfileAvatar(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)

	_, err := env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{}, avatar("notes.txt", []byte("hello")))
	requireFieldError(t, err, "avatar", msgInvalidImage)

	_, err = env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{}, avatar("fake.png", []byte("plain text, not an image")))
	requireFieldError(t, err, "avatar", msgInvalidImage)

	first, err := env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{}, avatar("me.PNG", pngHeader))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.Avatar, "/uploads/avatars/"))
	firstPath := filepath.Join(env.cfg.Storage.LocalPath, strings.TrimPrefix(first.Avatar, "/uploads/"))
	assert.FileExists(t, firstPath)

	second, err := env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{}, avatar("me2.png", pngHeader))
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)

	_, statErr := os.Stat(firstPath)
	assert.True(t, os.IsNotExist(statErr), "old avatar is removed")
}

func TestEditProfileRemovesUploadWhenSaveFails(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)

	require.NoError(t, env.db.Callback().Update().Before("gorm:update").Register("test:fail_profiles", func(tx *gorm.DB) {
		if tx.Statement.Table == "profiles" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := env.profiles.Edit(env.ctx, alice.ID, validation.ProfileForm{}, avatar("me.png", pngHeader))
	require.Error(t, err)

	uploaded, err := filepath.Glob(filepath.Join(env.cfg.Storage.LocalPath, "avatars", "*"))
	require.NoError(t, err)
	assert.Empty(t, uploaded)
}

func TestProfileViewGroupsApprovedResources(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false, false)
	goSkill := env.skill(t, alice, "Go")
	env.skill(t, alice, "Rust")

	tour, err := env.resources.Create(env.ctx, alice.ID, validation.ResourceForm{
		SkillID: uintPtr(goSkill.ID), Title: "Tour", Link: "https://go.dev/tour",
	})
	require.NoError(t, err)
	_, err = env.resources.Create(env.ctx, alice.ID, validation.ResourceForm{
		SkillID: uintPtr(goSkill.ID), Title: "Pending", Link: "https://go.dev/doc",
	})
	require.NoError(t, err)
	_, err = env.resources.SetApproved(env.ctx, tour.ID, true)
	require.NoError(t, err)

	view, err := env.profiles.View(env.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	assert.Len(t, view.Skills, 2)
	assert.Len(t, view.Resources, 2)

	require.Len(t, view.ApprovedResourcesBySkill, 1)
	group := view.ApprovedResourcesBySkill[0]
	assert.Equal(t, "Go", group.Skill.Name)
	require.Len(t, group.Resources, 1)
	assert.Equal(t, "Tour", group.Resources[0].Title)
}
