package util

import (
	"testing"
	"time"

	"skill_tracker_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Username: "alice", IsSuperuser: true}
	user.ID = 7

	token, claims, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.UserID)
	assert.Equal(t, "alice", parsed.Username)
	assert.True(t, parsed.IsSuperuser)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestParseJWTRejectsBadTokens(t *testing.T) {
	user := &model.User{Username: "alice"}

	token, _, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, _, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "alice"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT(unsigned, "secret")
	assert.Error(t, err)
}

func TestParseOptionalBool(t *testing.T) {
	assert.Nil(t, ParseOptionalBool(""))
	assert.Nil(t, ParseOptionalBool("maybe"))
	require.NotNil(t, ParseOptionalBool("true"))
	assert.True(t, *ParseOptionalBool("true"))
	assert.False(t, *ParseOptionalBool("0"))
}
