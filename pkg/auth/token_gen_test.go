package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquamon.io/water-quality-service/pkg/models"
)

func resetTestUser(t *testing.T) *models.User {
	usr := &models.User{
		ID:       7,
		Username: "bob",
		Email:    "bob@test.local",
	}
	require.NoError(t, usr.SetPassword("original-password"))
	return usr
}

func TestEncodeDecodeUID(t *testing.T) {
	usr := resetTestUser(t)

	uid := EncodeUID(usr)
	decoded, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, decoded)

	_, err = DecodeUID("!!not-base64!!")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestMakeAndVerifyResetToken(t *testing.T) {
	usr := resetTestUser(t)

	token, err := MakeResetToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, VerifyResetToken(usr, token))
}

func TestVerifyResetToken_Invalid(t *testing.T) {
	usr := resetTestUser(t)

	token, err := MakeResetToken(usr)
	require.NoError(t, err)

	assert.ErrorIs(t, VerifyResetToken(usr, ""), ErrResetTokenInvalid)
	assert.ErrorIs(t, VerifyResetToken(usr, "garbage"), ErrResetTokenInvalid)
	assert.ErrorIs(t, VerifyResetToken(usr, token+"x"), ErrResetTokenInvalid)
}

func TestVerifyResetToken_SingleUse(t *testing.T) {
	usr := resetTestUser(t)

	token, err := MakeResetToken(usr)
	require.NoError(t, err)
	require.NoError(t, VerifyResetToken(usr, token))

	// changing the password invalidates any outstanding token
	require.NoError(t, usr.SetPassword("new-password"))
	assert.ErrorIs(t, VerifyResetToken(usr, token), ErrResetTokenInvalid)
}

func TestVerifyResetToken_LoginInvalidates(t *testing.T) {
	usr := resetTestUser(t)

	token, err := MakeResetToken(usr)
	require.NoError(t, err)

	usr.LastLogin = time.Now()
	assert.ErrorIs(t, VerifyResetToken(usr, token), ErrResetTokenInvalid)
}

func TestVerifyResetToken_Expired(t *testing.T) {
	usr := resetTestUser(t)

	defer func() { NowFunc = time.Now }()

	NowFunc = func() time.Time { return time.Now().Add(-3 * 24 * time.Hour) }
	token, err := MakeResetToken(usr)
	require.NoError(t, err)

	NowFunc = time.Now
	assert.ErrorIs(t, VerifyResetToken(usr, token), ErrResetTokenExpired)
}

func TestRoleSatisfies(t *testing.T) {
	assert.True(t, RoleSatisfies(models.RoleUser, nil))
	assert.True(t, RoleSatisfies(models.RoleUser, []models.Role{models.RoleUser}))
	assert.True(t, RoleSatisfies(models.RoleAdmin, []models.Role{models.RoleAdmin}))

	// admin clears the user tier, the converse does not hold
	assert.True(t, RoleSatisfies(models.RoleAdmin, []models.Role{models.RoleUser}))
	assert.False(t, RoleSatisfies(models.RoleUser, []models.Role{models.RoleAdmin}))
}
