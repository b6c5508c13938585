package monitor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	_ "aquamon.io/water-quality-service/pkg/testing"
)

func TestRegisterUser(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	name := "u-" + uuid.NewString()[:13]
	usr, err := mon.User.Register(name, name+"@test.local", "secret123", "")
	require.NoError(t, err)

	// role defaults to user, password is stored hashed
	assert.Equal(t, models.RoleUser, usr.Role)
	assert.NotEmpty(t, usr.PasswordHash)
	assert.NotContains(t, string(usr.PasswordHash), "secret123")
	assert.NoError(t, usr.CheckPassword("secret123"))
	assert.Error(t, usr.CheckPassword("wrong"))
}

func TestRegisterUser_Duplicates(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)

	_, err := mon.User.Register(usr.Username, uuid.NewString()+"@test.local", "secret123", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = mon.User.Register("u-"+uuid.NewString()[:13], usr.Email, "secret123", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateUser(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	assert.True(t, usr.LastLogin.IsZero())

	// username works, and so does the email address
	got, err := mon.User.Authenticate(usr.Username, "secret123")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.False(t, got.LastLogin.IsZero())

	got, err = mon.User.Authenticate(usr.Email, "secret123")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
}

func TestAuthenticateUser_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)

	_, err := mon.User.Authenticate(usr.Username, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = mon.User.Authenticate("no-such-user-"+uuid.NewString(), "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangeUserRole(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)

	promoted, err := mon.User.ChangeRole(usr.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	// persisted, not just on the returned copy
	reloaded, err := mon.User.GetByID(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)

	_, err = mon.User.ChangeRole(99999999, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetUserPassword(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)

	require.NoError(t, mon.User.SetPassword(usr.ID, "brand-new-secret"))

	_, err := mon.User.Authenticate(usr.Username, "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = mon.User.Authenticate(usr.Username, "brand-new-secret")
	assert.NoError(t, err)
}

func TestUpdateUserProfile(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	other := createTestUser(t, mon, models.RoleUser)

	newName := "u-" + uuid.NewString()[:13]
	updated, err := mon.User.UpdateProfile(usr.ID, &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Username)
	assert.Equal(t, usr.Email, updated.Email)

	// taking another user's name or email is rejected
	_, err = mon.User.UpdateProfile(usr.ID, &other.Username, nil)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = mon.User.UpdateProfile(usr.ID, nil, &other.Email)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteUser_CascadesDevices(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mon, _, _ := GetMockMonitorWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	usr := createTestUser(t, mon, models.RoleUser)
	device := createTestDevice(t, mon, usr)

	require.NoError(t, mon.User.Delete(usr.ID))

	_, err := mon.Device.Get(device.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, mon.User.Delete(usr.ID), ErrNotFound)
}
