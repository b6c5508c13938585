package monitor

import (
	"errors"
	"time"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (m *Monitor) registerUser(username, email, password string, role models.Role) (*models.User, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryUser),
	)

	if role == "" {
		role = models.RoleUser
	}

	var count int64
	if err := m.Db.Conn.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := m.Db.Conn.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	usr := models.User{
		Username: username,
		Email:    email,
		Role:     role,
	}
	if err := usr.SetPassword(password); err != nil {
		return nil, err
	}

	if err := m.Db.Conn.Create(&usr).Error; err != nil {
		return nil, err
	}

	logger.Info("Registered user",
		zap.Uint("id", usr.ID), zap.String("username", usr.Username), zap.String("role", string(usr.Role)))
	return &usr, nil
}

func (m *Monitor) authenticateUser(username, password string) (*models.User, error) {
	var usr models.User
	err := m.Db.Conn.Where("username = ? OR email = ?", username, username).First(&usr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn a bcrypt comparison so a missing user costs the same
			(&models.User{PasswordHash: dummyHash}).CheckPassword(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := usr.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}

	usr.LastLogin = time.Now()
	if err := m.Db.Conn.Model(&usr).Update("last_login", usr.LastLogin).Error; err != nil {
		return nil, err
	}
	return &usr, nil
}

var dummyHash = func() []byte {
	var u models.User
	_ = u.SetPassword("timing-equalizer")
	return u.PasswordHash
}()

func (m *Monitor) getUserByID(id uint) (*models.User, error) {
	var usr models.User
	if err := m.Db.Conn.First(&usr, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &usr, nil
}

func (m *Monitor) getUserByEmail(email string) (*models.User, error) {
	var usr models.User
	if err := m.Db.Conn.Where("email = ?", email).First(&usr).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &usr, nil
}

func (m *Monitor) listUsers() ([]models.User, error) {
	var users []models.User
	err := m.Db.Conn.Order("id").Find(&users).Error
	return users, err
}

func (m *Monitor) changeUserRole(id uint, role models.Role) (*models.User, error) {
	usr, err := m.getUserByID(id)
	if err != nil {
		return nil, err
	}
	usr.Role = role
	if err := m.Db.Conn.Model(usr).Update("role", role).Error; err != nil {
		return nil, err
	}

	common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryUser),
	).Info("Changed user role", zap.Uint("id", id), zap.String("role", string(role)))
	return usr, nil
}

func (m *Monitor) setUserPassword(id uint, newPassword string) error {
	usr, err := m.getUserByID(id)
	if err != nil {
		return err
	}
	if err := usr.SetPassword(newPassword); err != nil {
		return err
	}
	return m.Db.Conn.Model(usr).Update("password_hash", usr.PasswordHash).Error
}

func (m *Monitor) updateUserProfile(id uint, username, email *string) (*models.User, error) {
	usr, err := m.getUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if username != nil && *username != usr.Username {
		var count int64
		if err := m.Db.Conn.Model(&models.User{}).
			Where("username = ? AND id <> ?", *username, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
		updates["username"] = *username
	}
	if email != nil && *email != usr.Email {
		var count int64
		if err := m.Db.Conn.Model(&models.User{}).
			Where("email = ? AND id <> ?", *email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		updates["email"] = *email
	}

	if len(updates) > 0 {
		if err := m.Db.Conn.Model(usr).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return m.getUserByID(id)
}

func (m *Monitor) deleteUser(id uint) error {
	res := m.Db.Conn.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type IUserImpl struct {
	mon *Monitor
}

func (iu *IUserImpl) Register(username, email, password string, role models.Role) (*models.User, error) {
	return iu.mon.registerUser(username, email, password, role)
}

func (iu *IUserImpl) Authenticate(username, password string) (*models.User, error) {
	return iu.mon.authenticateUser(username, password)
}

func (iu *IUserImpl) GetByID(id uint) (*models.User, error) {
	return iu.mon.getUserByID(id)
}

func (iu *IUserImpl) GetByEmail(email string) (*models.User, error) {
	return iu.mon.getUserByEmail(email)
}

func (iu *IUserImpl) List() ([]models.User, error) {
	return iu.mon.listUsers()
}

func (iu *IUserImpl) ChangeRole(id uint, role models.Role) (*models.User, error) {
	return iu.mon.changeUserRole(id, role)
}

func (iu *IUserImpl) SetPassword(id uint, newPassword string) error {
	return iu.mon.setUserPassword(id, newPassword)
}

func (iu *IUserImpl) UpdateProfile(id uint, username, email *string) (*models.User, error) {
	return iu.mon.updateUserProfile(id, username, email)
}

func (iu *IUserImpl) Delete(id uint) error {
	return iu.mon.deleteUser(id)
}

func (m *Monitor) GetIUser() IUser {
	return &IUserImpl{mon: m}
}
