package monitor

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrUsernameTaken      = errors.New("a user with this username already exists")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrReportAlreadySent  = errors.New("report has already been sent")
)

// wrapNotFound translates gorm's sentinel so callers never import gorm just
// to branch on lookups.
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
