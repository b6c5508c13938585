package email

import (
	"aquamon.io/water-quality-service/pkg/common"
	"go.uber.org/zap"
)

// ConsoleService writes mails to the log instead of sending them. Default
// backend outside production.
type ConsoleService struct{}

var _ Service = (*ConsoleService)(nil)

func NewConsoleService() *ConsoleService {
	return &ConsoleService{}
}

func (s *ConsoleService) SendPasswordReset(toEmail, username, resetURL string) error {
	common.GetLoggerWith(common.LoggerNameMailer).Info("Password reset email",
		zap.String("to", toEmail),
		zap.String("username", username),
		zap.String("reset_url", resetURL),
	)
	return nil
}
