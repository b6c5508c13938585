package email

// Service delivers the handful of transactional mails the monitor sends.
// Handlers never learn whether delivery succeeded for password resets; that
// would leak account existence.
type Service interface {
	SendPasswordReset(toEmail, username, resetURL string) error
}
