package email

import (
	"fmt"
	"net/http"

	"aquamon.io/water-quality-service/pkg/common"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var (
	sgHost     = "https://api.sendgrid.com"
	sgEndpoint = "/v3/mail/send"
)

// SendgridService sends mail through the SendGrid v3 API.
type SendgridService struct {
	key  string
	from *sgmail.Email
}

var _ Service = (*SendgridService)(nil)

func NewSendgridService(key, fromName, fromEmail string) *SendgridService {
	return &SendgridService{
		key:  key,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (s *SendgridService) SendPasswordReset(toEmail, username, resetURL string) error {
	subject := "[AquaMon] Password reset"
	text := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account."+
			"\nFollow this link to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		username, resetURL)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>A password reset was requested for your account. "+
			"<a href=%q>Choose a new password</a>.</p>"+
			"<p>If you did not request this, you can ignore this message.</p>",
		username, resetURL)

	m := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail(username, toEmail), text, html)

	req := sendgrid.GetRequest(s.key, sgEndpoint, sgHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		common.GetLoggerWith(common.LoggerNameMailer).Error("SendGrid rejected message",
			zap.Int("status", res.StatusCode), zap.String("body", res.Body))
		return fmt.Errorf("sendgrid responded with status %d", res.StatusCode)
	}
	return nil
}
