package notify

import (
	"context"
	"fmt"

	"health-predict/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers email through a plain SMTP relay.
type SMTPSender struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func NewSMTPSender(config utils.EmailConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		log:    log.With(zap.String("sender", "smtp")),
	}
}

func (s *SMTPSender) SendEmail(_ context.Context, msg Email) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.User, s.config.Password)

	if err := d.DialAndSend(m); err != nil {
		s.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", msg.To),
		)
		return "", fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	s.log.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))

	// SMTP has no message id to report
	return "", nil
}
