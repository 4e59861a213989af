// Package notify holds the delivery gateways the verification flows
// depend on. The core never retries a failed send; the persisted code
// stays valid, so the caller can request a resend.
package notify

import (
	"context"

	"health-predict/pkg/utils"

	"go.uber.org/zap"
)

type Email struct {
	To      string
	Subject string
	Body    string
}

type SMS struct {
	To   string
	Body string
}

// EmailSender delivers a single email. The returned id is the gateway
// message id when the gateway provides one, "" otherwise.
type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) (string, error)
}

// SMSSender delivers a single SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, msg SMS) (string, error)
}

type Notifier struct {
	Email EmailSender
	SMS   SMSSender
}

// New assembles the notifier from configuration. A channel with missing
// credentials falls back to the log-only sender instead of failing
// startup.
func New(config *utils.Config, log *zap.Logger) *Notifier {
	n := &Notifier{}

	if config.Email.Host != "" && config.Email.From != "" {
		n.Email = NewSMTPSender(config.Email, log)
	} else {
		log.Warn("SMTP not configured, email delivery disabled")
		n.Email = &logEmailSender{log: log}
	}

	if config.SMS.AccountSID != "" && config.SMS.AuthToken != "" && config.SMS.From != "" {
		n.SMS = NewTwilioSender(config.SMS, log)
	} else {
		log.Warn("Twilio not configured, SMS delivery disabled")
		n.SMS = &logSMSSender{log: log}
	}

	return n
}
