package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log-only senders stand in when a gateway is not configured. They record
// the attempt but never the body, which carries the code.

type logEmailSender struct {
	log *zap.Logger
}

func (s *logEmailSender) SendEmail(_ context.Context, msg Email) (string, error) {
	s.log.Info("Email delivery skipped, SMTP not configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return "", nil
}

type logSMSSender struct {
	log *zap.Logger
}

func (s *logSMSSender) SendSMS(_ context.Context, msg SMS) (string, error) {
	s.log.Info("SMS delivery skipped, Twilio not configured",
		zap.String("to", msg.To),
	)
	return "", nil
}
