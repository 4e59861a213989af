package notify

import (
	"context"
	"fmt"

	"health-predict/pkg/utils"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioSender delivers SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    *zap.Logger
}

func NewTwilioSender(config utils.SMSConfig, log *zap.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.AccountSID,
		Password: config.AuthToken,
	})

	return &TwilioSender{
		client: client,
		from:   config.From,
		log:    log.With(zap.String("sender", "twilio")),
	}
}

func (s *TwilioSender) SendSMS(_ context.Context, msg SMS) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.log.Error("Failed to send SMS",
			zap.Error(err),
			zap.String("to", msg.To),
		)
		return "", fmt.Errorf("send SMS to %s: %w", msg.To, err)
	}

	messageID := ""
	if resp.Sid != nil {
		messageID = *resp.Sid
	}

	s.log.Info("SMS sent", zap.String("to", msg.To), zap.String("message_id", messageID))

	return messageID, nil
}
