package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
	"github.com/PabloGalante/reviewsense-agent/internal/observability"
)

// TwilioMessenger delivers WhatsApp messages through the Twilio REST API:
// plain text (chunked when long) and content templates with button
// payloads.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
	// sleep paces consecutive chunks so they arrive in order.
	sleep func(time.Duration)
}

func NewTwilioMessenger(accountSID, authToken, from string) (*TwilioMessenger, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("account SID, auth token and from number are required")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioMessenger{
		client: client,
		from:   from,
		sleep:  time.Sleep,
	}, nil
}

// SendText implements domain.Messenger.
func (t *TwilioMessenger) SendText(ctx context.Context, to domain.ManagerID, text string) error {
	log := observability.LoggerFromContext(ctx).With("to", to)

	chunks := chunkMessage(text)
	for i, chunk := range chunks {
		params := &twilioapi.CreateMessageParams{}
		params.SetTo(string(to))
		params.SetFrom(t.from)
		params.SetBody(chunk)

		resp, err := t.client.Api.CreateMessage(params)
		if err != nil {
			return fmt.Errorf("twilio send message: %w", err)
		}
		if resp.Sid != nil {
			log.Info("sent message", "sid", *resp.Sid, "chunk", i+1, "chunks", len(chunks))
		}

		if i < len(chunks)-1 {
			t.sleep(time.Second)
		}
	}
	return nil
}

// SendTemplate implements domain.Messenger.
func (t *TwilioMessenger) SendTemplate(ctx context.Context, to domain.ManagerID, templateID string, vars map[string]string) error {
	log := observability.LoggerFromContext(ctx).With("to", to, "content_sid", templateID)

	encoded, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("encoding template variables: %w", err)
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(string(to))
	params.SetFrom(t.from)
	params.SetContentSid(templateID)
	params.SetContentVariables(string(encoded))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send template: %w", err)
	}
	if resp.Sid != nil {
		log.Info("sent template message", "sid", *resp.Sid)
	}
	return nil
}
