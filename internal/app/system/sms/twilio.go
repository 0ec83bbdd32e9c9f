// internal/app/system/sms/twilio.go
package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioGateway sends messages through the Twilio REST API.
type TwilioGateway struct {
	client *twilio.RestClient
	log    *zap.Logger
}

// NewTwilioGateway builds a gateway from account credentials.
func NewTwilioGateway(accountSID, authToken string, logger *zap.Logger) *TwilioGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioGateway{client: client, log: logger}
}

// Send submits one message. The Twilio client has no context plumbing of
// its own, so ctx is only consulted before the call; the HTTP timeout is
// the client's default.
func (g *TwilioGateway) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(msg.From)
	params.SetBody(msg.Body)

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	g.log.Debug("sms accepted by gateway", zap.String("sid", sid), zap.String("to", msg.To))
	return nil
}
