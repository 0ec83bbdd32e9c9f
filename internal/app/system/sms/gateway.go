// Package sms sends outbound text messages through an external gateway.
//
// The Gateway interface is what the outbox dispatcher depends on; the
// Twilio client implements it for real delivery and LogGateway stands in
// for it in dev and tests.
package sms

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MaxSenderIDLen is the gateway limit on alphanumeric sender ids.
const MaxSenderIDLen = 11

var ErrBadSenderID = errors.New("sms sender id must be 1-11 characters")

// Message is one outbound SMS.
type Message struct {
	To   string // E.164-ish, "+" and digits
	From string // sender id, <= 11 chars
	Body string
}

// Gateway delivers a message. Implementations return an error on
// delivery rejection; callers log it and record the failure, they never
// retry synchronously.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// ValidateSenderID checks the configured sender id against the gateway
// limit. Called once at startup so a bad value fails fast.
func ValidateSenderID(id string) error {
	if id == "" || len(id) > MaxSenderIDLen {
		return fmt.Errorf("%w: %q", ErrBadSenderID, id)
	}
	return nil
}

// LogGateway logs messages instead of sending them. Used when
// sms_enabled is false (local dev) and in tests.
type LogGateway struct {
	Log *zap.Logger
}

func (g *LogGateway) Send(_ context.Context, msg Message) error {
	g.Log.Info("sms suppressed (gateway disabled)",
		zap.String("to", msg.To),
		zap.String("from", msg.From),
		zap.String("body", msg.Body))
	return nil
}
