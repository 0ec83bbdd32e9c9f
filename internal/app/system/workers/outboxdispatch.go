// internal/app/system/workers/outboxdispatch.go
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/careconnect/careconnect/internal/app/system/phone"
	"github.com/careconnect/careconnect/internal/app/system/sms"
	"github.com/careconnect/careconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OutboxSource is the slice of the notification store the dispatcher
// drives. NextPending must return oldest-first so confirmations go out
// in booking order.
type OutboxSource interface {
	NextPending(ctx context.Context, limit int64) ([]models.Notification, error)
	MarkSent(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, cause string) error
}

// OutboxDispatch is a background worker that delivers pending outbox
// notifications through the SMS gateway. It is the single consumer of the
// outbox collection; run exactly one per process.
type OutboxDispatch struct {
	outbox   OutboxSource
	gateway  sms.Gateway
	from     string
	log      *zap.Logger
	interval time.Duration
	batch    int64
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewOutboxDispatch creates a new outbox dispatch worker.
//
// Parameters:
//   - outbox: the notification store
//   - gateway: the SMS gateway to deliver through
//   - from: the sender id stamped on every message
//   - logger: zap logger for logging
//   - interval: how often to poll for pending notifications (e.g., 10 seconds)
func NewOutboxDispatch(outbox OutboxSource, gateway sms.Gateway, from string, logger *zap.Logger, interval time.Duration) *OutboxDispatch {
	return &OutboxDispatch{
		outbox:   outbox,
		gateway:  gateway,
		from:     from,
		log:      logger,
		interval: interval,
		batch:    25,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background delivery loop.
func (w *OutboxDispatch) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("outbox dispatch worker started",
		zap.Duration("interval", w.interval),
		zap.String("from", w.from))
}

// Stop signals the worker to stop and waits for the in-flight pass to
// finish. Undelivered notifications stay pending for the next start.
func (w *OutboxDispatch) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("outbox dispatch worker stopped")
}

func (w *OutboxDispatch) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			w.DispatchPending(ctx)
			cancel()
		}
	}
}

// DispatchPending delivers one batch of pending notifications. A failed
// send marks the record failed with the cause and moves on; delivery
// errors never propagate past the worker.
func (w *OutboxDispatch) DispatchPending(ctx context.Context) {
	pending, err := w.outbox.NextPending(ctx, w.batch)
	if err != nil {
		w.log.Error("failed to load pending notifications", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	var sent int
	for _, n := range pending {
		if err := w.deliver(ctx, n); err != nil {
			w.log.Warn("notification delivery failed",
				zap.String("notification_id", n.ID.Hex()),
				zap.String("to", n.To),
				zap.Error(err))
			if mErr := w.outbox.MarkFailed(ctx, n.ID, err.Error()); mErr != nil {
				w.log.Error("failed to mark notification failed", zap.Error(mErr))
			}
			continue
		}
		if err := w.outbox.MarkSent(ctx, n.ID); err != nil {
			// The SMS went out; a stuck pending record means one extra
			// send on the next pass, which the gateway tolerates.
			w.log.Error("failed to mark notification sent", zap.Error(err))
			continue
		}
		sent++
	}

	if sent > 0 {
		w.log.Info("delivered notifications", zap.Int("count", sent))
	}
}

var (
	errMissingRecipient = errors.New("notification has no recipient")
	errMissingBody      = errors.New("notification has no body")
)

// deliver sends one notification. A record missing its recipient or
// body never reaches the gateway; the caller marks it failed with the
// distinct cause.
func (w *OutboxDispatch) deliver(ctx context.Context, n models.Notification) error {
	if n.To == "" {
		return errMissingRecipient
	}
	if n.Body == "" {
		return errMissingBody
	}
	return w.gateway.Send(ctx, sms.Message{
		To:   phone.E164(n.To),
		From: w.from,
		Body: n.Body,
	})
}
