package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careconnect/careconnect/internal/app/system/sms"
	"github.com/careconnect/careconnect/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memOutbox struct {
	records map[primitive.ObjectID]*models.Notification
	order   []primitive.ObjectID
}

func newMemOutbox(bodies ...string) *memOutbox {
	m := &memOutbox{records: map[primitive.ObjectID]*models.Notification{}}
	base := time.Now().UTC()
	for i, body := range bodies {
		id := primitive.NewObjectID()
		m.records[id] = &models.Notification{
			ID:        id,
			To:        "60123456789",
			Body:      body,
			Status:    models.NotificationPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		m.order = append(m.order, id)
	}
	return m
}

func (m *memOutbox) NextPending(_ context.Context, limit int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, id := range m.order {
		if int64(len(out)) >= limit {
			break
		}
		if n := m.records[id]; n.Status == models.NotificationPending {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memOutbox) MarkSent(_ context.Context, id primitive.ObjectID) error {
	n, ok := m.records[id]
	if !ok {
		return errors.New("not found")
	}
	n.Status = models.NotificationSent
	n.Attempts++
	return nil
}

func (m *memOutbox) MarkFailed(_ context.Context, id primitive.ObjectID, cause string) error {
	n, ok := m.records[id]
	if !ok {
		return errors.New("not found")
	}
	n.Status = models.NotificationFailed
	n.LastError = cause
	n.Attempts++
	return nil
}

type recordingGateway struct {
	sent   []sms.Message
	failOn string
}

func (g *recordingGateway) Send(_ context.Context, msg sms.Message) error {
	if g.failOn != "" && msg.Body == g.failOn {
		return errors.New("carrier rejected message")
	}
	g.sent = append(g.sent, msg)
	return nil
}

func TestDispatchPendingDeliversInOrder(t *testing.T) {
	outbox := newMemOutbox("first", "second", "third")
	gw := &recordingGateway{}
	w := NewOutboxDispatch(outbox, gw, "CareConnect", zap.NewNop(), time.Minute)

	w.DispatchPending(context.Background())

	if len(gw.sent) != 3 {
		t.Fatalf("sent %d messages, want 3", len(gw.sent))
	}
	for i, want := range []string{"first", "second", "third"} {
		if gw.sent[i].Body != want {
			t.Errorf("message %d body = %q, want %q", i, gw.sent[i].Body, want)
		}
		if gw.sent[i].From != "CareConnect" {
			t.Errorf("message %d from = %q", i, gw.sent[i].From)
		}
		if gw.sent[i].To != "+60123456789" {
			t.Errorf("message %d to = %q, want %q", i, gw.sent[i].To, "+60123456789")
		}
	}
	for _, n := range outbox.records {
		if n.Status != models.NotificationSent {
			t.Errorf("record %s status = %q, want sent", n.ID.Hex(), n.Status)
		}
	}
}

func TestDispatchPendingMarksFailureAndContinues(t *testing.T) {
	outbox := newMemOutbox("ok-1", "bad", "ok-2")
	gw := &recordingGateway{failOn: "bad"}
	w := NewOutboxDispatch(outbox, gw, "CareConnect", zap.NewNop(), time.Minute)

	w.DispatchPending(context.Background())

	if len(gw.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(gw.sent))
	}
	var failed, sent int
	for _, n := range outbox.records {
		switch n.Status {
		case models.NotificationFailed:
			failed++
			if n.LastError == "" {
				t.Error("failed record missing cause")
			}
		case models.NotificationSent:
			sent++
		}
	}
	if failed != 1 || sent != 2 {
		t.Errorf("failed=%d sent=%d, want 1 and 2", failed, sent)
	}
}

func TestDispatchPendingRejectsIncompleteRecords(t *testing.T) {
	outbox := newMemOutbox("no recipient", "", "delivered")
	outbox.records[outbox.order[0]].To = ""
	gw := &recordingGateway{}
	w := NewOutboxDispatch(outbox, gw, "CareConnect", zap.NewNop(), time.Minute)

	w.DispatchPending(context.Background())

	if len(gw.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(gw.sent))
	}
	if gw.sent[0].Body != "delivered" {
		t.Errorf("delivered body = %q", gw.sent[0].Body)
	}

	noRecipient := outbox.records[outbox.order[0]]
	if noRecipient.Status != models.NotificationFailed || noRecipient.LastError != errMissingRecipient.Error() {
		t.Errorf("recipientless record: status=%q cause=%q", noRecipient.Status, noRecipient.LastError)
	}
	noBody := outbox.records[outbox.order[1]]
	if noBody.Status != models.NotificationFailed || noBody.LastError != errMissingBody.Error() {
		t.Errorf("bodyless record: status=%q cause=%q", noBody.Status, noBody.LastError)
	}
}

func TestDispatchPendingEmptyOutboxIsQuiet(t *testing.T) {
	outbox := newMemOutbox()
	gw := &recordingGateway{}
	w := NewOutboxDispatch(outbox, gw, "CareConnect", zap.NewNop(), time.Minute)

	w.DispatchPending(context.Background())

	if len(gw.sent) != 0 {
		t.Errorf("sent %d messages from empty outbox", len(gw.sent))
	}
}

func TestStartStopDrainsLoop(t *testing.T) {
	outbox := newMemOutbox("hello")
	gw := &recordingGateway{}
	w := NewOutboxDispatch(outbox, gw, "CareConnect", zap.NewNop(), 5*time.Millisecond)

	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()

	if len(gw.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(gw.sent))
	}
}
