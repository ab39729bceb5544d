package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/huddleapp/community-api/internal/core/ports"
)

type recordingMailer struct {
	mu       sync.Mutex
	sent     []ports.Notification
	failures map[string]error
	done     chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{
		failures: make(map[string]error),
		done:     make(chan struct{}, 64),
	}
}

func (m *recordingMailer) Send(_ context.Context, n ports.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.done <- struct{}{} }()
	if err, ok := m.failures[n.To]; ok {
		return err
	}
	m.sent = append(m.sent, n)
	return nil
}

func (m *recordingMailer) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
}

func TestDispatcher_DeliversNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	d := NewDispatcher(2, mailer, zerolog.Nop())
	d.Start(ctx)

	d.Notify(ports.Notification{Template: ports.TemplateVerification, To: "a@example.com", Token: "t1"})
	d.Notify(ports.Notification{Template: ports.TemplateWelcome, To: "b@example.com"})

	mailer.wait(t, 2)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(mailer.sent))
	}
}

func TestDispatcher_PerRecipientOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	d := NewDispatcher(4, mailer, zerolog.Nop())
	d.Start(ctx)

	templates := []ports.NotificationTemplate{
		ports.TemplateVerification,
		ports.TemplatePasswordReset,
		ports.TemplatePasswordChanged,
		ports.TemplateLoginLink,
	}
	for _, tmpl := range templates {
		d.Notify(ports.Notification{Template: tmpl, To: "same@example.com"})
	}

	mailer.wait(t, len(templates))

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	for i, n := range mailer.sent {
		if n.Template != templates[i] {
			t.Fatalf("delivery %d out of order: got %s, want %s", i, n.Template, templates[i])
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	mailer.failures["broken@example.com"] = errors.New("smtp: connection refused")

	d := NewDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)

	d.Notify(ports.Notification{Template: ports.TemplateVerification, To: "broken@example.com"})
	d.Notify(ports.Notification{Template: ports.TemplateVerification, To: "fine@example.com"})

	mailer.wait(t, 2)

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if len(mailer.sent) != 1 || mailer.sent[0].To != "fine@example.com" {
		t.Fatalf("worker must keep delivering after a failure: %+v", mailer.sent)
	}
}

func TestDispatcher_ShardIsStablePerRecipient(t *testing.T) {
	d := NewDispatcher(4, newRecordingMailer(), zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}
