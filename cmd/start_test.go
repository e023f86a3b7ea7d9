package cmd

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
)

type countingMailer struct {
	mu   sync.Mutex
	sent []types.MailMessage
}

func (m *countingMailer) Send(_ context.Context, msg types.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *countingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestMailWorkersOutliveSignal(t *testing.T) {
	signalCtx, cancelSignal := context.WithCancel(context.Background())
	q := service.NewMemoryMailQueue(8, 50*time.Millisecond)
	mailer := &countingMailer{}
	stop := startMailWorkers(signalCtx, q, mailer, 2, 2*time.Second)

	cancelSignal()
	// A request still draining after the signal queues its mail.
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(context.Background(), types.MailMessage{To: "asha@example.com", Subject: "Task Updated"}); err != nil {
			t.Fatalf("enqueue after signal: %v", err)
		}
	}
	stop()

	if got := mailer.count(); got != 5 {
		t.Fatalf("sent %d mails, want 5", got)
	}
	if n, _ := q.Len(context.Background()); n != 0 {
		t.Errorf("%d mails left queued", n)
	}
}

func TestMailWorkersStopWithoutDrainBudget(t *testing.T) {
	q := service.NewMemoryMailQueue(4, time.Millisecond)
	stop := startMailWorkers(context.Background(), q, &countingMailer{}, 1, 0)
	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}
}
