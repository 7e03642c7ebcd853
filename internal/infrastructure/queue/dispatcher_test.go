package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/core/domain"
)

type captureRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *captureRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *captureRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestDispatcher_WritesEvents(t *testing.T) {
	repo := &captureRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AuditEvent{Kind: "item", RecordID: 1, Action: domain.AuditCreate, ActorID: 9, Actor: "root"})
	d.Record(domain.AuditEvent{Kind: "user", RecordID: 2, Action: domain.AuditDelete, ActorID: 9, Actor: "root"})

	waitFor(t, func() bool { return len(repo.snapshot()) == 2 })
}

// Events for the same record land on the same worker and keep their order.
func TestDispatcher_PerRecordOrdering(t *testing.T) {
	repo := &captureRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []domain.AuditAction{domain.AuditCreate, domain.AuditUpdate, domain.AuditUpdate, domain.AuditDelete}
	for _, a := range actions {
		d.Record(domain.AuditEvent{Kind: "item", RecordID: 7, Action: a, ActorID: 1, Actor: "root"})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == len(actions) })

	got := repo.snapshot()
	for i, a := range actions {
		if got[i].Action != a {
			t.Fatalf("event %d: expected action %s, got %s", i, a, got[i].Action)
		}
	}
}
