package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// recorder is a goroutine-safe DeliverFunc that keeps everything it receives.
type recorder struct {
	mu       sync.Mutex
	received []string
	fail     error
}

func (r *recorder) deliver(ctx context.Context, fragment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.received = append(r.received, fragment)
	return nil
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.received))
	copy(out, r.received)
	return out
}

func TestRegistry_AddRemove(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}

	reg.Add("a", rec.deliver)
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}

	// Re-registering the same id replaces, not duplicates.
	reg.Add("a", rec.deliver)
	if reg.Len() != 1 {
		t.Fatalf("Len after re-add = %d, want 1", reg.Len())
	}

	reg.Remove("a")
	if reg.Len() != 0 {
		t.Fatalf("Len after remove = %d, want 0", reg.Len())
	}

	// Removing an absent id is a no-op.
	reg.Remove("a")
}

func TestRegistry_BroadcastReachesAll(t *testing.T) {
	reg := NewRegistry()
	r1, r2 := &recorder{}, &recorder{}
	reg.Add("1", r1.deliver)
	reg.Add("2", r2.deliver)

	reg.Broadcast(context.Background(), "hello")

	for i, rec := range []*recorder{r1, r2} {
		got := rec.got()
		if len(got) != 1 || got[0] != "hello" {
			t.Errorf("recipient %d got %v, want [hello]", i+1, got)
		}
	}
}

func TestRegistry_RemovedRecipientGetsNothing(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}
	reg.Add("1", rec.deliver)
	reg.Remove("1")

	reg.Broadcast(context.Background(), "hello")

	if got := rec.got(); len(got) != 0 {
		t.Errorf("removed recipient got %v, want nothing", got)
	}
}

func TestRegistry_FailingRecipientDoesNotBlockOthers(t *testing.T) {
	reg := NewRegistry()
	bad := &recorder{fail: errors.New("connection closed")}
	good := &recorder{}
	reg.Add("bad", bad.deliver)
	reg.Add("good", good.deliver)

	reg.Broadcast(context.Background(), "hello")

	if got := good.got(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("healthy recipient got %v, want [hello]", got)
	}
}

func TestRegistry_BroadcastEmpty(t *testing.T) {
	reg := NewRegistry()
	reg.Broadcast(context.Background(), "hello")
}
