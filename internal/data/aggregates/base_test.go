package aggregates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/platform/dbctx"
)

// serialRunner runs bodies one at a time, like the job row lock does.
type serialRunner struct{ mu sync.Mutex }

func (r *serialRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(dbctx.Context{Ctx: ctx})
}

type countingHooks struct {
	mu        sync.Mutex
	statuses  map[string][]string
	conflicts map[string]int
	retries   map[string]int
}

func newCountingHooks() *countingHooks {
	return &countingHooks{statuses: map[string][]string{}, conflicts: map[string]int{}, retries: map[string]int{}}
}

func (h *countingHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses[name] = append(h.statuses[name], status)
}

func (h *countingHooks) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conflicts[name]++
}

func (h *countingHooks) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retries[name]++
}

func TestExecuteWriteCountsLosingPinAsConflict(t *testing.T) {
	const op = "Documents.Version.Pin"
	hooks := newCountingHooks()
	deps := BaseDeps{Runner: &serialRunner{}, Hooks: hooks}

	// The first pin takes the slot; the second hits the one-pin-per-job index.
	pinned := false
	pin := func(dbctx.Context) error {
		if pinned {
			return errors.New(`ERROR: duplicate key value violates unique constraint "ux_resume_versions_pinned" (SQLSTATE 23505)`)
		}
		pinned = true
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = executeWrite(context.Background(), deps, op, pin)
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		failed++
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			t.Fatalf("losing pin: want conflict, got %v", err)
		}
		var aggErr *domainagg.Error
		if !errors.As(err, &aggErr) || aggErr.Op != op {
			t.Fatalf("losing pin op: got %v", err)
		}
	}
	if failed != 1 {
		t.Fatalf("want exactly one losing pin, got %d", failed)
	}
	if hooks.conflicts[op] != 1 || hooks.retries[op] != 0 {
		t.Fatalf("hooks conflicts=%d retries=%d", hooks.conflicts[op], hooks.retries[op])
	}
	if len(hooks.statuses[op]) != 2 {
		t.Fatalf("want two observed pins, got %v", hooks.statuses[op])
	}
}

func TestExecuteWriteReportsTerminalProposalAsInvariant(t *testing.T) {
	const op = "Profile.Proposal.Accept"
	hooks := newCountingHooks()

	err := executeWrite(context.Background(), BaseDeps{Runner: &serialRunner{}, Hooks: hooks}, op, func(dbctx.Context) error {
		return RequireStatusAllowed("rejected", "Proposal is already rejected", "pending")
	})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("want invariant violation, got %v", err)
	}
	if msg := domainagg.MessageOf(err); msg != "Proposal is already rejected" {
		t.Fatalf("message: got %q", msg)
	}
	if got := hooks.statuses[op]; len(got) != 1 || got[0] != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("statuses: %v", got)
	}
	if hooks.conflicts[op] != 0 {
		t.Fatalf("terminal proposal must not count as a conflict")
	}
}

func TestExecuteWriteCountsLockTimeoutsAsRetries(t *testing.T) {
	const op = "Documents.Version.Create"
	hooks := newCountingHooks()

	err := executeWrite(context.Background(), BaseDeps{Runner: &serialRunner{}, Hooks: hooks}, op, func(dbctx.Context) error {
		return errors.New("database is locked")
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("want retryable, got %v", err)
	}
	if hooks.retries[op] != 1 || hooks.conflicts[op] != 0 {
		t.Fatalf("hooks retries=%d conflicts=%d", hooks.retries[op], hooks.conflicts[op])
	}
}

func TestExecuteWriteDefaultsOpName(t *testing.T) {
	hooks := newCountingHooks()
	if err := executeWrite(context.Background(), BaseDeps{Runner: &serialRunner{}, Hooks: hooks}, "  ", func(dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if got := hooks.statuses["aggregate.write"]; len(got) != 1 || got[0] != "success" {
		t.Fatalf("statuses: %v", hooks.statuses)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{InvariantError("Proposal is already accepted"), string(domainagg.CodeInvariantViolation)},
		{ConflictError("Resume version changed while pinning"), string(domainagg.CodeConflict)},
		{ValidationError("job_id is required"), string(domainagg.CodeValidation)},
		{context.DeadlineExceeded, string(domainagg.CodeRetryable)},
	}
	for _, tc := range cases {
		if got := aggregateErrorStatus(tc.err); got != tc.want {
			t.Fatalf("aggregateErrorStatus(%v): want=%s got=%s", tc.err, tc.want, got)
		}
	}
}
