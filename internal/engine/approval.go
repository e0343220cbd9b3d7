package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/auto-applier/internal/filler"
)

// UnknownHandleError reports a ResumeApproval call against a handle that was
// never issued, was already resumed, or has expired. Resuming twice is a
// programmer error and fails loudly.
type UnknownHandleError struct {
	Handle string
}

func (e *UnknownHandleError) Error() string {
	return fmt.Sprintf("unknown approval handle %q: never issued, already resumed, or expired", e.Handle)
}

// heldAttempt is one suspended supervised attempt awaiting a reviewer.
type heldAttempt struct {
	held      *filler.Held
	userID    string
	jobID     string
	expiresAt time.Time
}

// approvalRegistry tracks held attempts by handle. Handles are single use:
// take removes the entry, so a second resume finds nothing.
type approvalRegistry struct {
	ttl time.Duration

	mu   sync.Mutex
	held map[string]*heldAttempt
}

func newApprovalRegistry(ttl time.Duration) *approvalRegistry {
	return &approvalRegistry{
		ttl:  ttl,
		held: make(map[string]*heldAttempt),
	}
}

func (r *approvalRegistry) put(h *filler.Held, userID, jobID string) string {
	entry := &heldAttempt{held: h, userID: userID, jobID: jobID}
	if r.ttl > 0 {
		entry.expiresAt = time.Now().Add(r.ttl)
	}

	handle := uuid.NewString()
	r.mu.Lock()
	r.held[handle] = entry
	r.mu.Unlock()
	return handle
}

func (r *approvalRegistry) take(handle string) (*heldAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.held[handle]
	if !ok {
		return nil, &UnknownHandleError{Handle: handle}
	}
	delete(r.held, handle)
	return entry, nil
}

// expired removes and returns every entry whose deadline has passed.
func (r *approvalRegistry) expired(now time.Time) []*heldAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*heldAttempt
	for handle, entry := range r.held {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			out = append(out, entry)
			delete(r.held, handle)
		}
	}
	return out
}

// drain removes and returns everything, expired or not.
func (r *approvalRegistry) drain() []*heldAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*heldAttempt, 0, len(r.held))
	for handle, entry := range r.held {
		out = append(out, entry)
		delete(r.held, handle)
	}
	return out
}

// janitor reclaims held pages whose reviewer never responded. Without it a
// forgotten supervised attempt would pin a browser page forever. The stop
// channel arrives as a parameter so Close never races a field re-read.
func (e *Engine) janitor(stop <-chan struct{}) {
	interval := e.opts.ApprovalTTL / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.sweepApprovals(time.Now())
		case <-stop:
			return
		}
	}
}

// sweepApprovals expires every overdue held attempt, closing its page and
// persisting the failure. Returns how many were reclaimed.
func (e *Engine) sweepApprovals(now time.Time) int {
	expired := e.approvals.expired(now)
	for _, entry := range expired {
		e.expireHeld(context.Background(), entry)
	}
	return len(expired)
}

func (e *Engine) expireHeld(ctx context.Context, entry *heldAttempt) {
	result := e.filler.Expire(entry.held)
	e.persist(ctx, entry.userID, entry.jobID, result)
	e.logger.Info("held approval expired",
		zap.String("user_id", entry.userID),
		zap.String("job_id", entry.jobID),
		zap.Duration("held_for", time.Since(entry.held.CreatedAt).Round(time.Second)))
}
