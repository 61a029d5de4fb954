// Package entitlement confirms purchase fulfillment after a checkout
// redirect: a bounded poll against the entitlement store resolves to exactly
// one terminal outcome.
package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"antigravity/paywall/internal/identity"
)

// The fulfilling webhook usually lands within a few seconds of the redirect,
// so five attempts 1.5 s apart cover the common case.
const (
	maxAttempts = 5
	pollDelay   = 1500 * time.Millisecond
)

type PollOutcome int

const (
	OutcomeProcessing PollOutcome = iota
	OutcomeUnlocked
	OutcomePending
	OutcomeFailed
)

func (o PollOutcome) String() string {
	switch o {
	case OutcomeProcessing:
		return "processing"
	case OutcomeUnlocked:
		return "unlocked"
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further attempts follow this outcome.
func (o PollOutcome) Terminal() bool {
	return o != OutcomeProcessing
}

// Result is the poller's displayed status.
type Result struct {
	Outcome PollOutcome
	Message string
}

// Store is the entitlement existence query the poller issues. Satisfied by
// repository.EntitlementRepository.
type Store interface {
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Poller runs the bounded entitlement confirmation loop. Each Run is
// independent; re-running after a remount is safe. Close suppresses visible
// updates from a run still in flight without aborting it.
type Poller struct {
	provider identity.Provider
	store    Store
	onUpdate func(Result)

	// sleep is swapped in tests; the fixed delay itself is not configurable.
	sleep func(time.Duration)

	mu     sync.Mutex
	closed bool
	result Result
}

// New creates a Poller. onUpdate, if non-nil, receives the displayed status
// changes, including the initial processing state when Run begins.
func New(provider identity.Provider, store Store, onUpdate func(Result)) *Poller {
	return &Poller{
		provider: provider,
		store:    store,
		onUpdate: onUpdate,
		sleep:    time.Sleep,
		result:   Result{Outcome: OutcomeProcessing, Message: "Processing payment..."},
	}
}

// Run polls the entitlement store until a terminal outcome is reached:
// unlocked as soon as a record exists, failed on a missing user session or a
// store error, pending when all attempts see no record. Attempts are strictly
// sequential with a fixed delay between them.
func (p *Poller) Run(ctx context.Context) Result {
	p.commit(Result{Outcome: OutcomeProcessing, Message: "Processing payment..."})

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		user, err := p.provider.CurrentUser(ctx)
		if err != nil || user == nil {
			// Retrying cannot conjure an identity mid-run.
			return p.commit(Result{Outcome: OutcomeFailed, Message: "No active user session."})
		}

		exists, err := p.store.ExistsForUser(ctx, user.ID)
		if err != nil {
			// A store error is fatal for this run, never masked by retrying.
			return p.commit(Result{Outcome: OutcomeFailed, Message: err.Error()})
		}
		if exists {
			return p.commit(Result{Outcome: OutcomeUnlocked, Message: "Unlocked"})
		}

		if attempt < maxAttempts {
			p.sleep(pollDelay)
		}
	}

	return p.commit(Result{Outcome: OutcomePending, Message: "Still processing, refresh later"})
}

// Result returns the last committed displayed status.
func (p *Poller) Result() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Close stops visible updates. An in-flight attempt or delay runs to
// completion silently.
func (p *Poller) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Poller) commit(r Result) Result {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return r
	}
	p.result = r
	notify := p.onUpdate
	p.mu.Unlock()

	if notify != nil {
		notify(r)
	}
	return r
}
