// Package guard renders the access decision that gates protected views: the
// current identity-provider session decides between authorized and
// unauthorized, with a loading state until the session has been read once.
package guard

import (
	"context"
	"sync"

	"antigravity/paywall/internal/identity"
)

type AccessDecision int

const (
	DecisionLoading AccessDecision = iota
	DecisionAuthorized
	DecisionUnauthorized
)

func (d AccessDecision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionAuthorized:
		return "authorized"
	case DecisionUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Guard observes the identity provider's session and exposes a continuously
// updated AccessDecision. While the decision is loading or unauthorized the
// containing navigation layer must not show protected content.
type Guard struct {
	provider identity.Provider
	onChange func(AccessDecision)

	mu            sync.Mutex
	closed        bool
	loading       bool
	authenticated bool
	unsubscribe   identity.Unsubscribe
}

// New creates a Guard. onChange, if non-nil, is invoked after every decision
// change; it runs on the goroutine that triggered the change.
func New(provider identity.Provider, onChange func(AccessDecision)) *Guard {
	return &Guard{
		provider: provider,
		onChange: onChange,
		loading:  true,
	}
}

// Start subscribes to session-change notifications and kicks off the one
// initial session read. The decision stays loading until that read resolves;
// a read resolving after Close is discarded.
func (g *Guard) Start(ctx context.Context) {
	g.mu.Lock()
	g.unsubscribe = g.provider.OnSessionChange(func(s *identity.Session) {
		g.commit(s != nil, false)
	})
	g.mu.Unlock()

	go func() {
		session, err := g.provider.CurrentSession(ctx)
		if err != nil {
			// Provider errors read as "no session".
			session = nil
		}
		g.commit(session != nil, true)
	}()
}

// Decision returns the current access decision.
func (g *Guard) Decision() AccessDecision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decisionLocked()
}

// Close releases the subscription. No decision change is applied afterward.
func (g *Guard) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	unsub := g.unsubscribe
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Guard) commit(authenticated, initialRead bool) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	before := g.decisionLocked()
	g.authenticated = authenticated
	if initialRead {
		g.loading = false
	}
	after := g.decisionLocked()
	notify := g.onChange
	g.mu.Unlock()

	if notify != nil && after != before {
		notify(after)
	}
}

func (g *Guard) decisionLocked() AccessDecision {
	switch {
	case g.loading:
		return DecisionLoading
	case g.authenticated:
		return DecisionAuthorized
	default:
		return DecisionUnauthorized
	}
}
