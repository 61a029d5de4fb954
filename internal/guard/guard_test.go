package guard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antigravity/paywall/internal/identity"
)

// fakeProvider lets tests control when the initial session read resolves and
// push session-change notifications.
type fakeProvider struct {
	mu           sync.Mutex
	session      *identity.Session
	sessionErr   error
	readGate     chan struct{} // CurrentSession blocks until closed, when set
	listeners    []func(*identity.Session)
	unsubscribed int
}

func (f *fakeProvider) CurrentSession(_ context.Context) (*identity.Session, error) {
	if f.readGate != nil {
		<-f.readGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, f.sessionErr
}

func (f *fakeProvider) OnSessionChange(fn func(*identity.Session)) identity.Unsubscribe {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubscribed++
		f.mu.Unlock()
	}
}

func (f *fakeProvider) notify(s *identity.Session) {
	f.mu.Lock()
	fns := append([]func(*identity.Session){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (f *fakeProvider) CurrentUser(_ context.Context) (*identity.User, error) { return nil, nil }
func (f *fakeProvider) SignIn(_ context.Context, _, _ string) error           { return nil }
func (f *fakeProvider) SignUp(_ context.Context, _, _ string) error           { return nil }
func (f *fakeProvider) SignOut(_ context.Context) error                       { return nil }

func waitForDecision(t *testing.T, g *Guard, want AccessDecision) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if g.Decision() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("decision never became %v, still %v", want, g.Decision())
}

func TestGuardStartsLoading(t *testing.T) {
	provider := &fakeProvider{readGate: make(chan struct{})}
	g := New(provider, nil)
	g.Start(context.Background())
	defer g.Close()

	assert.Equal(t, DecisionLoading, g.Decision())
}

func TestGuardAuthorizedAfterInitialRead(t *testing.T) {
	provider := &fakeProvider{session: &identity.Session{UserID: uuid.New(), AccessToken: "tok"}}
	g := New(provider, nil)
	g.Start(context.Background())
	defer g.Close()

	waitForDecision(t, g, DecisionAuthorized)
}

func TestGuardUnauthorizedWithoutSession(t *testing.T) {
	provider := &fakeProvider{}
	g := New(provider, nil)
	g.Start(context.Background())
	defer g.Close()

	waitForDecision(t, g, DecisionUnauthorized)
}

func TestGuardTreatsProviderErrorAsNoSession(t *testing.T) {
	provider := &fakeProvider{
		session:    &identity.Session{UserID: uuid.New()},
		sessionErr: assert.AnError,
	}
	g := New(provider, nil)
	g.Start(context.Background())
	defer g.Close()

	waitForDecision(t, g, DecisionUnauthorized)
}

func TestGuardFollowsNotifications(t *testing.T) {
	provider := &fakeProvider{}
	g := New(provider, nil)
	g.Start(context.Background())
	defer g.Close()
	waitForDecision(t, g, DecisionUnauthorized)

	// Each notification's payload alone determines the decision.
	provider.notify(&identity.Session{UserID: uuid.New()})
	assert.Equal(t, DecisionAuthorized, g.Decision())

	provider.notify(nil)
	assert.Equal(t, DecisionUnauthorized, g.Decision())

	provider.notify(&identity.Session{UserID: uuid.New()})
	assert.Equal(t, DecisionAuthorized, g.Decision())
}

func TestGuardDecisionDependsOnlyOnLastNotification(t *testing.T) {
	provider := &fakeProvider{session: &identity.Session{UserID: uuid.New()}}
	g := New(provider, nil)
	g.Start(context.Background())
	defer g.Close()
	waitForDecision(t, g, DecisionAuthorized)

	sequences := [][]*identity.Session{
		{nil, {UserID: uuid.New()}, nil},
		{{UserID: uuid.New()}, nil, {UserID: uuid.New()}},
	}
	for _, seq := range sequences {
		for _, s := range seq {
			provider.notify(s)
		}
		last := seq[len(seq)-1]
		if last != nil {
			assert.Equal(t, DecisionAuthorized, g.Decision())
		} else {
			assert.Equal(t, DecisionUnauthorized, g.Decision())
		}
	}
}

func TestGuardDiscardsLateInitialRead(t *testing.T) {
	gate := make(chan struct{})
	provider := &fakeProvider{
		session:  &identity.Session{UserID: uuid.New()},
		readGate: gate,
	}

	var changes []AccessDecision
	var mu sync.Mutex
	g := New(provider, func(d AccessDecision) {
		mu.Lock()
		changes = append(changes, d)
		mu.Unlock()
	})
	g.Start(context.Background())

	// Tear down while the initial read is still in flight.
	g.Close()
	close(gate)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, DecisionLoading, g.Decision(), "late read result must not be applied")
	mu.Lock()
	assert.Empty(t, changes, "no change callback after teardown")
	mu.Unlock()
}

func TestGuardCloseReleasesSubscription(t *testing.T) {
	provider := &fakeProvider{}
	g := New(provider, nil)
	g.Start(context.Background())
	waitForDecision(t, g, DecisionUnauthorized)

	g.Close()
	g.Close() // idempotent

	provider.mu.Lock()
	unsubscribed := provider.unsubscribed
	provider.mu.Unlock()
	require.Equal(t, 1, unsubscribed)

	// Notifications after close change nothing.
	provider.notify(&identity.Session{UserID: uuid.New()})
	assert.Equal(t, DecisionUnauthorized, g.Decision())
}

func TestGuardOnChangeFires(t *testing.T) {
	provider := &fakeProvider{session: &identity.Session{UserID: uuid.New()}}

	var mu sync.Mutex
	var changes []AccessDecision
	g := New(provider, func(d AccessDecision) {
		mu.Lock()
		changes = append(changes, d)
		mu.Unlock()
	})
	g.Start(context.Background())
	defer g.Close()
	waitForDecision(t, g, DecisionAuthorized)

	provider.notify(nil)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []AccessDecision{DecisionAuthorized, DecisionUnauthorized}, changes)
}
