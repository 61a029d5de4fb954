// Package identity defines the identity provider boundary the storefront,
// session guard and entitlement poller consult for authentication state.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Session is proof of authentication. AccessToken is the bearer credential
// presented to authorize follow-on calls; it is observed, never mutated, by
// consumers.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
}

// User is the authenticated principal behind a session.
type User struct {
	ID    uuid.UUID
	Email string
}

// Unsubscribe releases a session-change subscription.
type Unsubscribe func()

// Provider exposes the current session, session-change notifications and the
// sign-in lifecycle. A nil session means "not authenticated"; provider errors
// on reads are treated the same way by consumers.
type Provider interface {
	CurrentSession(ctx context.Context) (*Session, error)
	OnSessionChange(fn func(*Session)) Unsubscribe
	CurrentUser(ctx context.Context) (*User, error)
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}
