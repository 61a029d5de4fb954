package identity

import (
	"context"
	"sync"

	"antigravity/paywall/internal/service"
)

// Client is a Provider backed by the auth service. It keeps the current
// session in memory and fans change notifications out to subscribers, the way
// a hosted identity SDK does.
type Client struct {
	auth service.AuthService

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(*Session)
	nextID    int
}

func NewClient(auth service.AuthService) *Client {
	return &Client{
		auth:      auth,
		listeners: make(map[int]func(*Session)),
	}
}

func (c *Client) CurrentSession(_ context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

// OnSessionChange registers fn for every future sign-in, sign-out and token
// refresh. The returned Unsubscribe is idempotent.
func (c *Client) OnSessionChange(fn func(*Session)) Unsubscribe {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	c.mu.Lock()
	token := ""
	if c.session != nil {
		token = c.session.AccessToken
	}
	c.mu.Unlock()

	if token == "" {
		return nil, nil
	}

	user, err := c.auth.UserFromAccessToken(ctx, token)
	if err != nil {
		return nil, nil
	}
	return &User{ID: user.ID, Email: user.Email}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	tokens, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.adopt(ctx, email, tokens)
}

// SignUp registers the account and signs it in, so a successful sign-up
// yields a live session.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	if _, err := c.auth.Register(ctx, email, password); err != nil {
		return err
	}
	tokens, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.adopt(ctx, email, tokens)
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := ""
	if c.session != nil {
		refreshToken = c.session.RefreshToken
	}
	c.mu.Unlock()

	if refreshToken != "" {
		// Best effort: the local session is cleared regardless.
		_ = c.auth.Logout(ctx, refreshToken)
	}
	c.setSession(nil)
	return nil
}

// Refresh exchanges the stored refresh token for a new session and notifies
// subscribers.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	var refreshToken, email string
	if c.session != nil {
		refreshToken = c.session.RefreshToken
		email = c.session.Email
	}
	c.mu.Unlock()

	if refreshToken == "" {
		return service.ErrRefreshTokenInvalid
	}
	tokens, err := c.auth.Refresh(ctx, refreshToken)
	if err != nil {
		// The session is gone; tell subscribers.
		c.setSession(nil)
		return err
	}
	return c.adopt(ctx, email, tokens)
}

func (c *Client) adopt(ctx context.Context, email string, tokens *service.TokenSet) error {
	user, err := c.auth.UserFromAccessToken(ctx, tokens.AccessToken)
	if err != nil {
		return err
	}
	c.setSession(&Session{
		UserID:       user.ID,
		Email:        email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
	return nil
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		var copied *Session
		if s != nil {
			v := *s
			copied = &v
		}
		fn(copied)
	}
}

var _ Provider = (*Client)(nil)
