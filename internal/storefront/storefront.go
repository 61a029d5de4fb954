// Package storefront holds the buy-flow logic behind the product listing:
// loading the catalog, starting a checkout with a fresh bearer credential and
// redirecting to the hosted checkout page.
package storefront

import (
	"context"
	"errors"
	"sync"

	"antigravity/paywall/internal/identity"
	"antigravity/paywall/internal/model"
)

// ErrSessionExpired is surfaced when the buy action finds no bearer
// credential; the message is shown to the user verbatim.
var ErrSessionExpired = errors.New("Session expired. Please sign in again.")

// ErrBusy rejects a second buy for a product whose checkout is already being
// created.
var ErrBusy = errors.New("checkout already in progress")

// Catalog lists purchasable products. Satisfied by
// repository.ProductRepository.
type Catalog interface {
	ListActive(ctx context.Context) ([]model.Product, error)
}

// CheckoutStarter requests a hosted checkout URL. Satisfied by
// checkout.Client.
type CheckoutStarter interface {
	CreateCheckout(ctx context.Context, accessToken, productID string) (string, error)
}

// Navigator performs a full-page redirect, either to an absolute checkout URL
// or an internal path.
type Navigator interface {
	Redirect(url string)
}

type Storefront struct {
	provider identity.Provider
	catalog  Catalog
	checkout CheckoutStarter
	nav      Navigator

	mu     sync.Mutex
	busyID string
}

func New(provider identity.Provider, catalog Catalog, checkout CheckoutStarter, nav Navigator) *Storefront {
	return &Storefront{
		provider: provider,
		catalog:  catalog,
		checkout: checkout,
		nav:      nav,
	}
}

// LoadProducts returns the active catalog.
func (s *Storefront) LoadProducts(ctx context.Context) ([]model.Product, error) {
	return s.catalog.ListActive(ctx)
}

// Busy reports whether a checkout for the product is being created.
func (s *Storefront) Busy(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busyID == productID
}

// Buy starts a checkout for the product. The session is re-read at call time,
// not taken from guard state, since it can expire between render and action;
// without a bearer credential the action fails locally and no request is
// issued. On success the navigator leaves for the checkout URL; on failure
// the busy state is cleared and the error is surfaced.
func (s *Storefront) Buy(ctx context.Context, productID string) error {
	s.mu.Lock()
	if s.busyID != "" {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busyID = productID
	s.mu.Unlock()

	session, err := s.provider.CurrentSession(ctx)
	if err != nil || session == nil || session.AccessToken == "" {
		s.clearBusy()
		return ErrSessionExpired
	}

	checkoutURL, err := s.checkout.CreateCheckout(ctx, session.AccessToken, productID)
	if err != nil {
		s.clearBusy()
		return err
	}

	s.nav.Redirect(checkoutURL)
	return nil
}

// SignOut ends the session and navigates back to the login page.
func (s *Storefront) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return err
	}
	s.nav.Redirect("/login")
	return nil
}

func (s *Storefront) clearBusy() {
	s.mu.Lock()
	s.busyID = ""
	s.mu.Unlock()
}
