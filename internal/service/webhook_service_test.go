package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"antigravity/paywall/internal/model"
	"antigravity/paywall/internal/repository"
)

type memEntitlementRepo struct {
	mu      sync.Mutex
	granted map[string]model.Entitlement // key: userID|productID
}

func newMemEntitlementRepo() *memEntitlementRepo {
	return &memEntitlementRepo{granted: make(map[string]model.Entitlement)}
}

func (r *memEntitlementRepo) ExistsForUser(_ context.Context, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.granted {
		if e.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memEntitlementRepo) Grant(_ context.Context, e *model.Entitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := e.UserID.String() + "|" + e.ProductID
	if _, ok := r.granted[key]; !ok {
		r.granted[key] = *e
	}
	return nil
}

func (r *memEntitlementRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]model.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Entitlement
	for _, e := range r.granted {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEntitlementRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.granted)
}

var _ repository.EntitlementRepository = (*memEntitlementRepo)(nil)

func TestSeenRecordsEventKey(t *testing.T) {
	svc := NewWebhookService(newMemOrderRepo(), newMemEntitlementRepo(), repository.NewMemoryStateStore(), zap.NewNop())
	ctx := context.Background()

	seen, err := svc.Seen(ctx, "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = svc.Seen(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, seen, "second delivery is a duplicate")

	seen, err = svc.Seen(ctx, "evt-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestHandleCheckoutCompletedGrantsEntitlement(t *testing.T) {
	orders := newMemOrderRepo()
	entitlements := newMemEntitlementRepo()
	svc := NewWebhookService(orders, entitlements, repository.NewMemoryStateStore(), zap.NewNop())
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, orders.CreatePending(ctx, &model.Order{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: "prod-1",
		RequestID: "req-1",
	}))

	err := svc.HandleCheckoutCompleted(ctx, CheckoutCompletedEvent{
		RequestID:       "req-1",
		OrderStatus:     "paid",
		CreemOrderID:    "ord-1",
		CreemCheckoutID: "chk-1",
		AmountCents:     1500,
		Currency:        "USD",
	})
	require.NoError(t, err)

	order := orders.byRequestID("req-1")
	require.NotNil(t, order)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Equal(t, "ord-1", order.CreemOrderID)
	assert.Equal(t, 1500, order.AmountCents)

	unlocked, err := entitlements.ExistsForUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestHandleCheckoutCompletedIsIdempotent(t *testing.T) {
	orders := newMemOrderRepo()
	entitlements := newMemEntitlementRepo()
	svc := NewWebhookService(orders, entitlements, repository.NewMemoryStateStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, orders.CreatePending(ctx, &model.Order{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: "prod-1",
		RequestID: "req-1",
	}))

	event := CheckoutCompletedEvent{RequestID: "req-1", OrderStatus: "paid"}
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, event))
	require.NoError(t, svc.HandleCheckoutCompleted(ctx, event))

	assert.Equal(t, 1, entitlements.count())
}

func TestHandleCheckoutCompletedIgnoresUnknownOrder(t *testing.T) {
	entitlements := newMemEntitlementRepo()
	svc := NewWebhookService(newMemOrderRepo(), entitlements, repository.NewMemoryStateStore(), zap.NewNop())

	err := svc.HandleCheckoutCompleted(context.Background(), CheckoutCompletedEvent{
		RequestID:   "unknown",
		OrderStatus: "paid",
	})

	require.NoError(t, err)
	assert.Zero(t, entitlements.count())
}

func TestHandleCheckoutCompletedIgnoresUnpaidStatus(t *testing.T) {
	orders := newMemOrderRepo()
	entitlements := newMemEntitlementRepo()
	svc := NewWebhookService(orders, entitlements, repository.NewMemoryStateStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, orders.CreatePending(ctx, &model.Order{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: "prod-1",
		RequestID: "req-1",
	}))

	require.NoError(t, svc.HandleCheckoutCompleted(ctx, CheckoutCompletedEvent{
		RequestID:   "req-1",
		OrderStatus: "open",
	}))

	assert.Equal(t, model.OrderStatusPending, orders.byRequestID("req-1").Status)
	assert.Zero(t, entitlements.count())
}
