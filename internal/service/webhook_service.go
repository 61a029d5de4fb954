package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"antigravity/paywall/internal/model"
	"antigravity/paywall/internal/repository"
)

// webhookEventTTL bounds how long processed event keys are remembered.
// Creem retries deliveries for at most a few days.
const webhookEventTTL = 30 * 24 * time.Hour

// CheckoutCompletedEvent is the parsed payload of a checkout.completed delivery.
type CheckoutCompletedEvent struct {
	RequestID       string
	OrderStatus     string
	CreemOrderID    string
	CreemCheckoutID string
	AmountCents     int
	Currency        string
}

type WebhookService interface {
	// Seen reports whether an event key was already processed and, if not,
	// records it so redelivery becomes a no-op.
	Seen(ctx context.Context, eventKey string) (bool, error)

	// HandleCheckoutCompleted settles the order and grants the entitlement.
	// Unknown request ids and non-paid statuses are ignored.
	HandleCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error
}

type webhookService struct {
	orderRepo       repository.OrderRepository
	entitlementRepo repository.EntitlementRepository
	stateStore      repository.StateStore
	logger          *zap.Logger
}

func NewWebhookService(
	orderRepo repository.OrderRepository,
	entitlementRepo repository.EntitlementRepository,
	stateStore repository.StateStore,
	logger *zap.Logger,
) WebhookService {
	return &webhookService{
		orderRepo:       orderRepo,
		entitlementRepo: entitlementRepo,
		stateStore:      stateStore,
		logger:          logger,
	}
}

func eventKeyKey(eventKey string) string {
	return "webhook:" + eventKey
}

func (s *webhookService) Seen(ctx context.Context, eventKey string) (bool, error) {
	stored, err := s.stateStore.SetIfAbsent(ctx, eventKeyKey(eventKey), []byte("1"), webhookEventTTL)
	if err != nil {
		return false, fmt.Errorf("record event key: %w", err)
	}
	return !stored, nil
}

func (s *webhookService) HandleCheckoutCompleted(ctx context.Context, event CheckoutCompletedEvent) error {
	if event.RequestID == "" || event.OrderStatus != "paid" {
		return nil
	}

	order, err := s.orderRepo.GetByRequestID(ctx, event.RequestID)
	if err != nil {
		return fmt.Errorf("lookup order: %w", err)
	}
	if order == nil {
		s.logger.Warn("webhook for unknown order", zap.String("request_id", event.RequestID))
		return nil
	}

	if err := s.orderRepo.MarkPaid(ctx, event.RequestID, repository.PaidDetails{
		CreemCheckoutID: event.CreemCheckoutID,
		CreemOrderID:    event.CreemOrderID,
		AmountCents:     event.AmountCents,
		Currency:        event.Currency,
	}); err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	if err := s.entitlementRepo.Grant(ctx, &model.Entitlement{
		ID:        uuid.New(),
		UserID:    order.UserID,
		ProductID: order.ProductID,
	}); err != nil {
		return fmt.Errorf("grant entitlement: %w", err)
	}

	s.logger.Info("entitlement granted",
		zap.String("user_id", order.UserID.String()),
		zap.String("product_id", order.ProductID),
	)
	return nil
}

var _ WebhookService = (*webhookService)(nil)
