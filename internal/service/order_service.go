package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"antigravity/paywall/internal/model"
	"antigravity/paywall/internal/payment"
	"antigravity/paywall/internal/repository"
)

// PaymentClient is the slice of the payment provider used by checkout creation.
type PaymentClient interface {
	CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.Checkout, error)
}

type OrderService interface {
	// CreateCheckout creates a pending order for the product and returns the
	// hosted checkout URL the buyer is redirected to.
	CreateCheckout(ctx context.Context, user *model.User, productID string) (string, error)
}

type orderService struct {
	productRepo     repository.ProductRepository
	orderRepo       repository.OrderRepository
	payments        PaymentClient
	frontendBaseURL string
	logger          *zap.Logger
}

func NewOrderService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	payments PaymentClient,
	frontendBaseURL string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		productRepo:     productRepo,
		orderRepo:       orderRepo,
		payments:        payments,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		logger:          logger,
	}
}

func (s *orderService) CreateCheckout(ctx context.Context, user *model.User, productID string) (string, error) {
	product, err := s.productRepo.GetActiveByID(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("lookup product: %w", err)
	}
	if product == nil {
		return "", ErrProductNotFound
	}

	requestID := strings.ReplaceAll(uuid.New().String(), "-", "")
	order := &model.Order{
		ID:        uuid.New(),
		UserID:    user.ID,
		ProductID: product.ID,
		RequestID: requestID,
	}
	if err := s.orderRepo.CreatePending(ctx, order); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	checkout, err := s.payments.CreateCheckout(ctx, payment.CheckoutRequest{
		ProductID:  product.CreemProductID,
		RequestID:  requestID,
		SuccessURL: s.frontendBaseURL + "/success",
		Customer:   payment.Customer{Email: user.Email},
		Metadata: map[string]string{
			"user_id":    user.ID.String(),
			"product_id": product.ID,
			"request_id": requestID,
		},
	})
	if err != nil {
		s.logger.Warn("checkout creation failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		if markErr := s.orderRepo.MarkFailed(ctx, requestID); markErr != nil {
			s.logger.Error("failed to mark order failed", zap.String("request_id", requestID), zap.Error(markErr))
		}
		return "", ErrCheckoutUnavailable
	}

	if err := s.orderRepo.SetCheckoutID(ctx, requestID, checkout.ID); err != nil {
		s.logger.Error("failed to record checkout id", zap.String("request_id", requestID), zap.Error(err))
	}

	return checkout.CheckoutURL, nil
}

var _ OrderService = (*orderService)(nil)
