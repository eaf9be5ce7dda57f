package services

import (
	"context"
	"fmt"
	"net/url"

	apperrors "storefront-service/common/errors"
	"storefront-service/common/logger"
	"storefront-service/common/metrics"
	"storefront-service/models"

	"go.uber.org/zap"
)

// CheckoutService hands a cart over to the payment backend and returns the hosted
// payment page the customer must be sent to.
type CheckoutService struct {
	payments PaymentInitiator
	metrics  metrics.Recorder
}

func NewCheckoutService(payments PaymentInitiator, recorder metrics.Recorder) *CheckoutService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &CheckoutService{payments: payments, metrics: recorder}
}

// Initiate sends the cart contents and total to the backend. Every failure is
// reported as ErrPaymentProcessing and the call is never retried.
func (s *CheckoutService) Initiate(ctx context.Context, cart *models.Cart) (string, error) {
	if cart == nil || cart.IsEmpty() {
		return "", apperrors.ErrEmptyCart
	}

	req := models.NewPaymentRequest(cart)
	resp, err := s.payments.InitiatePayment(ctx, req)
	if err != nil {
		return "", s.fail(ctx, err, cart)
	}
	if err := validateLink(resp.Data.Link); err != nil {
		return "", s.fail(ctx, err, cart)
	}

	_ = s.metrics.RecordCount(ctx, metrics.MetricCartCheckouts, nil)
	logger.Info(ctx, "Payment initiated",
		zap.Int("items", cart.Len()),
		zap.String("total", cart.Total().StringFixed(2)),
	)
	return resp.Data.Link, nil
}

func (s *CheckoutService) fail(ctx context.Context, err error, cart *models.Cart) error {
	_ = s.metrics.RecordCount(ctx, metrics.MetricCheckoutFailed, nil)
	logger.Error(ctx, "Payment initiation failed", err,
		zap.Int("items", cart.Len()),
		zap.String("total", cart.Total().StringFixed(2)),
	)
	return apperrors.Wrap(apperrors.ErrPaymentProcessing, err)
}

func validateLink(link string) error {
	if link == "" {
		return fmt.Errorf("payment link missing from response")
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid payment link: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid payment link %q", link)
	}
	return nil
}
