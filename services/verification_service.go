package services

import (
	"context"
	"net/url"
	"strings"

	apperrors "storefront-service/common/errors"
	"storefront-service/common/logger"
	"storefront-service/common/metrics"
	"storefront-service/models"

	"go.uber.org/zap"
)

const (
	RedirectDelaySeconds = 3
	HomePath             = "/"
)

// VerificationService confirms the payment the gateway redirected back with.
type VerificationService struct {
	payments PaymentVerifier
	metrics  metrics.Recorder
}

func NewVerificationService(payments PaymentVerifier, recorder metrics.Recorder) *VerificationService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &VerificationService{payments: payments, metrics: recorder}
}

// Verify reads transaction_id and tx_ref from the callback query and asks the
// backend whether the payment went through. The returned status is always
// terminal. The error is non-nil when verification could not be performed; an
// unpaid transaction is a failed status with a nil error.
func (s *VerificationService) Verify(ctx context.Context, query url.Values) (models.VerificationStatus, error) {
	status := models.NewVerificationStatus()

	transactionID := strings.TrimSpace(query.Get("transaction_id"))
	txRef := strings.TrimSpace(query.Get("tx_ref"))
	if transactionID == "" || txRef == "" {
		status.Fail(apperrors.ErrInvalidPaymentParams.Message, nil)
		_ = s.metrics.RecordCount(ctx, metrics.MetricPaymentFailed, map[string]string{"Reason": "params"})
		return status, apperrors.ErrInvalidPaymentParams
	}

	resp, err := s.payments.VerifyPayment(ctx, txRef, transactionID)
	if err != nil {
		logger.Error(ctx, "Payment verification failed", err,
			zap.String("tx_ref", txRef),
			zap.String("transaction_id", transactionID),
		)
		status.Fail(apperrors.ErrVerificationFailed.Message, nil)
		_ = s.metrics.RecordCount(ctx, metrics.MetricPaymentFailed, map[string]string{"Reason": "backend"})
		return status, apperrors.Wrap(apperrors.ErrVerificationFailed, err)
	}

	details := models.TransactionDetails{
		TransactionID: transactionID,
		Amount:        resp.Amount,
		Status:        resp.Status,
		Reference:     txRef,
	}

	if !resp.Verified {
		logger.Warn(ctx, "Payment not verified",
			zap.String("tx_ref", txRef),
			zap.String("status", resp.Status),
		)
		status.Fail("", &details)
		_ = s.metrics.RecordCount(ctx, metrics.MetricPaymentFailed, map[string]string{"Reason": "unverified"})
		return status, nil
	}

	status.Succeed(details, models.Redirect{URL: HomePath, DelaySeconds: RedirectDelaySeconds})
	_ = s.metrics.RecordCount(ctx, metrics.MetricPaymentSucceeded, nil)
	logger.Info(ctx, "Payment verified",
		zap.String("tx_ref", txRef),
		zap.String("amount", resp.Amount.StringFixed(2)),
	)
	return status, nil
}
