package services

import (
	"context"

	"storefront-service/models"
)

// PaymentInitiator starts a hosted-checkout payment on the backend.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.InitiatePaymentResponse, error)
}

// PaymentVerifier confirms a gateway transaction with the backend.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, txRef, transactionID string) (*models.VerifyPaymentResponse, error)
}

// OrderLister reads the order history from the backend.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}
