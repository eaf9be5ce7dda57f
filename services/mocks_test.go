package services

import (
	"context"
	"time"

	"storefront-service/models"

	"github.com/stretchr/testify/mock"
)

// --- Mocks for Dependencies ---

type MockBackend struct{ mock.Mock }

func (m *MockBackend) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.InitiatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InitiatePaymentResponse), args.Error(1)
}

func (m *MockBackend) VerifyPayment(ctx context.Context, txRef, transactionID string) (*models.VerifyPaymentResponse, error) {
	args := m.Called(ctx, txRef, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerifyPaymentResponse), args.Error(1)
}

func (m *MockBackend) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	args := m.Called(ctx, metricName, dimensions)
	return args.Error(0)
}

func (m *MockRecorder) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	args := m.Called(ctx, metricName, duration, dimensions)
	return args.Error(0)
}

func linkResponse(link string) *models.InitiatePaymentResponse {
	resp := &models.InitiatePaymentResponse{}
	resp.Data.Link = link
	return resp
}
