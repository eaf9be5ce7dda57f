package services

import (
	"context"

	apperrors "storefront-service/common/errors"
	"storefront-service/common/logger"
	"storefront-service/common/metrics"
	"storefront-service/models"
)

// OrderService reads the order history. Orders are returned in backend order.
type OrderService struct {
	orders  OrderLister
	metrics metrics.Recorder
}

func NewOrderService(orders OrderLister, recorder metrics.Recorder) *OrderService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &OrderService{orders: orders, metrics: recorder}
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to fetch orders", err)
		_ = s.metrics.RecordCount(ctx, metrics.MetricOrdersFetchFailed, nil)
		return nil, apperrors.Wrap(apperrors.ErrOrdersUnavailable, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
