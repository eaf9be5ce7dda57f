package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// OrderItem is a line of a stored order as returned by the backend.
type OrderItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a backend-owned purchase record. The storefront only reads it.
type Order struct {
	ID                       string                 `json:"id"`
	CustomerID               string                 `json:"customerId"`
	Amount                   decimal.Decimal        `json:"amount"`
	Currency                 string                 `json:"currency"`
	CustomerEmail            string                 `json:"customerEmail"`
	CustomerPhone            string                 `json:"customerPhone"`
	CustomerName             string                 `json:"customerName"`
	TransactionReference     string                 `json:"transactionReference"`
	FlutterwaveTransactionID string                 `json:"flutterwaveTransactionId"`
	Status                   string                 `json:"status"`
	CartItems                []OrderItem            `json:"cartItems"`
	PaymentResponse          map[string]interface{} `json:"paymentResponse,omitempty"`
	CreatedAt                time.Time              `json:"createdAt"`
	UpdatedAt                time.Time              `json:"updatedAt"`
}

// FormattedTotal renders the order total as "<currency> <amount>", e.g. "NGN 25.98".
func (o Order) FormattedTotal() string {
	return o.Currency + " " + o.Amount.StringFixed(2)
}

// StatusClass maps the order status onto one of the three badge styles.
func (o Order) StatusClass() string {
	switch o.Status {
	case OrderStatusPaid:
		return "paid"
	case OrderStatusPending:
		return "pending"
	default:
		return "failed"
	}
}
