package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentItem is a cart entry as sent to the payment-initiation endpoint.
type PaymentItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
}

// PaymentRequest is the body of POST /initiate-payment.
type PaymentRequest struct {
	Items       []PaymentItem `json:"items"`
	TotalAmount float64       `json:"totalAmount"`
}

// NewPaymentRequest serializes the cart contents and total. Amounts stay exact
// decimals until this point and are converted to JSON numbers here.
func NewPaymentRequest(cart *Cart) PaymentRequest {
	items := make([]PaymentItem, 0, len(cart.Items))
	for _, entry := range cart.Items {
		items = append(items, PaymentItem{
			ID:          entry.ID,
			Name:        entry.Name,
			Price:       entry.Price.InexactFloat64(),
			Description: entry.Description,
			Quantity:    entry.Quantity,
		})
	}
	return PaymentRequest{
		Items:       items,
		TotalAmount: cart.Total().InexactFloat64(),
	}
}

// InitiatePaymentResponse is the response of POST /initiate-payment. Only the
// hosted payment link is read.
type InitiatePaymentResponse struct {
	Data struct {
		Link string `json:"link"`
	} `json:"data"`
}

// VerifyPaymentResponse is the response of GET /verify-payment.
type VerifyPaymentResponse struct {
	Verified bool            `json:"verified"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status,omitempty"`
}

// VerificationState is the state of the payment verification page.
type VerificationState string

const (
	VerificationVerifying VerificationState = "verifying"
	VerificationSucceeded VerificationState = "succeeded"
	VerificationFailed    VerificationState = "failed"
)

// TransactionDetails are shown on the verification page once the backend answered.
type TransactionDetails struct {
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Reference     string          `json:"reference"`
}

// FormattedAmount renders the paid amount, e.g. "$25.50".
func (d TransactionDetails) FormattedAmount() string {
	return FormatPrice(d.Amount)
}

// Redirect is a navigation the page performs on its own after a delay.
type Redirect struct {
	URL          string `json:"url"`
	DelaySeconds int    `json:"delaySeconds"`
}

func (r Redirect) After() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// RefreshHeader renders the redirect as an HTTP Refresh header value.
func (r Redirect) RefreshHeader() string {
	return fmt.Sprintf("%d; url=%s", r.DelaySeconds, r.URL)
}

// VerificationStatus is the view state of the payment verification page. It
// starts in VerificationVerifying and moves once to a terminal state.
type VerificationStatus struct {
	State              VerificationState   `json:"state"`
	IsLoading          bool                `json:"isLoading"`
	IsSuccess          bool                `json:"isSuccess"`
	Error              string              `json:"error,omitempty"`
	TransactionDetails *TransactionDetails `json:"transactionDetails,omitempty"`
	Redirect           *Redirect           `json:"redirect,omitempty"`
}

func NewVerificationStatus() VerificationStatus {
	return VerificationStatus{State: VerificationVerifying, IsLoading: true}
}

// Succeed moves a verifying status to VerificationSucceeded and schedules the
// redirect. It reports false if the status was already terminal.
func (s *VerificationStatus) Succeed(details TransactionDetails, redirect Redirect) bool {
	if s.State != VerificationVerifying {
		return false
	}
	s.State = VerificationSucceeded
	s.IsLoading = false
	s.IsSuccess = true
	s.TransactionDetails = &details
	s.Redirect = &redirect
	return true
}

// Fail moves a verifying status to VerificationFailed. details may be nil when the
// backend was never reached.
func (s *VerificationStatus) Fail(message string, details *TransactionDetails) bool {
	if s.State != VerificationVerifying {
		return false
	}
	s.State = VerificationFailed
	s.IsLoading = false
	s.IsSuccess = false
	s.Error = message
	s.TransactionDetails = details
	return true
}
