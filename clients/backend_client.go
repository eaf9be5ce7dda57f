package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-service/common/metrics"
	"storefront-service/models"
)

// UpstreamError is returned when the backend answers with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}

// BackendClient talks to the orders/payment backend. Calls are never retried.
type BackendClient struct {
	base    string
	http    *http.Client
	metrics metrics.Recorder
}

func NewBackendClient(baseURL string, timeout time.Duration, recorder metrics.Recorder) *BackendClient {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &BackendClient{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: recorder,
	}
}

// InitiatePayment posts the cart to POST /initiate-payment.
func (b *BackendClient) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.InitiatePaymentResponse, error) {
	var out models.InitiatePaymentResponse
	if err := b.call(ctx, http.MethodPost, "/initiate-payment", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment asks GET /verify-payment whether the gateway transaction was paid.
func (b *BackendClient) VerifyPayment(ctx context.Context, txRef, transactionID string) (*models.VerifyPaymentResponse, error) {
	query := url.Values{
		"tx_ref":        {txRef},
		"transactionId": {transactionID},
	}
	var out models.VerifyPaymentResponse
	if err := b.call(ctx, http.MethodGet, "/verify-payment", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders fetches GET /orders in the order the backend returns them.
func (b *BackendClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := b.call(ctx, http.MethodGet, "/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// call sends in as the JSON body when non-nil and decodes a 2xx reply into out.
func (b *BackendClient) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := b.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	began := time.Now()
	resp, err := b.http.Do(req)
	_ = b.metrics.RecordLatency(ctx, metrics.MetricBackendLatency, time.Since(began), map[string]string{
		"Method": method,
		"Path":   path,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
