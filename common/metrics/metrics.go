package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names.
const (
	MetricHTTPRequests = "HTTPRequests"
	MetricHTTPErrors   = "HTTPErrors"
	MetricHTTPLatency  = "HTTPLatency"
	MetricHTTP4xx      = "HTTP4xxErrors"
	MetricHTTP5xx      = "HTTP5xxErrors"

	MetricCartCheckouts     = "CartCheckouts"
	MetricCheckoutFailed    = "CheckoutFailed"
	MetricPaymentSucceeded  = "PaymentSucceeded"
	MetricPaymentFailed     = "PaymentFailed"
	MetricOrdersFetchFailed = "OrdersFetchFailed"
	MetricBackendLatency    = "BackendLatency"
)

const defaultNamespace = "TastyEats"

// Recorder is what the storefront records metrics through.
type Recorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// Nop discards all metrics.
type Nop struct{}

func (Nop) RecordCount(context.Context, string, map[string]string) error { return nil }

func (Nop) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client publishes storefront metrics to CloudWatch under one namespace. A
// disabled client accepts every call and sends nothing.
type Client struct {
	api       putMetricDataAPI
	namespace string
	enabled   bool
	now       func() time.Time
}

func NewClient(cfg aws.Config, namespace string, enabled bool) *Client {
	return newClient(cloudwatch.NewFromConfig(cfg), namespace, enabled)
}

func newClient(api putMetricDataAPI, namespace string, enabled bool) *Client {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &Client{api: api, namespace: namespace, enabled: enabled, now: time.Now}
}

// PutMetric sends one data point. Dimensions are sent in name order.
func (m *Client) PutMetric(ctx context.Context, metricName string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	if !m.enabled {
		return nil
	}

	_, err := m.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(metricName),
			Value:      aws.Float64(value),
			Unit:       unit,
			Timestamp:  aws.Time(m.now()),
			Dimensions: toDimensions(dimensions),
		}},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", metricName, err)
	}
	return nil
}

func toDimensions(dimensions map[string]string) []types.Dimension {
	names := make([]string, 0, len(dimensions))
	for name := range dimensions {
		names = append(names, name)
	}
	sort.Strings(names)

	dims := make([]types.Dimension, 0, len(names))
	for _, name := range names {
		dims = append(dims, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(dimensions[name]),
		})
	}
	return dims
}

func (m *Client) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}

// RecordLatency records duration in milliseconds.
func (m *Client) RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error {
	return m.PutMetric(ctx, metricName, float64(duration.Milliseconds()), types.StandardUnitMilliseconds, dimensions)
}

func (m *Client) IsEnabled() bool {
	return m.enabled
}

// StatusRange buckets an HTTP status code as "2xx" to "5xx".
func StatusRange(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "5xx"
	case statusCode >= 400:
		return "4xx"
	case statusCode >= 300:
		return "3xx"
	case statusCode >= 200:
		return "2xx"
	default:
		return "unknown"
	}
}
