package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestStatusRange(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		303: "3xx",
		404: "4xx",
		502: "5xx",
		100: "unknown",
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusRange(code))
	}
}

func TestClient_RecordLatency(t *testing.T) {
	api := &fakeCloudWatch{}
	client := newClient(api, "", true)

	err := client.RecordLatency(context.Background(), MetricBackendLatency, 1500*time.Millisecond, map[string]string{
		"Path":   "/orders",
		"Method": "GET",
	})

	require.NoError(t, err)
	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "TastyEats", aws.ToString(in.Namespace))
	require.Len(t, in.MetricData, 1)
	datum := in.MetricData[0]
	assert.Equal(t, MetricBackendLatency, aws.ToString(datum.MetricName))
	assert.Equal(t, 1500.0, aws.ToFloat64(datum.Value))
	assert.Equal(t, types.StandardUnitMilliseconds, datum.Unit)
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "Method", aws.ToString(datum.Dimensions[0].Name))
	assert.Equal(t, "Path", aws.ToString(datum.Dimensions[1].Name))
}

func TestClient_Error(t *testing.T) {
	api := &fakeCloudWatch{err: errors.New("throttled")}
	client := newClient(api, "Storefront", true)

	err := client.RecordCount(context.Background(), MetricCartCheckouts, nil)

	assert.ErrorContains(t, err, "throttled")
	assert.Equal(t, "Storefront", aws.ToString(api.inputs[0].Namespace))
}

func TestDisabledClientSendsNothing(t *testing.T) {
	api := &fakeCloudWatch{}
	client := newClient(api, "", false)

	assert.False(t, client.IsEnabled())
	assert.NoError(t, client.RecordCount(context.Background(), MetricCartCheckouts, nil))
	assert.NoError(t, client.RecordLatency(context.Background(), MetricBackendLatency, time.Second, nil))
	assert.Empty(t, api.inputs)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.RecordCount(context.Background(), MetricHTTPRequests, nil))
	assert.NoError(t, r.RecordLatency(context.Background(), MetricHTTPLatency, time.Millisecond, nil))
}
