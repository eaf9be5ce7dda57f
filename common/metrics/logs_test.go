package metrics

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogs struct {
	groupErr  error
	putErr    error
	streams   []string
	events    []*cloudwatchlogs.PutLogEventsInput
	retention int32
}

func (f *fakeLogs) CreateLogGroup(context.Context, *cloudwatchlogs.CreateLogGroupInput, ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	return &cloudwatchlogs.CreateLogGroupOutput{}, f.groupErr
}

func (f *fakeLogs) PutRetentionPolicy(_ context.Context, in *cloudwatchlogs.PutRetentionPolicyInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error) {
	f.retention = aws.ToInt32(in.RetentionInDays)
	return &cloudwatchlogs.PutRetentionPolicyOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(_ context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.streams = append(f.streams, aws.ToString(in.LogStreamName))
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.events = append(f.events, in)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &cloudwatchlogs.PutLogEventsOutput{NextSequenceToken: aws.String("next")}, nil
}

func TestNewLogsWriter_ExistingGroup(t *testing.T) {
	api := &fakeLogs{groupErr: &types.ResourceAlreadyExistsException{}}

	w, err := newLogsWriter(context.Background(), api, "", "storefront-service")

	require.NoError(t, err)
	assert.Equal(t, "/tastyeats/storefront", w.group)
	assert.Equal(t, int32(30), api.retention)
	require.Len(t, api.streams, 1)
	assert.Contains(t, api.streams[0], "storefront-service-")
}

func TestNewLogsWriter_GroupFailure(t *testing.T) {
	api := &fakeLogs{groupErr: errors.New("access denied")}

	_, err := newLogsWriter(context.Background(), api, "/g", "svc")

	assert.ErrorContains(t, err, "access denied")
}

func TestLogsWriter_Write(t *testing.T) {
	api := &fakeLogs{}
	w, err := newLogsWriter(context.Background(), api, "/g", "svc")
	require.NoError(t, err)

	n, err := w.Write([]byte("{\"msg\":\"one\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	_, _ = w.Write([]byte("two"))

	require.Len(t, api.events, 2)
	assert.Equal(t, `{"msg":"one"}`, aws.ToString(api.events[0].LogEvents[0].Message))
	assert.Nil(t, api.events[0].SequenceToken)
	assert.Equal(t, "next", aws.ToString(api.events[1].SequenceToken))
}

func TestLogsWriter_WriteErrorIsSwallowed(t *testing.T) {
	api := &fakeLogs{}
	w, err := newLogsWriter(context.Background(), api, "/g", "svc")
	require.NoError(t, err)
	var stderr bytes.Buffer
	w.errOut = &stderr
	api.putErr = errors.New("throttled")

	n, err := w.Write([]byte("line"))

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Contains(t, stderr.String(), "throttled")
}
