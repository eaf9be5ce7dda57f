package metrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const logRetentionDays = 30

type logsAPI interface {
	CreateLogGroup(ctx context.Context, params *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, params *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, params *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, params *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// LogsWriter ships every Write as one event to a CloudWatch Logs stream. It is
// the second sink of the zap logger.
type LogsWriter struct {
	api    logsAPI
	group  string
	stream string
	errOut io.Writer

	mu            sync.Mutex
	sequenceToken *string
}

// NewLogsWriter makes sure the log group exists and opens a stream named after
// the service and the start time.
func NewLogsWriter(ctx context.Context, cfg aws.Config, group, serviceName string) (*LogsWriter, error) {
	return newLogsWriter(ctx, cloudwatchlogs.NewFromConfig(cfg), group, serviceName)
}

func newLogsWriter(ctx context.Context, api logsAPI, group, serviceName string) (*LogsWriter, error) {
	if group == "" {
		group = "/tastyeats/storefront"
	}
	w := &LogsWriter{
		api:    api,
		group:  group,
		stream: fmt.Sprintf("%s-%d", serviceName, time.Now().Unix()),
		errOut: os.Stderr,
	}

	if err := w.ensureGroup(ctx); err != nil {
		return nil, err
	}
	if _, err := api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(w.group),
		LogStreamName: aws.String(w.stream),
	}); err != nil {
		return nil, fmt.Errorf("create log stream %s: %w", w.stream, err)
	}
	return w, nil
}

func (w *LogsWriter) ensureGroup(ctx context.Context) error {
	_, err := w.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(w.group),
	})
	var exists *types.ResourceAlreadyExistsException
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("create log group %s: %w", w.group, err)
	}

	if _, err := w.api.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
		LogGroupName:    aws.String(w.group),
		RetentionInDays: aws.Int32(logRetentionDays),
	}); err != nil {
		return fmt.Errorf("set retention on %s: %w", w.group, err)
	}
	return nil
}

// Write never fails. Delivery errors go to stderr so logging cannot break a request.
func (w *LogsWriter) Write(p []byte) (int, error) {
	message := string(bytes.TrimRight(p, "\n"))

	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := w.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(w.group),
		LogStreamName: aws.String(w.stream),
		SequenceToken: w.sequenceToken,
		LogEvents: []types.InputLogEvent{{
			Message:   aws.String(message),
			Timestamp: aws.Int64(time.Now().UnixMilli()),
		}},
	})
	if err != nil {
		fmt.Fprintf(w.errOut, "cloudwatch logs write failed: %v\n", err)
		return len(p), nil
	}
	w.sequenceToken = out.NextSequenceToken
	return len(p), nil
}
