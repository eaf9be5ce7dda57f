package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Initialize runs.
var Log = zap.NewNop()

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

const requestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

func newConfig(env string) zap.Config {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// Initialize builds Log for env ("production" logs JSON, anything else is console).
func Initialize(env string) {
	InitializeWithWriter(env, nil)
}

// InitializeWithWriter is Initialize plus a second sink. Entries are copied to
// shipper as JSON lines, whatever the console encoding.
func InitializeWithWriter(env string, shipper io.Writer) {
	cfg := newConfig(env)

	if shipper == nil {
		l, err := cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
			os.Exit(1)
		}
		Log = l
		return
	}

	level := zap.NewAtomicLevelAt(cfg.Level.Level())
	shipped := cfg.EncoderConfig
	shipped.EncodeLevel = zapcore.CapitalLevelEncoder

	var console zapcore.Encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	if cfg.Encoding == "json" {
		console = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(console, zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(shipped), zapcore.AddSync(shipper), level),
	)
	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// RequestLogger tags every request with an id (taken from X-Request-ID when the
// caller sent one) and writes one "http_request" entry per request. 5xx log at
// error level, 4xx at warn.
func RequestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if errs := c.Errors.String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		level := zapcore.InfoLevel
		if status >= 500 {
			level = zapcore.ErrorLevel
		} else if status >= 400 {
			level = zapcore.WarnLevel
		}
		if ce := l.Check(level, "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func withRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	return append(fields, zap.String("request_id", RequestID(ctx)))
}

// Error logs msg with err and the request id carried by ctx.
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Log.Error(msg, withRequestID(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Warn(msg, withRequestID(ctx, fields)...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Info(msg, withRequestID(ctx, fields)...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Debug(msg, withRequestID(ctx, fields)...)
}

// RequestID returns the id set by RequestLogger, from either a *gin.Context or
// the request context. It is "unknown" outside a request.
func RequestID(ctx context.Context) string {
	if c, ok := ctx.(*gin.Context); ok {
		if id := c.GetString(RequestIDKey); id != "" {
			return id
		}
		if c.Request == nil {
			return "unknown"
		}
		ctx = c.Request.Context()
	}
	if ctx != nil {
		if id, ok := ctx.Value(requestIDContextKey{}).(string); ok {
			return id
		}
	}
	return "unknown"
}

// WithContext returns a copy of ctx carrying requestID.
func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}
