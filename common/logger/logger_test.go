package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_TagsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	var fromCtx, fromGin string
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/orders", func(c *gin.Context) {
		fromGin = RequestID(c)
		fromCtx = RequestID(c.Request.Context())
		c.Status(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-1", fromGin)
	assert.Equal(t, "req-1", fromCtx)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusBadGateway), entries[0].ContextMap()["status"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestRequestID_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", RequestID(context.Background()))
	assert.Equal(t, "unknown", RequestID(&gin.Context{}))
	assert.Equal(t, "abc", RequestID(WithContext(context.Background(), "abc")))
}

func TestInitializeWithWriter_TeesJSON(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	var buf bytes.Buffer
	InitializeWithWriter("production", &buf)
	Info(WithContext(context.Background(), "r-9"), "Payment verified", zap.String("tx_ref", "R1"))
	_ = Log.Sync()

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "Payment verified", entry["msg"])
	assert.Equal(t, "r-9", entry["request_id"])
	assert.Equal(t, "R1", entry["tx_ref"])
	assert.Equal(t, "INFO", entry["level"])
}
