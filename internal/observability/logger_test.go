package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetRealClientIP(t *testing.T) {
	tests := []struct {
		name              string
		cloudFrontAddress string
		fallbackIP        string
		want              string
	}{
		{
			name:              "CloudFront header with port",
			cloudFrontAddress: "203.0.113.50:12345",
			want:              "203.0.113.50",
		},
		{
			name:              "CloudFront header IPv6 with port",
			cloudFrontAddress: "2001:db8::1:54321",
			want:              "2001:db8::1",
		},
		{
			name:              "No CloudFront header uses fallback",
			cloudFrontAddress: "",
			fallbackIP:        "192.168.1.1",
			want:              "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cloudFrontAddress != "" {
				c.Request.Header.Set("CloudFront-Viewer-Address", tt.cloudFrontAddress)
			}
			if tt.fallbackIP != "" {
				c.Request.RemoteAddr = tt.fallbackIP + ":8080"
			}

			got := GetRealClientIP(c)
			if got != tt.want {
				t.Errorf("GetRealClientIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithFields_DoesNotShareBackingArray(t *testing.T) {
	base := WithFields(context.Background(), Field{"request_id", "req-1"})

	callA := WithFields(base, Field{"call_control_id", "a"})
	callB := WithFields(base, Field{"call_control_id", "b"})

	fieldsA := getObservabilityFields(callA)
	fieldsB := getObservabilityFields(callB)
	require.Len(t, fieldsA, 2)
	require.Len(t, fieldsB, 2)
	assert.Equal(t, "a", fieldsA[1].Value)
	assert.Equal(t, "b", fieldsB[1].Value)
}

func TestLogger_IncludesContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromZap(zap.New(core))

	ctx := WithFields(context.Background(),
		Field{"call_control_id", "v3:abc"},
		Field{"event_type", "call.hangup"},
	)
	logger.Error(ctx, "failed to play greeting", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "v3:abc", fields["call_control_id"])
	assert.Equal(t, "call.hangup", fields["event_type"])
	assert.Equal(t, "boom", fields["error"])
}

func TestMiddleware_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, _ := observer.New(zapcore.InfoLevel)
	logger := NewLoggerFromZap(zap.New(core))

	r := gin.New()
	r.Use(Middleware(logger))
	var seen []Field
	r.GET("/test", func(c *gin.Context) {
		seen = getObservabilityFields(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.NotEmpty(t, seen)
	assert.Equal(t, "request_id", seen[0].Key)
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewLoggerFromZap(zap.New(core))

	r := gin.New()
	r.Use(Middleware(logger))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, logs.FilterMessage("Recovered from panic").All())
}
