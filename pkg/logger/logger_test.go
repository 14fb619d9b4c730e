package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lobby-server/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := log
	t.Cleanup(func() { SetLogger(original) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	return logs
}

func TestNopBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("no logger configured yet")
	})
}

func TestInitLogger_WritesFile(t *testing.T) {
	original := log
	t.Cleanup(func() { SetLogger(original) })

	filename := filepath.Join(t.TempDir(), "nested", "app.log")
	l := InitLogger(config.LogConfig{Level: "debug", Filename: filename, MaxSize: 1})
	require.NotNil(t, l)

	Info("hello", zap.String("k", "v"))
	_ = Sync()

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getLogLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, getLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel("bogus"))
}

func TestMiddleware_RequestIDAndLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observe(t)

	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(), ErrorLoggerMiddleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, 1, logs.FilterMessage("HTTP请求").Len())
	warn := logs.FilterMessage("HTTP请求警告").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "fixed-id", warn[0].ContextMap()["request_id"])
	assert.Equal(t, 1, logs.FilterMessage("HTTP请求发生panic").Len())
}
