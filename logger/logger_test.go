package logger_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectormag-cms/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.NotNil(t, templogger)
	require.Equal(t, buff.Len(), 0)
	templogger.Logger.Info().Msg("Test")
	require.Contains(t, buff.String(), "Test")
}

func TestLog_LevelFilters(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	templogger, err := logger.New().FromBuffer(buff).WithLevel("warn").Make()
	require.NoError(t, err)

	templogger.Logger.Info().Msg("quiet")
	templogger.Logger.Warn().Msg("loud")
	assert.NotContains(t, buff.String(), "quiet")
	assert.Contains(t, buff.String(), "loud")
}

func TestLog_UnknownLevel(t *testing.T) {
	_, err := logger.New().WithLevel("verbose").Make()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	}
	for in, want := range tests {
		got, err := logger.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buff := bytes.NewBuffer([]byte{})
	log := zerolog.New(buff)

	router := gin.New()
	router.Use(logger.GinMiddleware(log))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buff.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"status":404`)
}
