package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FlorianRuen/profile-stats-backend/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToLogrusLogType(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{input: "error", expected: logrus.ErrorLevel},
		{input: "WARN", expected: logrus.WarnLevel},
		{input: "Info", expected: logrus.InfoLevel},
		{input: "debug", expected: logrus.DebugLevel},
		{input: "verbose", expected: logrus.ErrorLevel},
		{input: "", expected: logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringToLogrusLogType(tt.input))
		})
	}
}

func TestSetup(t *testing.T) {
	defer logrus.SetFormatter(&logrus.TextFormatter{})
	defer logrus.SetLevel(logrus.InfoLevel)

	tests := []struct {
		name              string
		level             string
		outputLogsAsJSON  bool
		expectedLevel     logrus.Level
		expectedFormatter logrus.Formatter
	}{
		{
			name:              "Text output",
			level:             "warn",
			outputLogsAsJSON:  false,
			expectedLevel:     logrus.WarnLevel,
			expectedFormatter: &logrus.TextFormatter{FullTimestamp: true},
		},
		{
			name:              "JSON output",
			level:             "debug",
			outputLogsAsJSON:  true,
			expectedLevel:     logrus.DebugLevel,
			expectedFormatter: &logrus.JSONFormatter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetDefault()
			cfg.Logs.Level = tt.level
			cfg.Logs.OutputLogsAsJSON = tt.outputLogsAsJSON

			Setup(*cfg)

			assert.Equal(t, tt.expectedLevel, logrus.GetLevel())
			assert.IsType(t, tt.expectedFormatter, logrus.StandardLogger().Formatter)
		})
	}
}

func TestGinMiddleware(t *testing.T) {
	hook := logrusTest.NewGlobal()
	defer hook.Reset()

	previousLevel := logrus.GetLevel()
	logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetLevel(previousLevel)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	tests := []struct {
		path          string
		expectedLevel logrus.Level
		expectedCode  int
	}{
		{path: "/ok", expectedLevel: logrus.InfoLevel, expectedCode: http.StatusOK},
		{path: "/fail", expectedLevel: logrus.ErrorLevel, expectedCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			hook.Reset()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Len(t, hook.AllEntries(), 1)
			entry := hook.LastEntry()
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, http.MethodGet, entry.Data["method"])
			assert.Equal(t, tt.path, entry.Data["path"])
			assert.Equal(t, tt.expectedCode, entry.Data["status"])
		})
	}
}
