package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelNone, "NONE"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"none", LevelNone},
		{"off", LevelNone},
		{"", LevelNone},
		{"invalid", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func decodeLine(t *testing.T, b []byte) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &entry))
	return entry
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatText, Output: &buf})

	logger.Info("test message", Fields{"key": "value"})

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, `"key": "value"`)
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Info("test message", Fields{"key": "value"})

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogger_ErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Error("something went wrong", errors.New("test error"))

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "test error", entry["error"])
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelError, Output: &buf})

	logger.Info("should not appear")
	assert.Zero(t, buf.Len())
	assert.False(t, logger.Enabled(LevelInfo))

	logger.SetLevel(LevelInfo)
	logger.Info("should appear")
	assert.Contains(t, buf.String(), "should appear")
	assert.True(t, logger.Enabled(LevelInfo))
}

func TestLogger_SetOutputAndFormat(t *testing.T) {
	var first, second bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &first})
	logger.SetOutput(&second)
	logger.SetFormat(FormatJSON)

	logger.Info("moved")

	assert.Zero(t, first.Len())
	entry := decodeLine(t, second.Bytes())
	assert.Equal(t, "moved", entry["message"])
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.WithFields(Fields{"session": "abc"}).Info("message", Fields{"extra": "field"})

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "field", entry["extra"])
}

func TestLogger_MultipleFieldsLaterWins(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Info("message", Fields{"a": 1, "b": 1}, Fields{"b": 2})

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, float64(1), entry["a"])
	assert.Equal(t, float64(2), entry["b"])
}

func TestLogger_NoneLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelNone, Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error", nil)

	assert.Zero(t, buf.Len())
	assert.False(t, logger.Enabled(LevelError))
}

func TestIsSensitiveHeader(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"Authorization", true},
		{"authorization", true},
		{"X-API-KEY", true},
		{"X-Subscription-Token", true},
		{"Cookie", true},
		{"Content-Type", false},
		{"X-Title", false},
		{"HTTP-Referer", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, isSensitiveHeader(tt.header))
		})
	}
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "hello", truncateBody([]byte("hello"), 100))
	got := truncateBody([]byte(strings.Repeat("a", 200)), 50)
	assert.True(t, strings.HasSuffix(got, "...[truncated]"))
	assert.Len(t, got, 50+len("...[truncated]"))
}

func TestRedactSensitiveFields(t *testing.T) {
	input := map[string]interface{}{
		"model":      "x",
		"max_tokens": float64(2000),
		"api_key":    "key123",
		"nested": []interface{}{
			map[string]interface{}{"token": "t", "content": "hello"},
		},
	}

	result := redactSensitiveFields(input).(map[string]interface{})

	assert.Equal(t, "x", result["model"])
	assert.Equal(t, float64(2000), result["max_tokens"])
	assert.Equal(t, "[REDACTED]", result["api_key"])
	nested := result["nested"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", nested["token"])
	assert.Equal(t, "hello", nested["content"])
}

func TestLoggingRoundTripper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"model":"m"}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	client := &http.Client{Transport: NewLoggingRoundTripper(nil, NewHTTPLogger(logger), true)}

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"model":"m"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	out := buf.String()
	assert.Contains(t, out, "http request")
	assert.Contains(t, out, "http response")
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "secret")
}
