package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{
			name: "json format",
			config: &Config{
				Level:  LevelInfo,
				Format: "json",
				Output: &bytes.Buffer{},
			},
		},
		{
			name: "text format",
			config: &Config{
				Level:  LevelDebug,
				Format: "text",
				Output: &bytes.Buffer{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("NewLogger() returned nil")
			}
		})
	}
}

func TestLoggerJSONFormatIsValidPerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "json", Output: &buf})

	logger.Info("row buffer classified", "state", "hit")
	output := buf.String()
	if !strings.Contains(output, `"msg":"row buffer classified"`) {
		t.Errorf("expected msg field in JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"state":"hit"`) {
		t.Errorf("expected state=hit field in JSON output, got: %s", output)
	}
}

func TestLoggerWithChannel(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{Level: LevelDebug, Format: "text", Output: &buf, NoColor: true}

	logger := NewLogger(config)

	channelLogger := logger.WithChannel(2)
	channelLogger.Info("issuing column access strobe")

	output := buf.String()
	if !strings.Contains(output, "channel_id=2") {
		t.Errorf("expected channel_id=2 in output, got: %s", output)
	}
}

func TestLoggerWithRequest(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{Level: LevelDebug, Format: "text", Output: &buf, NoColor: true}

	logger := NewLogger(config)
	requestLogger := logger.WithRequest(123, "READ")
	requestLogger.Debug("processing memory reference")

	output := buf.String()
	if !strings.Contains(output, "tag=123") {
		t.Errorf("expected tag=123 in output, got: %s", output)
	}
	if !strings.Contains(output, "op=READ") {
		t.Errorf("expected op=READ in output, got: %s", output)
	}
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{Level: LevelDebug, Format: "text", Output: &buf, NoColor: true}

	logger := NewLogger(config)
	testErr := errors.New("response delivered for unknown address")
	errorLogger := logger.WithError(testErr)
	errorLogger.Error("invariant violation")

	output := buf.String()
	if !strings.Contains(output, "response delivered for unknown address") {
		t.Errorf("expected wrapped error text in output, got: %s", output)
	}
}

func TestLoggerNoColorOmitsAnsiCodes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "text", Output: &buf, NoColor: true})
	logger.Info("plain message")

	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected no ANSI escape codes with NoColor set, got: %s", buf.String())
	}
}

func TestLoggerColorDefaultsOn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Format: "text", Output: &buf})
	logger.Info("colored message")

	if !strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected ANSI escape codes by default, got: %s", buf.String())
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{Level: LevelDebug, Format: "text", Output: &buf, NoColor: true}

	SetDefault(NewLogger(config))

	Debug("debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected debug message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value, got: %s", output)
	}

	buf.Reset()
	Info("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Errorf("Expected info message, got: %s", buf.String())
	}

	buf.Reset()
	Warn("warning message")
	if !strings.Contains(buf.String(), "warning message") {
		t.Errorf("Expected warning message, got: %s", buf.String())
	}

	buf.Reset()
	Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("Expected error message, got: %s", buf.String())
	}
}
