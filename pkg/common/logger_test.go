package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "aquamon.io/water-quality-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestGetLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNameMonitorCore, zap.String(LoggerFieldCategory, LoggerCategoryAlert))
	logger.Info("Named log message")

	logOutput := buf.String()
	if !strings.Contains(logOutput, LoggerNameMonitorCore) {
		t.Errorf("expected log output to contain logger name, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, LoggerCategoryAlert) {
		t.Errorf("expected log output to contain category, got: %s", logOutput)
	}
}
