package utils

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		debug     bool
		wantDebug bool
	}{
		{debug: true, wantDebug: true},
		{debug: false, wantDebug: false},
	}
	for _, tt := range tests {
		logger, err := NewLogger(tt.debug)
		if err != nil {
			t.Fatalf("NewLogger(%v): %v", tt.debug, err)
		}
		if got := logger.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
			t.Errorf("NewLogger(%v): debug enabled = %v, want %v", tt.debug, got, tt.wantDebug)
		}
		if !logger.Core().Enabled(zap.InfoLevel) {
			t.Errorf("NewLogger(%v): info disabled", tt.debug)
		}
		_ = logger.Sync()
	}
}

func TestProductionConfig_ISO8601Timestamp(t *testing.T) {
	cfg := productionConfig()
	if cfg.Encoding != "json" {
		t.Errorf("encoding = %q, want json", cfg.Encoding)
	}
	enc := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	entry := zapcore.Entry{
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   zapcore.InfoLevel,
		Message: "indexed",
	}
	buf, err := enc.EncodeEntry(entry, []zapcore.Field{zap.Int("documents", 3)})
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Free()
	line := buf.String()

	for _, want := range []string{`"ts":"2024-01-02T03:04:05.000Z"`, `"msg":"indexed"`, `"documents":3`} {
		if !strings.Contains(line, want) {
			t.Errorf("encoded line %s missing %s", line, want)
		}
	}
	if strings.Contains(line, `"time"`) {
		t.Errorf("encoded line %s uses default time key", line)
	}
}
