// Package logging holds the process-wide diagnostics sink. Stages treat it
// as write-only: informational notices (row/column counts, skipped fits)
// and policy warnings go here, never data.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global sugared logger. It is a no-op until Initialize is
// called, so library consumers that never configure logging stay silent.
var L = zap.NewNop().Sugar()

// Initialize configures the global logger. jsonOutput selects structured
// JSON for machine consumption; otherwise a console encoder is used.
func Initialize(jsonOutput bool, level zapcore.Level) {
	var enc zapcore.Encoder
	if jsonOutput {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), level)
	L = zap.New(core).Sugar()
}

// SetLogger swaps the global logger; tests use this with a zap observer to
// assert emitted diagnostics. Returns the previous logger for restoring.
func SetLogger(l *zap.SugaredLogger) *zap.SugaredLogger {
	prev := L
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	L = l
	return prev
}
