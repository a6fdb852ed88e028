// Package logging builds the app logger. With debug off everything is a
// no-op; with debug on, structured JSON lines go to <data_dir>/logs/tick.log
// so a TUI session never writes to the terminal it is drawing on.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for the given data directory. debug=false yields a
// nop logger.
func New(dataDir string, debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	logsDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logsDir, "tick.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(enc),
		zapcore.AddSync(f),
		zapcore.DebugLevel,
	)
	return zap.New(core), nil
}
