package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// NewDiagnostic builds the process logger. Diagnostics never go to stdout,
// which carries only the recommendation. A terminal gets the console
// encoder; anything else gets one JSON object per line. Both spell levels
// with SeverityLevelEncoder, so a host scanning stderr finds WARNING on
// degraded runs and ERROR on the fatal fallback.
func NewDiagnostic(out io.Writer, level string, console bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = SeverityLevelEncoder

	var enc zapcore.Encoder
	if console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), lvl)
	return zap.New(core), nil
}

// SeverityLevelEncoder writes DEBUG, INFO, WARNING or ERROR. Levels above
// error are folded into ERROR.
func SeverityLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch {
	case l < zapcore.InfoLevel:
		enc.AppendString("DEBUG")
	case l == zapcore.InfoLevel:
		enc.AppendString("INFO")
	case l == zapcore.WarnLevel:
		enc.AppendString("WARNING")
	default:
		enc.AppendString("ERROR")
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
