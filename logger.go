package paratext

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/paratext/internal/logging"
)

// loggerPtr stores the package logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logging.Nop())
}

// SetLogger configures the default logger for renderers created afterwards
// without WithLogger. By default, paratext produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by paratext:
//   - [slog.LevelDebug]: page creation, rasterized glyphs, finished layouts
//   - [slog.LevelWarn]: unplaced glyphs, font resolution and shaping failures
//   - [slog.LevelError]: aborted layouts
//
// Example:
//
//	paratext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(logging.OrNop(l))
}

// Logger returns the current package logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
