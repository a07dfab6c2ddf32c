package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps carry milliseconds because a
// whole run often fits in a second when the cache is warm.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
	})
}

// stopwatch times the stages of one command. Each lap logs at info level
// with the time spent since the previous lap.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newStopwatch(l *log.Logger) *stopwatch {
	now := time.Now()
	return &stopwatch{logger: l, start: now, last: now}
}

// lap logs msg with keyvals and an "elapsed" field, e.g.
//
//	INFO collected repo=cli/cli stargazers=200 elapsed=1.234s
func (s *stopwatch) lap(msg string, keyvals ...any) {
	now := time.Now()
	keyvals = append(keyvals, "elapsed", now.Sub(s.last).Round(time.Millisecond))
	s.last = now
	s.logger.Info(msg, keyvals...)
}

// total reports the time since the stopwatch was created.
func (s *stopwatch) total() time.Duration {
	return time.Since(s.start)
}
