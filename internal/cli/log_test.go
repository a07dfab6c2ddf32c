package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestStopwatchLap(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	watch := newStopwatch(logger)
	time.Sleep(10 * time.Millisecond)
	watch.lap("collected", "stargazers", 3)
	watch.lap("ranked")

	out := buf.String()
	if !strings.Contains(out, "collected") || !strings.Contains(out, "stargazers=3") {
		t.Errorf("lap output = %q, want message and fields", out)
	}
	if strings.Count(out, "elapsed=") != 2 {
		t.Errorf("lap output = %q, want an elapsed field per lap", out)
	}
	if watch.total() < 10*time.Millisecond {
		t.Errorf("total() = %v, want at least the sleep", watch.total())
	}
}

func TestCLIVerbose(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	if c.verbose() {
		t.Error("info level should not be verbose")
	}
	c.SetLogLevel(LogDebug)
	if !c.verbose() {
		t.Error("debug level should be verbose")
	}
}
