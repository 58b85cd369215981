package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a leveled logger with short wall-clock timestamps
// such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a command. step logs intermediate phases at debug
// level with the time since the previous step; done logs the total.
type progress struct {
	logger *log.Logger
	start  time.Time
	lap    time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, lap: now}
}

func (p *progress) step(msg string) {
	now := time.Now()
	p.logger.Debug(msg, "took", now.Sub(p.lap).Round(time.Millisecond))
	p.lap = now
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
