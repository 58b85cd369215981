package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line until stopped or until the context it
// was started with ends. The message may change while it runs.
type spinner struct {
	w      io.Writer
	parent context.Context
	cancel context.CancelFunc
	exited chan struct{}

	mu    sync.Mutex
	msg   string
	width int // widest line drawn so far
}

// startSpinner begins animating msg on w.
func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	runCtx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:      w,
		parent: ctx,
		cancel: cancel,
		exited: make(chan struct{}),
		msg:    msg,
	}
	go s.run(runCtx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

// setMessage replaces the text shown next to the animation.
func (s *spinner) setMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := styleSpinner.Render(frame) + " " + StyleDim.Render(s.msg)
	n := lipgloss.Width(line)
	pad := ""
	if n < s.width {
		pad = strings.Repeat(" ", s.width-n)
	} else {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// stop halts the animation and erases the line. Safe to call twice.
func (s *spinner) stop() {
	s.cancel()
	<-s.exited
}

// fail stops the spinner and reports msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}

// interrupted reports whether the spinner ended because its parent
// context was cancelled rather than through stop.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
