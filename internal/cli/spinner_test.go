package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerStopClearsLine(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Resolving")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	assert.Contains(t, out, "Resolving")
	assert.True(t, strings.HasSuffix(out, "\r"), "line should be erased on stop")
	assert.False(t, s.interrupted())
}

func TestSpinnerStopTwice(t *testing.T) {
	s := startSpinner(context.Background(), &bytes.Buffer{}, "x")
	s.stop()
	s.stop()
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &bytes.Buffer{}, "x")
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner did not exit after cancellation")
	}
	assert.True(t, s.interrupted())
	s.stop()
}

func TestSpinnerShorterMessagePadded(t *testing.T) {
	var buf bytes.Buffer
	s := &spinner{w: &buf, msg: "a fairly long message"}
	s.draw(spinnerFrames[0])
	wide := s.width
	require.Positive(t, wide)

	s.setMessage("short")
	s.draw(spinnerFrames[1])
	lines := strings.Split(buf.String(), "\r")
	last := lines[len(lines)-1]
	assert.Equal(t, wide, lipgloss.Width(last))
	assert.Equal(t, wide, s.width)

	s.clear()
	assert.Zero(t, s.width)
	assert.True(t, strings.HasSuffix(buf.String(), strings.Repeat(" ", wide)+"\r"))
}

func TestSpinnerClearWithoutDraw(t *testing.T) {
	var buf bytes.Buffer
	s := &spinner{w: &buf}
	s.clear()
	assert.Zero(t, buf.Len())
}
