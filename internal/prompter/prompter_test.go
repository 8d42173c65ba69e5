package prompter

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestInterpret(t *testing.T) {
	answer, err := interpret("01/2020", nil)
	assert.NoError(t, err)
	assert.Equal(t, "01/2020", answer)

	answer, err = interpret("", promptui.ErrEOF)
	assert.NoError(t, err)
	assert.Empty(t, answer)

	_, err = interpret("", promptui.ErrInterrupt)
	assert.ErrorIs(t, err, ErrAborted)

	boom := errors.New("tty gone")
	_, err = interpret("", boom)
	assert.ErrorIs(t, err, boom)
}

func TestDecline(t *testing.T) {
	answer, err := Decline{}.Ask(context.Background(), "What is your name?")
	assert.NoError(t, err)
	assert.Empty(t, answer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Decline{}.Ask(ctx, "What is your name?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConsole().Ask(ctx, "What is your name?")
	assert.ErrorIs(t, err, context.Canceled)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Close() error                { return nil }

func TestConsoleStopsWaitingWhenContextExpires(t *testing.T) {
	in, w := io.Pipe()
	t.Cleanup(func() { w.Close() })

	console := &Console{In: in, Out: discard{}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := console.Ask(ctx, "When did you start working as Engineer at Acme?")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
