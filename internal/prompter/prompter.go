// Package prompter collects clarification answers from a human.
package prompter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

const answerLabel = "Answer (leave empty to skip)"

// ErrAborted is returned when the human interrupts the session.
var ErrAborted = errors.New("clarification aborted by user")

// Console asks questions on a terminal. Zero values use stdin and stdout.
type Console struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

func NewConsole() *Console {
	return &Console{}
}

type reply struct {
	answer string
	err    error
}

// Ask prints the question and reads a single line. End of input declines the
// question; Ctrl-C aborts the run. Ask returns as soon as ctx is done, leaving
// the pending read behind.
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out io.Writer = os.Stdout
	if c.Out != nil {
		out = c.Out
	}
	fmt.Fprintf(out, "\n%s\n", question)

	prompt := promptui.Prompt{
		Label:  answerLabel,
		Stdin:  c.In,
		Stdout: c.Out,
	}

	replies := make(chan reply, 1)
	go func() {
		answer, err := prompt.Run()
		replies <- reply{answer: answer, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-replies:
		return interpret(r.answer, r.err)
	}
}

func interpret(answer string, err error) (string, error) {
	switch {
	case err == nil:
		return answer, nil
	case errors.Is(err, promptui.ErrEOF):
		return "", nil
	case errors.Is(err, promptui.ErrInterrupt):
		return "", ErrAborted
	default:
		return "", fmt.Errorf("read answer: %w", err)
	}
}

// Decline answers every question with nothing, for non-interactive runs.
type Decline struct{}

func (Decline) Ask(ctx context.Context, _ string) (string, error) {
	return "", ctx.Err()
}
