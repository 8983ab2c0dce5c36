package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// EchoRunner is a Runner that returns the program text as its output after
// an optional delay. Used for dry runs and tests.
type EchoRunner struct {
	Delay time.Duration
}

func (r *EchoRunner) Run(ctx context.Context, program string) (string, error) {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return program, nil
}

// SubprocessRunner executes each program in a fresh interpreter process,
// piping the program to stdin. State does not persist between executions.
type SubprocessRunner struct {
	// Path is the interpreter binary, e.g. "python3".
	Path string

	// Args are passed before the program is written to stdin. For Python,
	// []string{"-I", "-q", "-"} reads the program from stdin in isolated
	// mode.
	Args []string

	// Timeout bounds a single execution. Zero means no bound.
	Timeout time.Duration
}

func (r *SubprocessRunner) Run(ctx context.Context, program string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Path, r.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", r.Path, err)
	}

	var outBuf, errBuf bytes.Buffer
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stdin.Close()
		_, err := io.WriteString(stdin, program)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	output := outBuf.String()
	if errText := strings.TrimSpace(errBuf.String()); errText != "" {
		if waitErr != nil {
			return output, fmt.Errorf("%s: %s", r.Path, errText)
		}
		// Interpreter chatter on stderr without a failure exit is appended
		// to the output.
		output += errBuf.String()
	}
	if waitErr != nil {
		return output, fmt.Errorf("%s: %w", r.Path, waitErr)
	}
	if pumpErr != nil {
		return output, fmt.Errorf("%s: %w", r.Path, pumpErr)
	}
	return output, nil
}
