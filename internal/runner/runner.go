package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/iossim-mcp/ios-simulator-mcp/internal/domain"
)

const (
	// DefaultTimeout is the wall-clock ceiling for one external command.
	DefaultTimeout = 30 * time.Second

	// waitDelay bounds how long Wait blocks on output pipes after the
	// process was killed, e.g. when a grandchild still holds them open.
	waitDelay = 2 * time.Second

	timedOutMessage = "timed out"
)

// Runner executes external programs.
type Runner interface {
	Run(ctx context.Context, argv []string) domain.CommandOutcome
}

// ExecRunner runs commands as local processes via os/exec.
type ExecRunner struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

func New(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{
		Timeout: DefaultTimeout,
		Logger:  logger,
	}
}

// Run never returns a Go error: every failure mode is folded into the outcome.
func (r *ExecRunner) Run(ctx context.Context, argv []string) domain.CommandOutcome {
	startedAt := time.Now()
	outcome := r.run(ctx, argv)
	r.logExec(argv, outcome, startedAt)
	return outcome
}

func (r *ExecRunner) run(ctx context.Context, argv []string) domain.CommandOutcome {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return domain.CommandOutcome{ErrorMessage: "empty command"}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return domain.CommandOutcome{ErrorMessage: err.Error()}
	}
	waitErr := cmd.Wait()

	outcome := domain.CommandOutcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := runCtx.Err(); waitErr != nil && ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && ctx.Err() == nil {
			outcome.ErrorMessage = timedOutMessage
		} else {
			outcome.ErrorMessage = fmt.Sprintf("cancelled: %v", ctx.Err())
		}
		return outcome
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		code := 0
		outcome.ExitCode = &code
		outcome.Success = true
	case errors.As(waitErr, &exitErr) && exitErr.Exited():
		code := exitErr.ExitCode()
		outcome.ExitCode = &code
		outcome.ErrorMessage = fmt.Sprintf("exit status %d", code)
	default:
		outcome.ErrorMessage = waitErr.Error()
	}
	return outcome
}

func (r *ExecRunner) logExec(argv []string, outcome domain.CommandOutcome, startedAt time.Time) {
	if r == nil || r.Logger == nil {
		return
	}
	level := slog.LevelDebug
	if !outcome.Success {
		level = slog.LevelWarn
	}
	exitCode := -1
	if outcome.ExitCode != nil {
		exitCode = *outcome.ExitCode
	}

	r.Logger.Log(
		context.Background(),
		level,
		"command_exec",
		slog.String("argv", strings.Join(argv, " ")),
		slog.Int("exit_code", exitCode),
		slog.Int64("duration_ms", time.Since(startedAt).Milliseconds()),
		slog.String("error", outcome.ErrorMessage),
	)
}
