package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotation-wall/internal/platform/logging"
)

// Operations that touch more than one store run in five steps:
//
//	VALIDATE  check inputs before anything changes
//	PERFORM   make the first change (e.g. move a file into place)
//	VERIFY    confirm the change is visible
//	ARCHIVE   record the verified result in the system of record
//	RESPOND   shape the result for the caller
//
// A failing step stops the run and hands the step to Rollback, which decides
// what to undo.

// Step names one stage of an operation.
type Step string

const (
	StepValidate Step = "validate"
	StepPerform  Step = "perform"
	StepVerify   Step = "verify"
	StepArchive  Step = "archive"
	StepRespond  Step = "respond"
)

// StepError records the step an operation failed in.
type StepError struct {
	Step  Step
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// Operation describes the steps of a single use case. Nil steps are skipped.
//
// P is the value produced by Perform and V the value confirmed by Verify.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, in I) error
	Perform  func(ctx context.Context, in I) (P, error)
	Verify   func(ctx context.Context, in I, performed P) (V, error)
	Archive  func(ctx context.Context, in I, verified V) error
	Respond  func(ctx context.Context, in I, verified V) (O, error)

	// Rollback runs after any failed step with the step that failed.
	Rollback func(ctx context.Context, in I, failed Step, err error)
}

// Executor runs operations with step-level logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

type run[I, P, V, O any] struct {
	logger *slog.Logger
	op     Operation[I, P, V, O]
	in     I
}

func (r *run[I, P, V, O]) fail(ctx context.Context, step Step, err error) error {
	level := slog.LevelError
	if step == StepValidate {
		level = slog.LevelWarn
	}

	r.logger.Log(ctx, level, "operation step failed",
		slog.String("step", string(step)),
		slog.Any("error", err),
	)

	if r.op.Rollback != nil {
		r.op.Rollback(ctx, r.in, step, err)
	}

	return &StepError{Step: step, Cause: err}
}

// Execute runs op against in, step by step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], in I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		err       error
	)

	r := &run[I, P, V, O]{
		logger: logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name)),
		op:     op,
		in:     in,
	}
	start := time.Now()

	if op.Validate != nil {
		if err = op.Validate(ctx, in); err != nil {
			return zero, r.fail(ctx, StepValidate, err)
		}
	}

	if op.Perform != nil {
		if performed, err = op.Perform(ctx, in); err != nil {
			return zero, r.fail(ctx, StepPerform, err)
		}
	}

	if op.Verify != nil {
		if verified, err = op.Verify(ctx, in, performed); err != nil {
			return zero, r.fail(ctx, StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err = op.Archive(ctx, in, verified); err != nil {
			return zero, r.fail(ctx, StepArchive, err)
		}
	}

	var out O
	if op.Respond != nil {
		if out, err = op.Respond(ctx, in, verified); err != nil {
			return zero, r.fail(ctx, StepRespond, err)
		}
	}

	r.logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

// FailedStep reports the step an Execute error came from.
func FailedStep(err error) (Step, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}

	return "", false
}
