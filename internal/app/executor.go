package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/route-fetch-service/internal/platform/logging"
)

// An Operation runs as validate, perform, verify, respond. The route pipeline
// maps onto it as: check the request, fetch the raw provider payload, detect
// provider errors and translate, encode the document. The first failing step
// ends the run with an *ExecutionError naming that step.

// ExecutionStep names a pipeline step.
type ExecutionStep string

// Pipeline steps, in execution order.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepRespond  ExecutionStep = "respond"
)

// stepFailure is the message attached to each step's error.
var stepFailure = map[ExecutionStep]string{
	StepValidate: "input validation failed",
	StepPerform:  "operation failed",
	StepVerify:   "verification failed",
	StepRespond:  "preparing response failed",
}

// ExecutionError records the step that stopped an operation.
// Cause keeps the domain error so errors.Is and the domain predicates see through it.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
	}

	return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// ExecutionObserver is notified once per finished operation.
// err is nil on success; otherwise it is the *ExecutionError returned to the caller.
type ExecutionObserver interface {
	ObserveExecution(ctx context.Context, operation string, duration time.Duration, err error)
}

// Executor runs operations and logs each step.
type Executor struct {
	logger   *slog.Logger
	observer ExecutionObserver
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithObserver reports every finished operation to o.
func WithObserver(o ExecutionObserver) ExecutorOption {
	return func(e *Executor) {
		e.observer = o
	}
}

// NewExecutor creates an executor logging to logger, or slog.Default when nil.
func NewExecutor(logger *slog.Logger, opts ...ExecutorOption) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Executor{logger: logger}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Operation holds the step functions of one use case. Nil steps are skipped
// and pass the zero value on.
// I is the input, P the raw output of Perform, V the verified value, O the response.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op on input and reports the outcome to the executor's observer.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	result, err := runOperation(ctx, logger, op, input)

	elapsed := time.Since(start)
	if exec.observer != nil {
		exec.observer.ObserveExecution(ctx, op.Name, elapsed, err)
	}

	if err == nil {
		logger.InfoContext(ctx, "operation completed", slog.Duration("duration", elapsed))
	}

	return result, err
}

func runOperation[I, P, V, O any](ctx context.Context, logger *slog.Logger, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	var validate func() (struct{}, error)
	if op.Validate != nil {
		validate = func() (struct{}, error) { return struct{}{}, op.Validate(ctx, input) }
	}

	if _, err := runStep(ctx, logger, StepValidate, validate); err != nil {
		return zero, err
	}

	var perform func() (P, error)
	if op.Perform != nil {
		logger.DebugContext(ctx, "performing operation")

		perform = func() (P, error) { return op.Perform(ctx, input) }
	}

	performed, err := runStep(ctx, logger, StepPerform, perform)
	if err != nil {
		return zero, err
	}

	var verify func() (V, error)
	if op.Verify != nil {
		verify = func() (V, error) { return op.Verify(ctx, input, performed) }
	}

	verified, err := runStep(ctx, logger, StepVerify, verify)
	if err != nil {
		return zero, err
	}

	var respond func() (O, error)
	if op.Respond != nil {
		respond = func() (O, error) { return op.Respond(ctx, input, verified) }
	}

	return runStep(ctx, logger, StepRespond, respond)
}

// runStep calls fn, tagging its error with step. Caller mistakes (validate,
// verify) log at warn; dependency and encoding failures log at error.
func runStep[T any](ctx context.Context, logger *slog.Logger, step ExecutionStep, fn func() (T, error)) (T, error) {
	var zero T

	if fn == nil {
		return zero, nil
	}

	out, err := fn()
	if err != nil {
		level := slog.LevelError
		if step == StepValidate || step == StepVerify {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, string(step)+" failed", slog.Any("error", err))

		return zero, &ExecutionError{Step: step, Message: stepFailure[step], Cause: err}
	}

	logging.Trace(ctx, logger, string(step)+" passed")

	return out, nil
}

// IsExecutionError reports whether err came out of Execute.
func IsExecutionError(err error) bool {
	_, ok := GetExecutionStep(err)
	return ok
}

// GetExecutionStep returns the step that produced err.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		return "", false
	}

	return execErr.Step, true
}
