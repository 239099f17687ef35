// =============================================================================
// Scan to CSV - Capture Workflow
// =============================================================================
//
// This module runs one capture per trigger: the operator confirms a scan and
// the workflow turns it into a delivered CSV file.
//
// STATES:
//   Idle -> Formatting -> Materializing -> Delivering -> Done
//                 \             \              \
//                  +-------------+--------------+--> Failed
//
//   Formatting    : csvwriter.BuildRecord, operator fields from one
//                   configuration snapshot
//   Materializing : Materializer.WriteTempRecord
//   Delivering    : Deliverer.Deliver
//
// Every run ends in Done or Failed. Finish hooks run after every run, in
// both cases; the presentation layer uses them to clear its input. Runs are
// serialized: a second trigger waits for the current one.
//
// =============================================================================

package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/scan-to-csv/internal/config"
	"github.com/ginjaninja78/scan-to-csv/internal/csvwriter"
	"github.com/ginjaninja78/scan-to-csv/internal/messages"
	"github.com/ginjaninja78/scan-to-csv/internal/types"
)

// =============================================================================
// STATES AND RESULT
// =============================================================================

// State is a workflow state.
type State string

const (
	StateIdle          State = "Idle"
	StateFormatting    State = "Formatting"
	StateMaterializing State = "Materializing"
	StateDelivering    State = "Delivering"
	StateDone          State = "Done"
	StateFailed        State = "Failed"
)

// Result represents the outcome of one run.
type Result struct {
	// RunID correlates the run's log lines.
	RunID string

	// State is StateDone or StateFailed.
	State State

	// FailedAt is the state that failed (empty on success).
	FailedAt State

	// Record is the formatted record (zero if formatting failed).
	Record types.Record

	// Artifact is the temp file (zero if it was never written).
	Artifact types.TempArtifact

	// Receipt describes the delivered file (zero unless Done).
	Receipt types.Receipt

	// Err is the classified failure, nil on success.
	Err error

	// Message is the operator-facing text for the outcome.
	Message string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Success reports whether the run reached Done.
func (r Result) Success() bool {
	return r.State == StateDone
}

// Kind returns the failure kind, or "" on success.
func (r Result) Kind() types.ErrorKind {
	return types.KindOf(r.Err)
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Materializer writes a record to a temp artifact.
type Materializer interface {
	WriteTempRecord(rec types.Record) (types.TempArtifact, error)
}

// Deliverer relocates a temp artifact to the destination.
type Deliverer interface {
	Deliver(a types.TempArtifact) (types.Receipt, error)
}

// FinishHook is called after every run.
type FinishHook func(Result)

// =============================================================================
// WORKFLOW
// =============================================================================

// Workflow sequences formatting, materializing and delivery.
type Workflow struct {
	cfg          config.Source
	materializer Materializer
	deliverer    Deliverer
	now          func() time.Time
	logger       *slog.Logger
	onFinish     []FinishHook

	runMu sync.Mutex

	stateMu sync.Mutex
	state   State
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock overrides the capture clock.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

// OnFinish registers a hook that runs after every run.
func OnFinish(hook FinishHook) Option {
	return func(w *Workflow) { w.onFinish = append(w.onFinish, hook) }
}

// New creates a Workflow.
func New(cfg config.Source, m Materializer, d Deliverer, opts ...Option) *Workflow {
	w := &Workflow{
		cfg:          cfg,
		materializer: m,
		deliverer:    d,
		now:          time.Now,
		logger:       slog.Default(),
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state. Between runs it is always Idle.
func (w *Workflow) State() State {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return w.state
}

func (w *Workflow) setState(s State) {
	w.stateMu.Lock()
	w.state = s
	w.stateMu.Unlock()
}

// Run executes one capture for scanInput.
//
// Run never panics: a panic in a collaborator becomes an
// UnexpectedFailure result.
func (w *Workflow) Run(scanInput string) (res Result) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	start := time.Now()
	res.RunID = uuid.NewString()
	log := w.logger.With("source", "workflow", "run_id", res.RunID)

	defer func() {
		if p := recover(); p != nil {
			res.State = StateFailed
			if res.FailedAt == "" {
				res.FailedAt = w.State()
			}
			res.Err = types.NewError(types.KindUnexpectedFailure, string(res.FailedAt), fmt.Errorf("panic: %v", p))
			res.Message = messages.ForError(res.Err)
		}
		res.Duration = time.Since(start)
		w.finish(log, res)
	}()

	// Formatting
	w.enter(log, StateFormatting)
	op := config.OperatorContext(config.Snapshot(w.cfg))
	rec, err := csvwriter.BuildRecord(scanInput, op, w.now())
	if err != nil {
		return w.fail(res, StateFormatting, err)
	}
	res.Record = rec

	// Materializing
	w.enter(log, StateMaterializing)
	a, err := w.materializer.WriteTempRecord(rec)
	if err != nil {
		return w.fail(res, StateMaterializing, err)
	}
	res.Artifact = a

	// Delivering
	w.enter(log, StateDelivering)
	receipt, err := w.deliverer.Deliver(a)
	if err != nil {
		return w.fail(res, StateDelivering, err)
	}
	res.Receipt = receipt

	res.State = StateDone
	res.Message = messages.Text(messages.Info002)
	return res
}

func (w *Workflow) enter(log *slog.Logger, s State) {
	w.setState(s)
	log.Debug("state", "state", string(s))
}

func (w *Workflow) fail(res Result, at State, err error) Result {
	var classified *types.Error
	if !errors.As(err, &classified) {
		err = types.NewError(types.KindUnexpectedFailure, string(at), err)
	}
	res.State = StateFailed
	res.FailedAt = at
	res.Err = err
	res.Message = messages.ForError(err)
	return res
}

// finish logs the outcome, returns to Idle and runs hooks.
func (w *Workflow) finish(log *slog.Logger, res Result) {
	w.setState(StateIdle)

	if res.Success() {
		log.Info("capture delivered",
			"transaction_no", res.Record.TransactionNo,
			"file", res.Artifact.Name,
			"destination", res.Receipt.Destination,
			"duration", res.Duration)
	} else {
		log.Error("capture failed",
			"state", string(res.FailedAt),
			"kind", string(res.Kind()),
			"transaction_no", res.Record.TransactionNo,
			"temp_file", res.Artifact.Path(),
			"message", res.Message,
			"error", res.Err)
	}

	for _, hook := range w.onFinish {
		w.runHook(log, hook, res)
	}
}

func (w *Workflow) runHook(log *slog.Logger, hook FinishHook, res Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("finish hook panicked", "panic", p)
		}
	}()
	hook(res)
}
