// Package scheduler drives Monte Carlo runs in bounded slices and makes sure
// a result from an older request never replaces one from a newer request.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// DefaultChunkSize is the number of trials computed between yield points
const DefaultChunkSize = 500

var (
	// ErrSuperseded is returned when a newer request started before this run finished
	ErrSuperseded = errors.New("simulation run superseded by a newer request")
	// ErrRunFailed wraps a panic raised while computing a slice
	ErrRunFailed = errors.New("simulation run failed")
)

// YieldFunc hands control back to the host between slices. Returning an
// error abandons the run.
type YieldFunc func(ctx context.Context) error

// GoschedYield yields the processor and reports context cancellation
func GoschedYield(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}

// RunnerOptions configures a Runner
type RunnerOptions struct {
	ChunkSize int
	Yield     YieldFunc
}

func (o RunnerOptions) normalized() RunnerOptions {
	if o.ChunkSize < 1 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Yield == nil {
		o.Yield = GoschedYield
	}
	return o
}

// Runner executes chunked runs for a single slot. Every call to RunChunked
// takes a new generation; only the newest generation may publish.
type Runner struct {
	engine *calculation.MonteCarloEngine
	opts   RunnerOptions
	Logger calculation.Logger

	generation atomic.Uint64

	mu        sync.Mutex
	latest    *domain.MonteCarloResult
	onPublish func(*domain.MonteCarloResult)
}

// NewRunner creates a runner over engine
func NewRunner(engine *calculation.MonteCarloEngine, opts RunnerOptions) *Runner {
	return &Runner{
		engine: engine,
		opts:   opts.normalized(),
		Logger: calculation.NopLogger{},
	}
}

// SetLogger sets the logger; nil installs a no-op logger
func (r *Runner) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	r.Logger = l
}

// OnPublish registers a callback invoked, under the publish lock, with every
// result that becomes the latest. The callback must not block.
func (r *Runner) OnPublish(fn func(*domain.MonteCarloResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onPublish = fn
}

// Generation returns the most recently issued generation
func (r *Runner) Generation() uint64 {
	return r.generation.Load()
}

// Latest returns the last published result, or nil if none has completed
func (r *Runner) Latest() *domain.MonteCarloResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// RunChunked runs cfg.Iterations trials in slices of ChunkSize, yielding
// after each slice. If a newer call starts before this one completes, this
// one stops at its next slice boundary and returns ErrSuperseded. A panic
// inside a slice is returned as ErrRunFailed; the previous result stays
// published either way.
func (r *Runner) RunChunked(ctx context.Context, levers domain.LeverState, cfg domain.SimulationConfig) (*domain.MonteCarloResult, error) {
	gen := r.generation.Add(1)
	runID := uuid.NewString()
	cfg = cfg.Normalized()
	levers = levers.Clamped()

	r.Logger.Debugf("run %s gen=%d started: iterations=%d horizon=%d", runID, gen, cfg.Iterations, cfg.TimeHorizonMonths)

	res, err := r.execute(ctx, gen, levers, cfg)
	if err != nil {
		r.logOutcome(runID, gen, err)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation.Load() != gen {
		r.logOutcome(runID, gen, ErrSuperseded)
		return nil, ErrSuperseded
	}
	res.Generation = gen
	res.RunID = runID
	r.latest = res
	if r.onPublish != nil {
		r.onPublish(res)
	}
	r.Logger.Debugf("run %s gen=%d published: survival=%.3f", runID, gen, res.SurvivalRate)
	return res, nil
}

func (r *Runner) execute(ctx context.Context, gen uint64, levers domain.LeverState, cfg domain.SimulationConfig) (res *domain.MonteCarloResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrRunFailed, p)
		}
	}()

	trials := make([]domain.SingleSimulationResult, 0, cfg.Iterations)
	for start := 0; start < cfg.Iterations; start += r.opts.ChunkSize {
		end := min(start+r.opts.ChunkSize, cfg.Iterations)
		trials = r.engine.RunRange(trials, start, end, levers, cfg)

		if err := r.opts.Yield(ctx); err != nil {
			return nil, err
		}
		if r.generation.Load() != gen {
			return nil, ErrSuperseded
		}
	}
	return r.engine.Aggregate(trials, cfg, levers), nil
}

func (r *Runner) logOutcome(runID string, gen uint64, err error) {
	switch {
	case errors.Is(err, ErrSuperseded):
		r.Logger.Debugf("run %s gen=%d discarded: superseded by gen=%d", runID, gen, r.generation.Load())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		r.Logger.Debugf("run %s gen=%d cancelled: %v", runID, gen, err)
	default:
		r.Logger.Warnf("run %s gen=%d failed: %v", runID, gen, err)
	}
}
