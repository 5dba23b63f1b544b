package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
)

// SlotOptions configures a Slot
type SlotOptions struct {
	Runner   RunnerOptions
	Debounce time.Duration
}

// Slot is one scenario column of the dashboard. Lever edits are debounced
// into runs; failed or superseded runs leave the last good result in place.
type Slot struct {
	name      string
	runner    *Runner
	debouncer *Debouncer
	updates   chan *domain.MonteCarloResult
	logger    calculation.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewSlot creates a slot with its own runner over engine
func NewSlot(name string, engine *calculation.MonteCarloEngine, opts SlotOptions) *Slot {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Slot{
		name:      name,
		runner:    NewRunner(engine, opts.Runner),
		debouncer: NewDebouncer(opts.Debounce),
		updates:   make(chan *domain.MonteCarloResult, 1),
		logger:    calculation.NopLogger{},
		ctx:       ctx,
		cancel:    cancel,
	}
	s.runner.OnPublish(s.deliver)
	return s
}

// SetLogger sets the logger for the slot and its runner
func (s *Slot) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	s.logger = l
	s.runner.SetLogger(l)
}

// Name returns the slot name
func (s *Slot) Name() string { return s.name }

// Latest returns the last good result, or nil before the first completes
func (s *Slot) Latest() *domain.MonteCarloResult {
	return s.runner.Latest()
}

// Updates delivers each newly published result. The channel holds only the
// newest undelivered result and is closed by Close.
func (s *Slot) Updates() <-chan *domain.MonteCarloResult {
	return s.updates
}

// Request schedules a run for levers after the debounce window. Requests
// arriving within the window collapse into the last one.
func (s *Slot) Request(levers domain.LeverState, cfg domain.SimulationConfig) {
	s.debouncer.Trigger(func() {
		if !s.begin() {
			return
		}
		defer s.wg.Done()
		s.run(s.ctx, levers, cfg)
	})
}

// RunNow runs immediately, bypassing the debounce window. It returns the
// slot's latest result afterwards and whether this run produced it.
func (s *Slot) RunNow(ctx context.Context, levers domain.LeverState, cfg domain.SimulationConfig) (*domain.MonteCarloResult, bool) {
	if !s.begin() {
		return s.Latest(), false
	}
	defer s.wg.Done()

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-s.ctx.Done():
			stop()
		case <-ctx.Done():
		}
	}()
	return s.run(ctx, levers, cfg)
}

// Close cancels pending and in-flight work and closes Updates
func (s *Slot) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
	s.wg.Wait()
	close(s.updates)
}

func (s *Slot) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Slot) run(ctx context.Context, levers domain.LeverState, cfg domain.SimulationConfig) (*domain.MonteCarloResult, bool) {
	res, err := s.runner.RunChunked(ctx, levers, cfg)
	if err != nil {
		s.logger.Debugf("slot %s kept previous result: %v", s.name, err)
		return s.Latest(), false
	}
	return res, true
}

// deliver runs under the runner's publish lock, so sends are ordered by
// generation. A result nobody has read yet is replaced by the newer one.
func (s *Slot) deliver(res *domain.MonteCarloResult) {
	select {
	case s.updates <- res:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- res:
	default:
	}
}
