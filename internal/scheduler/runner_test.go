package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/runwaysim/internal/calculation"
	"github.com/rgehrsitz/runwaysim/internal/domain"
)

func newEngine() *calculation.MonteCarloEngine {
	return calculation.NewMonteCarloEngine(calculation.DefaultEngineOptions())
}

func simConfig(iterations int, seed uint64) domain.SimulationConfig {
	cfg := domain.SimulationConfigFromBaseline(domain.DefaultBaseline(), iterations, 12)
	cfg.Seed = seed
	return cfg
}

func countingYield(n *atomic.Int32) YieldFunc {
	return func(ctx context.Context) error {
		n.Add(1)
		return ctx.Err()
	}
}

func TestRunner_YieldsAfterEverySlice(t *testing.T) {
	tests := []struct {
		iterations int
		chunk      int
		want       int32
	}{
		{2000, 500, 4},
		{1001, 500, 3},
		{10, 500, 1},
	}

	for _, tt := range tests {
		var yields atomic.Int32
		r := NewRunner(newEngine(), RunnerOptions{ChunkSize: tt.chunk, Yield: countingYield(&yields)})

		res, err := r.RunChunked(context.Background(), domain.DefaultLevers(), simConfig(tt.iterations, 1))
		require.NoError(t, err)
		assert.Equal(t, tt.iterations, res.Iterations)
		assert.Equal(t, tt.want, yields.Load(), "iterations=%d chunk=%d", tt.iterations, tt.chunk)
	}
}

func TestRunner_MatchesUnchunkedRun(t *testing.T) {
	engine := newEngine()
	cfg := simConfig(1200, 9)
	levers := domain.DefaultLevers().With(domain.LeverPricingPower, 70)

	chunked, err := NewRunner(engine, RunnerOptions{ChunkSize: 250}).RunChunked(context.Background(), levers, cfg)
	require.NoError(t, err)
	direct, err := engine.Run(context.Background(), levers, cfg)
	require.NoError(t, err)

	assert.Equal(t, direct.SurvivalByMonth, chunked.SurvivalByMonth)
	assert.Equal(t, direct.EVSamples, chunked.EVSamples)
	assert.Equal(t, direct.SensitivityFactors, chunked.SensitivityFactors)
	assert.Equal(t, uint64(1), chunked.Generation)
	assert.NotEmpty(t, chunked.RunID)
}

func TestRunner_StaleResultIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	var blockFirst atomic.Bool
	blockFirst.Store(true)

	r := NewRunner(newEngine(), RunnerOptions{
		ChunkSize: 50,
		Yield: func(ctx context.Context) error {
			if blockFirst.CompareAndSwap(true, false) {
				close(entered)
				<-gate
			}
			return nil
		},
	})

	levers1 := domain.DefaultLevers().With(domain.LeverCostDiscipline, 10)
	levers2 := domain.DefaultLevers().With(domain.LeverCostDiscipline, 90)
	c1 := simConfig(200, 1)
	c2 := simConfig(100, 2)

	firstErr := make(chan error, 1)
	go func() {
		_, err := r.RunChunked(context.Background(), levers1, c1)
		firstErr <- err
	}()
	<-entered

	// G2 starts and completes while G1 is parked mid-run
	res2, err := r.RunChunked(context.Background(), levers2, c2)
	require.NoError(t, err)
	close(gate)

	assert.ErrorIs(t, <-firstErr, ErrSuperseded)
	latest := r.Latest()
	require.NotNil(t, latest)
	assert.Same(t, res2, latest)
	assert.True(t, latest.Tag.Matches(c2, levers2))
	assert.False(t, latest.Tag.Matches(c1, levers1))
	assert.Equal(t, uint64(2), latest.Generation)
}

func TestRunner_OlderRunFinishingLastNeverPublishes(t *testing.T) {
	release := make(chan struct{})
	var published []uint64

	var calls atomic.Int32
	r := NewRunner(newEngine(), RunnerOptions{
		ChunkSize: 100,
		Yield: func(ctx context.Context) error {
			// park only the first run's final slice
			if calls.Add(1) == 2 {
				<-release
			}
			return nil
		},
	})
	r.OnPublish(func(res *domain.MonteCarloResult) {
		published = append(published, res.Generation)
	})

	done := make(chan error, 1)
	go func() {
		_, err := r.RunChunked(context.Background(), domain.DefaultLevers(), simConfig(200, 1))
		done <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, timeout, tick)

	_, err := r.RunChunked(context.Background(), domain.DefaultLevers(), simConfig(100, 2))
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, []uint64{2}, published)
}

func TestRunner_PanicKeepsPreviousResult(t *testing.T) {
	var explode atomic.Bool
	r := NewRunner(newEngine(), RunnerOptions{
		Yield: func(ctx context.Context) error {
			if explode.Load() {
				panic("slice blew up")
			}
			return nil
		},
	})

	good, err := r.RunChunked(context.Background(), domain.DefaultLevers(), simConfig(100, 1))
	require.NoError(t, err)

	explode.Store(true)
	res, err := r.RunChunked(context.Background(), domain.DefaultLevers(), simConfig(100, 2))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrRunFailed)
	assert.Contains(t, err.Error(), "slice blew up")
	assert.Same(t, good, r.Latest())
}

func TestRunner_Cancellation(t *testing.T) {
	r := NewRunner(newEngine(), RunnerOptions{ChunkSize: 10})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.RunChunked(ctx, domain.DefaultLevers(), simConfig(100, 1))

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, r.Latest())
}

func TestRunner_DefaultsAndLogger(t *testing.T) {
	r := NewRunner(newEngine(), RunnerOptions{})
	assert.Equal(t, DefaultChunkSize, r.opts.ChunkSize)
	assert.NotNil(t, r.opts.Yield)
	assert.IsType(t, calculation.NopLogger{}, r.Logger)

	r.SetLogger(nil)
	assert.IsType(t, calculation.NopLogger{}, r.Logger)
	assert.Zero(t, r.Generation())
}
