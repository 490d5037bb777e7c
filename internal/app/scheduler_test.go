package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

type countingLoader struct {
	loads atomic.Int32

	mu   sync.Mutex
	last model.SlotFilter
}

func (l *countingLoader) RequestLoad(filter model.SlotFilter) {
	l.mu.Lock()
	l.last = filter
	l.mu.Unlock()
	l.loads.Add(1)
}

func (l *countingLoader) lastFilter() model.SlotFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

func TestScheduler_ReloadsPeriodically(t *testing.T) {
	loader := &countingLoader{}
	var windows atomic.Int32
	window := func() model.SlotFilter {
		windows.Add(1)
		return model.SlotFilter{}
	}

	s := NewScheduler(loader, window, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool { return loader.loads.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	stopped := loader.loads.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, loader.loads.Load())
	assert.Equal(t, stopped, windows.Load(), "window is recomputed on every tick")
}

func TestScheduler_RequestsCurrentWindow(t *testing.T) {
	loader := &countingLoader{}
	ctx, cancel := context.WithCancel(context.Background())

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)
	window := func() model.SlotFilter { return model.SlotFilter{From: &from, To: &to} }

	s := NewScheduler(loader, window, 5*time.Millisecond, zap.NewNop())
	s.Start(ctx)

	require.Eventually(t, func() bool { return loader.loads.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()

	got := loader.lastFilter()
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.True(t, from.Equal(*got.From))
	assert.True(t, to.Equal(*got.To))
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("production", "warn")
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	dev := NewLogger("development", "not-a-level")
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))
}
