package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudknight/hsproxy/internal/logger"
)

func testLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// recorder keeps the order services were started and stopped in
type recorder struct {
	events []string
	mu     sync.Mutex
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeService struct {
	rec      *recorder
	startErr error
	name     string
	deps     []string
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.rec.add("start:" + f.name)
	return nil
}

func (f *fakeService) Stop(ctx context.Context) error {
	f.rec.add("stop:" + f.name)
	return nil
}

func TestServiceManager_StartsDependenciesFirst(t *testing.T) {
	rec := &recorder{}
	sm := NewServiceManager(testLogger())

	require.NoError(t, sm.Register(&fakeService{rec: rec, name: "http", deps: []string{"forwarder", "stats"}}))
	require.NoError(t, sm.Register(&fakeService{rec: rec, name: "forwarder"}))
	require.NoError(t, sm.Register(&fakeService{rec: rec, name: "stats"}))

	require.NoError(t, sm.Start(context.Background()))
	events := rec.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, "start:http", events[2])

	require.NoError(t, sm.Stop(context.Background()))
	events = rec.snapshot()
	assert.Equal(t, "stop:http", events[3])
}

func TestServiceManager_RollsBackOnFailure(t *testing.T) {
	rec := &recorder{}
	sm := NewServiceManager(testLogger())
	boom := errors.New("boom")

	require.NoError(t, sm.Register(&fakeService{rec: rec, name: "a"}))
	require.NoError(t, sm.Register(&fakeService{rec: rec, name: "b", deps: []string{"a"}}))
	require.NoError(t, sm.Register(&fakeService{rec: rec, name: "c", deps: []string{"b"}, startErr: boom}))

	err := sm.Start(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, rec.snapshot())
}

func TestServiceManager_DuplicateRegistration(t *testing.T) {
	sm := NewServiceManager(testLogger())
	require.NoError(t, sm.Register(&fakeService{rec: &recorder{}, name: "a"}))
	assert.Error(t, sm.Register(&fakeService{rec: &recorder{}, name: "a"}))
}

func TestServiceManager_UnknownDependency(t *testing.T) {
	sm := NewServiceManager(testLogger())
	require.NoError(t, sm.Register(&fakeService{rec: &recorder{}, name: "a", deps: []string{"missing"}}))

	err := sm.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestServiceManager_CircularDependency(t *testing.T) {
	sm := NewServiceManager(testLogger())
	require.NoError(t, sm.Register(&fakeService{rec: &recorder{}, name: "a", deps: []string{"b"}}))
	require.NoError(t, sm.Register(&fakeService{rec: &recorder{}, name: "b", deps: []string{"a"}}))

	assert.ErrorIs(t, sm.Start(context.Background()), ErrCircularDependency)
}

func TestServiceRegistry_TypedLookup(t *testing.T) {
	sm := NewServiceManager(testLogger())
	stats := NewStatsService(testLogger())
	require.NoError(t, sm.Register(stats))

	got, err := sm.GetRegistry().GetStats()
	require.NoError(t, err)
	assert.Same(t, stats, got)

	_, err = sm.GetRegistry().GetHTTP()
	assert.Error(t, err)
}

func TestServiceManager_StableOrderAndSingleStop(t *testing.T) {
	rec := &recorder{}
	sm := NewServiceManager(testLogger())
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, sm.Register(&fakeService{rec: rec, name: name}))
	}

	require.NoError(t, sm.Start(context.Background()))
	require.NoError(t, sm.Stop(context.Background()))
	require.NoError(t, sm.Stop(context.Background()))

	assert.Equal(t, []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}, rec.snapshot())
}
