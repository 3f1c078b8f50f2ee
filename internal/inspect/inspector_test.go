package inspect

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/halentin/FMI-Viewer/internal/cache"
	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/fmutest"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string]*models.ParseResult
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*models.ParseResult)}
}

func (c *memCache) Get(key string) (*models.ParseResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *memCache) Put(key, _ string, result *models.ParseResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

func countingExtract(i *Inspector) *int32 {
	var calls int32
	inner := i.extract
	i.extract = func(ctx context.Context, path string) (*models.ParseResult, error) {
		atomic.AddInt32(&calls, 1)
		return inner(ctx, path)
	}
	return &calls
}

func TestInspect_UsesCache(t *testing.T) {
	path := fmutest.WriteFMU(t, `<fmiModelDescription fmiVersion="2.0" modelName="Cached"/>`)
	mc := newMemCache()
	i := NewInspector(mc, 1, nil)
	calls := countingExtract(i)

	first, err := i.Inspect(context.Background(), path)
	require.NoError(t, err)
	second, err := i.Inspect(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, first, second)
	assert.Len(t, mc.entries, 1)
}

func TestInspect_CacheReadFailureFallsBack(t *testing.T) {
	path := fmutest.WriteFMU(t, `<fmiModelDescription fmiVersion="2.0" modelName="X"/>`)
	mc := newMemCache()
	mc.getErr = errors.New("boom")
	i := NewInspector(mc, 1, nil)

	r, err := i.Inspect(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "X", r.ModelName)
}

func TestInspect_WithBoltCache(t *testing.T) {
	m, err := cache.Open(filepath.Join(t.TempDir(), "results.db"), nil)
	require.NoError(t, err)
	defer m.Close()

	path := fmutest.WriteFMU(t, `<fmiModelDescription fmiVersion="3.0" modelName="Bolt"/>`)
	i := NewInspector(m, 2, nil)

	_, err = i.Inspect(context.Background(), path)
	require.NoError(t, err)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}

func TestInspect_FailuresAreNotCached(t *testing.T) {
	path := fmutest.WriteArchive(t, "empty.fmu", fmutest.Entry{Name: "readme.txt", Body: "x"})
	mc := newMemCache()
	i := NewInspector(mc, 1, nil)

	_, err := i.Inspect(context.Background(), path)
	assert.True(t, errors.Is(err, fmierrors.ErrMissingDescriptor))
	assert.Empty(t, mc.entries)
}

func TestInspectAll_PreservesOrderAndIsolatesFailures(t *testing.T) {
	good := fmutest.WriteFMU(t, `<fmiModelDescription fmiVersion="2.0" modelName="Good"/>`)
	bad := fmutest.WriteFile(t, "bad.fmu", []byte("not a zip"))
	other := fmutest.WriteFMU(t, `<fmiModelDescription fmiVersion="3.0" modelName="Other"/>`)
	paths := []string{good, bad, other, good}

	i := NewInspector(nil, 3, nil)
	items, summary, err := i.InspectAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, items, 4)

	for idx, item := range items {
		assert.Equal(t, paths[idx], item.Path)
	}
	assert.Equal(t, "Good", items[0].Result.ModelName)
	assert.Nil(t, items[1].Result)
	assert.True(t, errors.Is(items[1].Err, fmierrors.ErrArchive))
	assert.Equal(t, "Other", items[2].Result.ModelName)
	assert.Equal(t, "Good", items[3].Result.ModelName)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
}

func TestInspectAll_Cancelled(t *testing.T) {
	path := fmutest.WriteFMU(t, `<fmiModelDescription fmiVersion="2.0"/>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	i := NewInspector(nil, 2, nil)
	items, summary, err := i.InspectAll(ctx, []string{path, path, path})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.ErrorIs(t, item.Err, context.Canceled)
	}
	assert.Equal(t, 3, summary.Failed)
}

func TestInspectAll_Empty(t *testing.T) {
	items, summary, err := NewInspector(nil, 0, nil).InspectAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, summary.Total)
}
