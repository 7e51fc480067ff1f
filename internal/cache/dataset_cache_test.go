package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"adspend/domain/dataset"
	"adspend/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	args := m.Called(ctx, path)
	ds, _ := args.Get(0).(*dataset.Dataset)
	return ds, args.Error(1)
}

func tinyDataset(source string, revenue float64) *dataset.Dataset {
	columns := []dataset.Column{
		{ColumnSpec: dataset.ColumnSpec{Letter: "EI", Field: dataset.FieldRevenue2025, Kind: dataset.KindNumeric}, Header: "REVENUE 2025"},
	}
	return dataset.New(source, columns, []dataset.Row{{dataset.NumCell(revenue)}})
}

func touch(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestGetMemoizesUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	base := time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)
	touch(t, path, "v1", base)

	loader := &mockLoader{}
	first := tinyDataset(path, 1)
	second := tinyDataset(path, 2)
	loader.On("Load", mock.Anything, path).Return(first, nil).Once()
	loader.On("Load", mock.Anything, path).Return(second, nil).Once()

	c := NewDatasetCache(loader, nil)
	ctx := context.Background()

	got, err := c.Get(ctx, path)
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = c.Get(ctx, path)
	require.NoError(t, err)
	assert.Same(t, first, got, "unchanged file is served from cache")

	touch(t, path, "v2", base.Add(time.Minute))

	got, err = c.Get(ctx, path)
	require.NoError(t, err)
	assert.Same(t, second, got, "new mtime forces a reload")

	loader.AssertExpectations(t)
	assert.Equal(t, CacheStats{Hits: 1, Misses: 2}, c.Stats())
}

func TestGetMissingFileDropsEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	touch(t, path, "v1", time.Now())

	loader := &mockLoader{}
	loader.On("Load", mock.Anything, path).Return(tinyDataset(path, 1), nil).Once()

	c := NewDatasetCache(loader, nil)
	_, err := c.Get(context.Background(), path)
	require.NoError(t, err)
	require.True(t, c.Cached(path))

	require.NoError(t, os.Remove(path))

	_, err = c.Get(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataUnavailable, errors.GetCode(err))
	assert.False(t, c.Cached(path))
}

func TestGetDoesNotCacheFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	touch(t, path, "v1", time.Now())

	loader := &mockLoader{}
	loader.On("Load", mock.Anything, path).Return(nil, errors.SchemaError("column DV has no header text")).Once()
	loader.On("Load", mock.Anything, path).Return(tinyDataset(path, 1), nil).Once()

	c := NewDatasetCache(loader, nil)

	_, err := c.Get(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaError, errors.GetCode(err))

	ds, err := c.Get(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	loader.AssertExpectations(t)
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	touch(t, path, "v1", time.Now())

	release := make(chan struct{})
	loader := &mockLoader{}
	loader.On("Load", mock.Anything, path).
		Run(func(mock.Arguments) { <-release }).
		Return(tinyDataset(path, 1), nil).
		Once()

	c := NewDatasetCache(loader, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*dataset.Dataset, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := c.Get(context.Background(), path)
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}

	// let every goroutine reach the in-flight load before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	loader.AssertNumberOfCalls(t, "Load", 1)
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestInvalidateAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	touch(t, path, "v1", time.Now())

	loader := &mockLoader{}
	loader.On("Load", mock.Anything, path).Return(tinyDataset(path, 1), nil)

	c := NewDatasetCache(loader, nil)
	_, err := c.Get(context.Background(), path)
	require.NoError(t, err)

	c.Invalidate(path)
	assert.False(t, c.Cached(path))
	c.Invalidate(path) // no-op

	_, err = c.Get(context.Background(), path)
	require.NoError(t, err)
	c.Clear()
	assert.False(t, c.Cached(path))

	assert.Equal(t, 2, c.Stats().Invalidations)
	loader.AssertNumberOfCalls(t, "Load", 2)
}

// blockingLoader waits for release and aborts when its ctx is cancelled, like the excel loader
type blockingLoader struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	ds      *dataset.Dataset
}

func (l *blockingLoader) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	close(l.started)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.release:
		return l.ds, nil
	}
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	touch(t, path, "v1", time.Now())

	loader := &blockingLoader{
		started: make(chan struct{}),
		release: make(chan struct{}),
		ds:      tinyDataset(path, 7),
	}
	c := NewDatasetCache(loader, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, path)
		errA <- err
	}()
	<-loader.started

	type result struct {
		ds  *dataset.Dataset
		err error
	}
	resB := make(chan result, 1)
	go func() {
		ds, err := c.Get(context.Background(), path)
		resB <- result{ds, err}
	}()

	// let the second caller join the in-flight load
	time.Sleep(50 * time.Millisecond)
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(loader.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Same(t, loader.ds, b.ds)

	assert.Equal(t, 1, loader.calls)
	assert.True(t, c.Cached(path), "the shared load still fills the cache")
}
