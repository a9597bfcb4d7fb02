package excel

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msmeinsights/domain/table"
)

func TestLoader_MissingFileYieldsEmptyTable(t *testing.T) {
	loader := NewLoader(nil, 0)

	tbl := loader.Load(context.Background(), filepath.Join(t.TempDir(), "csic_database.csv"))

	require.NotNil(t, tbl)
	assert.True(t, tbl.IsEmpty())
	assert.Empty(t, tbl.Headers())
}

func TestLoader_CachesByAbsolutePath(t *testing.T) {
	path := writeFile(t, "full.csv", "classification\n0\n1\n")
	loader := NewLoader(nil, 0)

	var reads int32
	inner := loader.read
	loader.read = func(ctx context.Context, p string) (*table.Table, error) {
		atomic.AddInt32(&reads, 1)
		return inner(ctx, p)
	}

	first := loader.Load(context.Background(), path)
	second := loader.Load(context.Background(), filepath.Join(filepath.Dir(path), ".", "full.csv"))

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&reads))
	assert.Equal(t, 1, loader.Cached())
}

func TestLoader_ConcurrentLoadsShareOneRead(t *testing.T) {
	loader := NewLoader(nil, 0)

	var reads int32
	loader.read = func(ctx context.Context, p string) (*table.Table, error) {
		atomic.AddInt32(&reads, 1)
		time.Sleep(20 * time.Millisecond)
		return table.New(p, []string{"host"}, []table.Row{{"host": "a"}}), nil
	}

	var wg sync.WaitGroup
	results := make([]*table.Table, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = loader.Load(context.Background(), "expl.csv")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&reads))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestLoader_ReloadReadsAgain(t *testing.T) {
	loader := NewLoader(nil, 0)

	var reads int32
	loader.read = func(ctx context.Context, p string) (*table.Table, error) {
		if atomic.AddInt32(&reads, 1) == 1 {
			return nil, errors.New("not there yet")
		}
		return table.New(p, []string{"classification"}, []table.Row{{"classification": "1"}}), nil
	}

	assert.True(t, loader.Load(context.Background(), "full.csv").IsEmpty())
	assert.True(t, loader.Load(context.Background(), "full.csv").IsEmpty(), "failed load stays cached")

	loader.Reload("full.csv")
	assert.Equal(t, 1, loader.Load(context.Background(), "full.csv").Len())

	loader.ReloadAll()
	assert.Equal(t, 0, loader.Cached())
	assert.Equal(t, int32(2), atomic.LoadInt32(&reads))
}

func TestLoader_CancelledReadNotCached(t *testing.T) {
	path := writeFile(t, "full.csv", "classification\n1\n")
	loader := NewLoader(nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, loader.Load(ctx, path).IsEmpty())
	assert.Equal(t, 0, loader.Cached())

	assert.Equal(t, 1, loader.Load(context.Background(), path).Len())
}

func TestLoader_AbandonedCallerDoesNotFailSharedRead(t *testing.T) {
	loader := NewLoader(nil, 0)

	var reads int32
	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	loader.read = func(ctx context.Context, p string) (*table.Table, error) {
		atomic.AddInt32(&reads, 1)
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return table.New(p, []string{"classification"}, []table.Row{{"classification": "1"}}), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := make(chan *table.Table, 1)
	go func() { abandoned <- loader.Load(ctx, "full.csv") }()
	<-started

	healthy := make(chan *table.Table, 1)
	go func() { healthy <- loader.Load(context.Background(), "full.csv") }()

	cancel()
	assert.True(t, (<-abandoned).IsEmpty())

	close(release)
	assert.Equal(t, 1, (<-healthy).Len())
	assert.Equal(t, int32(1), atomic.LoadInt32(&reads))
	assert.Equal(t, 1, loader.Load(context.Background(), "full.csv").Len())
}

func TestLoader_ReloadDuringReadKeepsFreshSnapshot(t *testing.T) {
	loader := NewLoader(nil, 0)

	var reads int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader.read = func(ctx context.Context, p string) (*table.Table, error) {
		rows := []table.Row{{"classification": "1"}}
		if atomic.AddInt32(&reads, 1) == 1 {
			close(started)
			<-release
			return table.New(p, []string{"classification"}, rows), nil
		}
		rows = append(rows, table.Row{"classification": "0"})
		return table.New(p, []string{"classification"}, rows), nil
	}

	stale := make(chan *table.Table, 1)
	go func() { stale <- loader.Load(context.Background(), "full.csv") }()
	<-started

	loader.Reload("full.csv")
	assert.Equal(t, 2, loader.Load(context.Background(), "full.csv").Len(), "loads after a reload start a new read")

	close(release)
	assert.Equal(t, 1, (<-stale).Len())

	assert.Equal(t, 2, loader.Load(context.Background(), "full.csv").Len(), "earlier read must not replace the reloaded entry")
	assert.Equal(t, int32(2), atomic.LoadInt32(&reads))
}

func TestLoader_OversizedFileYieldsEmptyTable(t *testing.T) {
	path := writeFile(t, "full.csv", "classification\n0\n1\n0\n1\n")

	assert.True(t, NewLoader(nil, 8).Load(context.Background(), path).IsEmpty())
	assert.Equal(t, 4, NewLoader(nil, 0).Load(context.Background(), path).Len())
}
