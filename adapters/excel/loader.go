package excel

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"msmeinsights/domain/table"
	"msmeinsights/internal/metrics"
)

// Loader reads tables through a cache keyed by absolute path. Entries are
// immutable snapshots and are only dropped by Reload or ReloadAll.
type Loader struct {
	logger *zap.Logger
	read   func(ctx context.Context, path string) (*table.Table, error)

	mu         sync.RWMutex
	entries    map[string]*table.Table
	generation uint64
	group      singleflight.Group
}

// NewLoader creates a caching loader backed by DataReader. Files larger than
// maxBytes are treated as unreadable; a non-positive value uses DefaultMaxBytes.
func NewLoader(logger *zap.Logger, maxBytes int64) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger: logger,
		read: func(ctx context.Context, path string) (*table.Table, error) {
			return NewDataReader(path).WithMaxBytes(maxBytes).ReadTable(ctx)
		},
		entries: make(map[string]*table.Table),
	}
}

// Load returns the table at path, or an empty table if it cannot be read.
// Failed reads are cached like successful ones. Concurrent callers share one
// read, which outlives any single caller's context; a caller whose context
// ends first gets an empty table without affecting the others.
func (l *Loader) Load(ctx context.Context, path string) *table.Table {
	key := cacheKey(path)

	l.mu.RLock()
	cached, ok := l.entries[key]
	gen := l.generation
	l.mu.RUnlock()
	if ok {
		metrics.TableCacheHitsTotal.Inc()
		return cached
	}
	if ctx.Err() != nil {
		return table.Empty(path)
	}

	readCtx := context.WithoutCancel(ctx)
	flight := l.group.DoChan(strconv.FormatUint(gen, 10)+"|"+key, func() (interface{}, error) {
		return l.fetch(readCtx, path, key, gen), nil
	})

	select {
	case res := <-flight:
		return res.Val.(*table.Table)
	case <-ctx.Done():
		l.logger.Warn("table load abandoned by caller", zap.String("path", path), zap.Error(ctx.Err()))
		return table.Empty(path)
	}
}

// fetch reads path and stores the result unless a reload happened meanwhile
func (l *Loader) fetch(ctx context.Context, path, key string, gen uint64) *table.Table {
	l.mu.RLock()
	cached, ok := l.entries[key]
	l.mu.RUnlock()
	if ok {
		return cached
	}

	start := time.Now()
	tbl, err := l.read(ctx, path)
	elapsed := time.Since(start)
	metrics.TableLoadDurationSeconds.Observe(elapsed.Seconds())

	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("failed").Inc()
		l.logger.Warn("table unavailable, using empty table",
			zap.String("path", path), zap.Error(err))
		tbl = table.Empty(path)
	} else {
		metrics.TableLoadsTotal.WithLabelValues("ok").Inc()
		l.logger.Info("table loaded",
			zap.String("path", path),
			zap.Int("rows", tbl.Len()),
			zap.Int("columns", len(tbl.Headers())),
			zap.Duration("elapsed", elapsed))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generation != gen {
		l.logger.Debug("discarding table read that predates a reload", zap.String("path", path))
		return tbl
	}
	l.entries[key] = tbl
	return tbl
}

// Reload drops the cached table for path
func (l *Loader) Reload(path string) {
	key := cacheKey(path)
	l.mu.Lock()
	delete(l.entries, key)
	l.generation++
	l.mu.Unlock()
	l.logger.Info("table cache entry dropped", zap.String("path", path))
}

// ReloadAll drops every cached table
func (l *Loader) ReloadAll() {
	l.mu.Lock()
	n := len(l.entries)
	l.entries = make(map[string]*table.Table)
	l.generation++
	l.mu.Unlock()
	l.logger.Info("table cache cleared", zap.Int("entries", n))
}

// Cached reports how many tables are held
func (l *Loader) Cached() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
