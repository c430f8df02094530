package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macsweep/macsweep/internal/config"
	"github.com/macsweep/macsweep/internal/rules"
)

const mib = 1024 * 1024

// newTestLayout roots a fake home under the package dir; the system temp
// dir sits under deny-listed prefixes (/tmp, /var/folders) and the safety
// rules would block every path inside it.
func newTestLayout(t *testing.T) config.Layout {
	t.Helper()
	dir, err := os.MkdirTemp(".", "home-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	home, err := filepath.Abs(dir)
	require.NoError(t, err)
	home, err = filepath.EvalSymlinks(home)
	require.NoError(t, err)

	layout := config.NewLayout(home)
	require.NoError(t, os.MkdirAll(layout.Downloads, 0o755))
	require.NoError(t, os.MkdirAll(layout.Caches, 0o755))
	require.NoError(t, os.MkdirAll(layout.Logs, 0o755))
	return layout
}

// newTestEngine builds an engine with every strategy off; tests enable
// what they exercise.
func newTestEngine(t *testing.T, layout config.Layout, mutate func(*config.Settings)) *Engine {
	t.Helper()
	s := config.DefaultSettings()
	s.ScanLargeFiles = false
	s.ScanCaches = false
	s.ScanDownloads = false
	s.ScanLogs = false
	s.ScanTrash = false
	if mutate != nil {
		mutate(&s)
	}
	return NewEngine(layout, rules.New(layout), s, nil)
}

func writeFile(t *testing.T, path string, size int, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	if age > 0 {
		old := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, old, old))
	}
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func TestLargeFilesThreshold(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Downloads, "big.bin"), 2*mib, 0)
	writeFile(t, filepath.Join(layout.Downloads, "small.bin"), 512*1024, 0)

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, CategoryLargeFile, item.Category)
	assert.Equal(t, filepath.Join(layout.Downloads, "big.bin"), item.Path)
	assert.Equal(t, int64(2*mib), item.SizeBytes)
	assert.Equal(t, StatusFound, item.Status)
	assert.Equal(t, res.TotalSize, item.SizeBytes)
	assert.Equal(t, StateCompleted, e.State())
}

func TestLargeFilesHiddenSkippedByDefault(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Downloads, ".hidden.bin"), 2*mib, 0)

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	e = newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
		s.IncludeHiddenFiles = true
	})
	res, err = e.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestLargeFilesSymlinkSkippedUnlessFollowed(t *testing.T) {
	layout := newTestLayout(t)
	target := filepath.Join(layout.Home, "elsewhere.bin")
	writeFile(t, target, 2*mib, 0)
	require.NoError(t, os.Symlink(target, filepath.Join(layout.Downloads, "link.bin")))

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	e = newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
		s.FollowSymlinks = true
	})
	res, err = e.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].IsSymlink)
}

func TestCustomFolderValidation(t *testing.T) {
	layout := newTestLayout(t)
	extra := filepath.Join(layout.Home, "projects")
	writeFile(t, filepath.Join(extra, "huge.iso"), 3*mib, 0)

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
		s.CustomScanFolders = []string{extra, "/System/Library"}
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	// The valid folder is scanned; the blocked one becomes an error
	// entry, not an abort.
	require.Len(t, res.Items, 1)
	assert.Equal(t, filepath.Join(extra, "huge.iso"), res.Items[0].Path)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "skipped blocked/personal path")
}

func TestCacheAgeAndSize(t *testing.T) {
	layout := newTestLayout(t)

	// 45 days old, 10 MiB: selected.
	oldCache := filepath.Join(layout.Caches, "com.example.stale")
	writeFile(t, filepath.Join(oldCache, "blob"), 10*mib, 0)
	stale := time.Now().Add(-days(45))
	require.NoError(t, os.Chtimes(oldCache, stale, stale))

	// Fresh: excluded regardless of size.
	writeFile(t, filepath.Join(layout.Caches, "com.example.fresh", "blob"), mib, 0)

	// Old but empty: excluded (size must be > 0).
	emptyCache := filepath.Join(layout.Caches, "com.example.empty")
	require.NoError(t, os.MkdirAll(emptyCache, 0o755))
	require.NoError(t, os.Chtimes(emptyCache, stale, stale))

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanCaches = true
		s.CacheAgeDays = 30
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, CategoryCache, item.Category)
	assert.Equal(t, oldCache, item.Path)
	assert.Equal(t, int64(10*mib), item.SizeBytes)
	assert.True(t, item.IsDirectory)
}

func TestOldDownloadsSelectedRegardlessOfSize(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Downloads, "ancient.dmg"), 0, days(100))
	writeFile(t, filepath.Join(layout.Downloads, "recent.pdf"), mib, days(5))

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanDownloads = true
		s.OldDownloadsDays = 90
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, CategoryOldDownload, res.Items[0].Category)
	assert.Equal(t, filepath.Join(layout.Downloads, "ancient.dmg"), res.Items[0].Path)
	assert.Equal(t, int64(0), res.Items[0].SizeBytes)
}

func TestLogsOldNonEmptyOnly(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Logs, "App", "old.log"), 4096, days(60))
	writeFile(t, filepath.Join(layout.Logs, "App", "empty.log"), 0, days(60))
	writeFile(t, filepath.Join(layout.Logs, "fresh.log"), 4096, 0)

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLogs = true
		s.CacheAgeDays = 30
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, CategoryLogFile, res.Items[0].Category)
	assert.Equal(t, filepath.Join(layout.Logs, "App", "old.log"), res.Items[0].Path)
}

func TestTrashReport(t *testing.T) {
	layout := newTestLayout(t)

	e := newTestEngine(t, layout, func(s *config.Settings) { s.ScanTrash = true })
	res, err := e.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Items, "absent trash yields no report")

	writeFile(t, filepath.Join(layout.Trash, "deleted.txt"), 2048, 0)
	e = newTestEngine(t, layout, func(s *config.Settings) { s.ScanTrash = true })
	res, err = e.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, CategoryTrash, item.Category)
	assert.Equal(t, layout.Trash, item.Path)
	assert.Equal(t, int64(2048), item.SizeBytes)
	assert.True(t, item.IsDirectory)
}

func TestMaxResultsIsGlobalCeiling(t *testing.T) {
	layout := newTestLayout(t)
	for _, name := range []string{"a.bin", "b.bin", "c.bin", "d.bin", "e.bin"} {
		writeFile(t, filepath.Join(layout.Downloads, name), 2*mib, 0)
	}
	stale := time.Now().Add(-days(45))
	for _, name := range []string{"one", "two", "three"} {
		dir := filepath.Join(layout.Caches, name)
		writeFile(t, filepath.Join(dir, "blob"), mib, 0)
		require.NoError(t, os.Chtimes(dir, stale, stale))
	}

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.ScanCaches = true
		s.SizeThresholdMB = 1
		s.CacheAgeDays = 30
		s.MaxResults = 6
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	// Five large files plus one cache entry, then the ceiling stops
	// everything that remains.
	assert.Len(t, res.Items, 6)

	e = newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.ScanCaches = true
		s.SizeThresholdMB = 1
		s.CacheAgeDays = 30
		s.MaxResults = 3
	})
	res, err = e.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	for _, item := range res.Items {
		assert.Equal(t, CategoryLargeFile, item.Category)
	}
}

func TestCancelledBeforeStart(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Downloads, "big.bin"), 2*mib, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	res, err := e.Scan(ctx)
	require.NoError(t, err)

	assert.True(t, res.WasCancelled)
	assert.Empty(t, res.Items)
	assert.Equal(t, StateCancelled, e.State())
}

func TestCancellationIsMonotonic(t *testing.T) {
	layout := newTestLayout(t)
	for _, name := range []string{"a.bin", "b.bin", "c.bin", "d.bin", "e.bin", "f.bin"} {
		writeFile(t, filepath.Join(layout.Downloads, name), 2*mib, 0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	e.SetProgress(func(path string, found int) {
		if found >= 2 {
			cancel()
		}
	})

	res, err := e.Scan(ctx)
	require.NoError(t, err)

	// Once cancellation is observed no further items are added, and the
	// ones already found survive.
	assert.True(t, res.WasCancelled)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, StateCancelled, e.State())
}

func TestStrategyRootFailureDoesNotAbortScan(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Downloads, "big.bin"), 2*mib, 0)

	// Replace the cache root with a regular file so ReadDir fails.
	require.NoError(t, os.RemoveAll(layout.Caches))
	writeFile(t, layout.Caches, 10, 0)

	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanCaches = true
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	res, err := e.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, CategoryLargeFile, res.Items[0].Category)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "caches")
	assert.False(t, res.WasCancelled)
	assert.Equal(t, StateCompleted, e.State())
}

func TestProgressReportedPerEntry(t *testing.T) {
	layout := newTestLayout(t)
	writeFile(t, filepath.Join(layout.Downloads, "a.bin"), 2*mib, 0)
	writeFile(t, filepath.Join(layout.Downloads, "b.txt"), 10, 0)

	var visited []string
	e := newTestEngine(t, layout, func(s *config.Settings) {
		s.ScanLargeFiles = true
		s.SizeThresholdMB = 1
	})
	e.SetProgress(func(path string, found int) {
		visited = append(visited, path)
	})

	_, err := e.Scan(context.Background())
	require.NoError(t, err)

	// Both entries are reported, not just the one that qualified.
	assert.Contains(t, visited, filepath.Join(layout.Downloads, "a.bin"))
	assert.Contains(t, visited, filepath.Join(layout.Downloads, "b.txt"))
}

func TestEngineStateLifecycle(t *testing.T) {
	layout := newTestLayout(t)
	e := newTestEngine(t, layout, func(s *config.Settings) { s.ScanTrash = true })

	assert.Equal(t, StateIdle, e.State())
	_, err := e.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, e.State())
}
