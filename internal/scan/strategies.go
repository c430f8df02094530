package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// scanLargeFiles walks Downloads plus the validated custom folders looking
// for regular files at or above the size threshold. A custom folder that
// fails the safety rules is reported in Result.Errors and skipped; it never
// aborts the strategy.
func (e *Engine) scanLargeFiles(ctx context.Context, res *Result) error {
	threshold := int64(e.settings.SizeThresholdMB) * 1024 * 1024

	roots := []string{e.layout.Downloads}
	for _, folder := range e.settings.CustomScanFolders {
		if e.rules.SafeForScan(folder, e.settings.AllowPersonalDocs) {
			roots = append(roots, folder)
		} else {
			msg := fmt.Sprintf("skipped blocked/personal path: %s", folder)
			e.log.Warn("custom folder rejected", "path", folder)
			res.Errors = append(res.Errors, msg)
		}
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := e.walkLargeFiles(ctx, root, threshold, res); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) walkLargeFiles(ctx context.Context, root string, threshold int64, res *Result) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cErr := ctx.Err(); cErr != nil {
			return cErr
		}
		if len(res.Items) >= e.settings.MaxResults {
			return errLimitReached
		}
		if err != nil {
			e.log.Debug("skipped during walk", "path", path, "error", err)
			return nil
		}
		if path == root && d.IsDir() {
			return nil
		}

		e.report(path, len(res.Items))

		isLink := d.Type()&fs.ModeSymlink != 0
		if isLink && !e.settings.FollowSymlinks {
			return nil
		}
		if hidden(d.Name()) && !e.settings.IncludeHiddenFiles {
			return nil
		}
		if !e.rules.SafeForScan(path, e.settings.AllowPersonalDocs) {
			return nil
		}

		info, ok := e.statEntry(path, d, isLink)
		if !ok {
			return nil
		}
		if !info.Mode().IsRegular() || info.Size() < threshold {
			return nil
		}

		return e.appendItem(ctx, res, &Item{
			Path:              path,
			Category:          CategoryLargeFile,
			SizeBytes:         info.Size(),
			LastModified:      info.ModTime(),
			IsSymlink:         isLink,
			RecommendedAction: "Review - large file",
		})
	})
}

// scanCaches lists the cache root non-recursively. Each child is sized
// (recursively for directories) and selected when it is non-empty and older
// than the cache age cutoff.
func (e *Engine) scanCaches(ctx context.Context, res *Result) error {
	entries, err := os.ReadDir(e.layout.Caches)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	cutoff := e.now().AddDate(0, 0, -e.settings.CacheAgeDays)
	for _, entry := range entries {
		if cErr := ctx.Err(); cErr != nil {
			return cErr
		}
		if len(res.Items) >= e.settings.MaxResults {
			return errLimitReached
		}

		path := filepath.Join(e.layout.Caches, entry.Name())
		isLink := entry.Type()&fs.ModeSymlink != 0
		if isLink && !e.settings.FollowSymlinks {
			continue
		}

		e.report(path, len(res.Items))

		info, statErr := os.Stat(path)
		if statErr != nil {
			e.log.Debug("skipped cache entry", "path", path, "error", statErr)
			continue
		}

		var size int64
		switch {
		case info.IsDir():
			size = DirectorySize(path, e.settings.FollowSymlinks)
		case info.Mode().IsRegular():
			size = info.Size()
		default:
			continue
		}

		if size > 0 && info.ModTime().Before(cutoff) {
			item := &Item{
				Path:              path,
				Category:          CategoryCache,
				SizeBytes:         size,
				LastModified:      info.ModTime(),
				IsSymlink:         isLink,
				IsDirectory:       info.IsDir(),
				RecommendedAction: "Safe to remove - app cache",
			}
			if err := e.appendItem(ctx, res, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// scanOldDownloads lists Downloads non-recursively and selects entries
// older than the downloads age cutoff, regardless of size.
func (e *Engine) scanOldDownloads(ctx context.Context, res *Result) error {
	entries, err := os.ReadDir(e.layout.Downloads)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	cutoff := e.now().AddDate(0, 0, -e.settings.OldDownloadsDays)
	for _, entry := range entries {
		if cErr := ctx.Err(); cErr != nil {
			return cErr
		}
		if len(res.Items) >= e.settings.MaxResults {
			return errLimitReached
		}

		path := filepath.Join(e.layout.Downloads, entry.Name())
		isLink := entry.Type()&fs.ModeSymlink != 0
		if isLink && !e.settings.FollowSymlinks {
			continue
		}

		e.report(path, len(res.Items))

		info, ok := e.statEntry(path, entry, isLink)
		if !ok {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		size := info.Size()
		if info.IsDir() {
			size = DirectorySize(path, e.settings.FollowSymlinks)
		}

		item := &Item{
			Path:              path,
			Category:          CategoryOldDownload,
			SizeBytes:         size,
			LastModified:      info.ModTime(),
			IsSymlink:         isLink,
			IsDirectory:       info.IsDir(),
			RecommendedAction: fmt.Sprintf("Old download (>%d days)", e.settings.OldDownloadsDays),
		}
		if err := e.appendItem(ctx, res, item); err != nil {
			return err
		}
	}
	return nil
}

// scanLogs walks the log root recursively and selects non-empty regular
// files older than the cache age cutoff (logs share that threshold).
func (e *Engine) scanLogs(ctx context.Context, res *Result) error {
	root := e.layout.Logs
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	cutoff := e.now().AddDate(0, 0, -e.settings.CacheAgeDays)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cErr := ctx.Err(); cErr != nil {
			return cErr
		}
		if len(res.Items) >= e.settings.MaxResults {
			return errLimitReached
		}
		if err != nil {
			if path == root {
				return err
			}
			e.log.Debug("skipped log entry", "path", path, "error", err)
			return nil
		}

		isLink := d.Type()&fs.ModeSymlink != 0
		if isLink && !e.settings.FollowSymlinks {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		e.report(path, len(res.Items))

		info, infoErr := d.Info()
		if infoErr != nil {
			e.log.Debug("skipped log entry", "path", path, "error", infoErr)
			return nil
		}
		if !info.ModTime().Before(cutoff) || info.Size() == 0 {
			return nil
		}

		return e.appendItem(ctx, res, &Item{
			Path:              path,
			Category:          CategoryLogFile,
			SizeBytes:         info.Size(),
			LastModified:      info.ModTime(),
			RecommendedAction: "Safe to remove - old log file",
		})
	})
}

// scanTrash reports the trash root as a single read-only summary item when
// it is non-empty. Nothing inside the trash is ever emitted for deletion;
// the emptier handles that separately.
func (e *Engine) scanTrash(ctx context.Context, res *Result) error {
	info, err := os.Stat(e.layout.Trash)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	e.report(e.layout.Trash, len(res.Items))

	entries, err := os.ReadDir(e.layout.Trash)
	if err != nil {
		return fmt.Errorf("cannot read trash: %w", err)
	}

	total := DirectorySize(e.layout.Trash, false)
	if total == 0 {
		return nil
	}

	return e.appendItem(ctx, res, &Item{
		Path:              e.layout.Trash,
		Category:          CategoryTrash,
		SizeBytes:         total,
		LastModified:      info.ModTime(),
		IsDirectory:       true,
		RecommendedAction: fmt.Sprintf("Trash contains %d items - use 'ms trash empty'", len(entries)),
	})
}

// statEntry stats one entry, following the symlink only when the settings
// ask for it. Returns false when the entry cannot be read.
func (e *Engine) statEntry(path string, d fs.DirEntry, isLink bool) (fs.FileInfo, bool) {
	var info fs.FileInfo
	var err error
	if isLink && e.settings.FollowSymlinks {
		info, err = os.Stat(path)
	} else {
		info, err = d.Info()
	}
	if err != nil {
		e.log.Debug("skipped entry", "path", path, "error", err)
		return nil, false
	}
	return info, true
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
