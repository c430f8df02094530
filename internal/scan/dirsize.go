package scan

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DirectorySize sums the sizes of all regular files under root. Symlinked
// descendants are excluded unless followSymlinks is set, and any entry that
// cannot be read contributes zero rather than failing the computation.
func DirectorySize(root string, followSymlinks bool) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if !followSymlinks {
				return nil
			}
			info, statErr := os.Stat(path)
			if statErr == nil && info.Mode().IsRegular() {
				total += info.Size()
			}
			return nil
		}
		if d.Type().IsRegular() {
			info, infoErr := d.Info()
			if infoErr != nil {
				return nil
			}
			total += info.Size()
		}
		return nil
	})
	return total
}
