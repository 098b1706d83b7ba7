package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	backupPrefix = "library-"
	backupExt    = ".json"
)

// BackupFilename returns the file name used for an export taken at ts.
func BackupFilename(ts int64) string {
	return fmt.Sprintf("%s%d%s", backupPrefix, ts, backupExt)
}

// WriteBackup writes doc into dir as library-<exported_at>.json.
// The file is written to a temp file first and renamed into place, so a
// reader never sees a partial backup.
func WriteBackup(dir string, doc Document) (ExportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("create backup dir: %w", err)
	}

	data, err := doc.Marshal()
	if err != nil {
		return ExportResult{}, fmt.Errorf("marshal export: %w", err)
	}

	path := filepath.Join(dir, BackupFilename(doc.Meta.ExportedAt))
	if err := WriteFileAtomic(path, data); err != nil {
		return ExportResult{}, err
	}

	return ExportResult{
		Path:           path,
		BooksProcessed: len(doc.Books),
		ListsProcessed: len(doc.Lists),
		Bytes:          len(data),
	}, nil
}

// WriteFileAtomic writes data to path through a temp file in the same directory.
func WriteFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".export_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ListBackups returns backup file paths in dir, oldest first.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupExt) {
			names = append(names, name)
		}
	}
	// Shorter timestamp, older backup.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// PruneBackups deletes all but the newest keep backups in dir.
// keep <= 0 disables pruning. Returns how many files were deleted.
func PruneBackups(dir string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	paths, err := ListBackups(dir)
	if err != nil {
		return 0, err
	}
	if len(paths) <= keep {
		return 0, nil
	}

	removed := 0
	for _, p := range paths[:len(paths)-keep] {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
