package itemset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"leaguehelper/internal/build"
	"leaguehelper/internal/catalog"
	"leaguehelper/internal/ddragon"
	"leaguehelper/internal/logging"

	"go.uber.org/zap"
)

// Writer writes item set files into a game install
type Writer struct {
	root   string
	marker string
	logger *zap.Logger
}

// NewWriter creates a writer for the install at installDir. Files are
// prefixed with marker so DeleteOld only ever touches our own exports.
func NewWriter(installDir, marker string, logger *zap.Logger) *Writer {
	return &Writer{
		root:   filepath.Join(installDir, "Config", "Champions"),
		marker: marker,
		logger: logging.OrNop(logger).Named("itemset"),
	}
}

// FileName is the exported file name for a champion, role and patch
func (w *Writer) FileName(championID string, role build.Role, patch string) string {
	return fmt.Sprintf("%s_%s-%s-%s.json", w.marker, championID, role, patch)
}

// Path is where the file for a champion, role and patch is written
func (w *Writer) Path(championID string, role build.Role, patch string) string {
	return filepath.Join(w.root, championID, "Recommended", w.FileName(championID, role, patch))
}

// DeleteOld removes every previously exported file and returns how many
// were deleted. A missing Champions directory is not an error.
func (w *Writer) DeleteOld() (int, error) {
	prefix := w.marker + "_"
	removed := 0

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == w.root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasPrefix(name, prefix) || filepath.Ext(name) != ".json" {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to delete old item sets: %w", err)
	}

	w.logger.Debug("deleted old item sets", zap.Int("count", removed))
	return removed, nil
}

// Write exports one record and returns the written path
func (w *Writer) Write(champion ddragon.Champion, record build.Record, patch string) (string, error) {
	data, err := FromRecord(w.marker, champion, record).Marshal()
	if err != nil {
		return "", err
	}

	path := w.Path(champion.ID, record.Role, patch)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Export replaces all exported files with the catalog's builds. A record
// that fails to write is logged and skipped; the count of written files is
// returned.
func (w *Writer) Export(ctx context.Context, cat *catalog.Catalog) (int, error) {
	if _, err := w.DeleteOld(); err != nil {
		return 0, err
	}

	written := 0
	for _, entry := range cat.Entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		for _, record := range entry.Records {
			if _, err := w.Write(entry.Champion, record, cat.VendorPatch); err != nil {
				w.logger.Warn("failed to export item set",
					zap.String("op", "export"),
					zap.String("champion", entry.Champion.Name),
					zap.Stringer("role", record.Role),
					zap.Error(err))
				continue
			}
			written++
		}
	}

	w.logger.Info("exported item sets",
		zap.Int("files", written),
		zap.Int("champions", cat.Len()),
		zap.String("patch", cat.VendorPatch))
	return written, nil
}
