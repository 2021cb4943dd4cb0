package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webpress/internal/codec"
)

var ErrNotConverted = errors.New("work item has no encoded result")

// Exporter writes encoded results to a directory. Delay, when set,
// spaces out consecutive writes; download-style sinks tend to drop
// files that arrive in a burst.
type Exporter struct {
	Dir   string
	Delay time.Duration
}

// OutputName derives the export filename from the source filename by
// stripping its extension and appending the encoded format's.
func OutputName(source string) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "image"
	}
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + codec.Extension
}

// Export writes one item's result and returns the written path.
func (e *Exporter) Export(it *Item) (string, error) {
	if it.Result == nil {
		return "", ErrNotConverted
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(e.Dir, OutputName(it.Name))
	if err := os.WriteFile(path, it.Result.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ExportAll writes every converted item in submission order, pausing
// Delay between files. Items without a result are skipped; the first
// write error aborts the export.
func (e *Exporter) ExportAll(ctx context.Context, s *Session) (written int, err error) {
	for _, it := range s.Items() {
		if it.Result == nil {
			continue
		}
		if written > 0 && e.Delay > 0 {
			select {
			case <-ctx.Done():
				return written, ctx.Err()
			case <-time.After(e.Delay):
			}
		}
		if _, err := e.Export(it); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
