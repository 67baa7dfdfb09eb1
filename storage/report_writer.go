package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"availability-scraper/models"
	"availability-scraper/utils"
)

const reportPrefix = "disponibilidade-balipark-"

// ReportWriter writes each crawl report as a timestamped JSON file,
// purging the files of previous runs first so the directory only ever
// holds the latest report.
type ReportWriter struct {
	dir    string
	logger *utils.Logger
}

// NewReportWriter creates the output directory if needed and returns a
// ready ReportWriter.
func NewReportWriter(dir string, logger *utils.Logger) (*ReportWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("report: create output dir: %w", err)
	}
	return &ReportWriter{dir: dir, logger: logger}, nil
}

// WriteReport serializes the report to an indented JSON file named after
// its timestamp.
func (w *ReportWriter) WriteReport(r *models.Report) error {
	w.purgePrevious()

	ts := strings.NewReplacer(":", "-", ".", "-").Replace(r.Timestamp)
	path := filepath.Join(w.dir, reportPrefix+ts+".json")

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}

	w.logger.Info("[report] Saved to %s", path)
	return nil
}

// purgePrevious removes report files left over from earlier runs. Failure
// to purge is logged, never fatal — a stale file beats a lost report.
func (w *ReportWriter) purgePrevious() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("[report] Could not list %s for purge: %v", w.dir, err)
		return
	}

	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, reportPrefix) {
			continue
		}
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".csv") {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil {
			w.logger.Warn("[report] Could not remove %s: %v", name, err)
			continue
		}
		w.logger.Debug("[report] Removed previous file %s", name)
	}
}
