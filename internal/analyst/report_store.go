package analyst

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"dolarwatch/config"
	"dolarwatch/internal/dataflows"
	"dolarwatch/internal/models"
)

// ErrNoReports is reported when rendering runs before any analysis has
// produced a report.
var ErrNoReports = errors.New("no se encontraron reportes de análisis")

// ReportStore persists analysis reports under the reports directory.
type ReportStore struct {
	reportsDir string
}

// NewReportStore creates a store rooted at the configured reports directory.
func NewReportStore(cfg *config.Config) *ReportStore {
	return &ReportStore{reportsDir: cfg.ReportsDir}
}

// SaveReport writes the report as dated JSON and returns its path.
func (rs *ReportStore) SaveReport(report *models.AnalysisReport) (string, error) {
	stamp := time.Now().Format("20060102_150405")
	if ts, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		stamp = ts.Format("20060102_150405")
	}

	path := filepath.Join(rs.reportsDir, fmt.Sprintf("dolar_report_%s.json", stamp))
	if err := dataflows.SaveDataToFile(report, path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	return path, nil
}

// LatestReportFile returns the newest persisted report by name order.
func (rs *ReportStore) LatestReportFile() (string, error) {
	pattern := filepath.Join(rs.reportsDir, "dolar_report_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("search report files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w (directorio %s)", ErrNoReports, rs.reportsDir)
	}

	sort.Strings(files)
	return files[len(files)-1], nil
}

// LoadReport reads a persisted report.
func (rs *ReportStore) LoadReport(path string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	if err := dataflows.LoadDataFromFile(path, &report); err != nil {
		return nil, fmt.Errorf("load report %s: %w", path, err)
	}
	return &report, nil
}

// ReportCount reports how many analysis reports exist, for the status panel.
func (rs *ReportStore) ReportCount() int {
	files, err := filepath.Glob(filepath.Join(rs.reportsDir, "dolar_report_*.json"))
	if err != nil {
		return 0
	}
	return len(files)
}
