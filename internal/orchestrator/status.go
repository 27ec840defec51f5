package orchestrator

import (
	"os"
	"path/filepath"
	"sort"

	"dolarwatch/internal/dataflows"
)

// maxLogEntries caps the persisted execution history.
const maxLogEntries = 100

// logStep appends one entry to the in-memory log and persists the history.
// Persistence is best effort; an unwritable data dir never fails a stage.
func (o *Orchestrator) logStep(step, status, details string) {
	o.log = append(o.log, LogEntry{
		Step:      step,
		Status:    status,
		Details:   details,
		Timestamp: nowStamp(),
	})
	if len(o.log) > maxLogEntries {
		o.log = o.log[len(o.log)-maxLogEntries:]
	}
	_ = dataflows.SaveDataToFile(o.log, o.logPath)
}

func (o *Orchestrator) loadExecutionLog() []LogEntry {
	var entries []LogEntry
	if err := dataflows.LoadDataFromFile(o.logPath, &entries); err != nil {
		return nil
	}
	return entries
}

// RecentLog returns the last n log entries, oldest first.
func (o *Orchestrator) RecentLog(n int) []LogEntry {
	if n <= 0 || len(o.log) == 0 {
		return nil
	}
	if len(o.log) < n {
		n = len(o.log)
	}
	return append([]LogEntry(nil), o.log[len(o.log)-n:]...)
}

// DirectoryStatus reports whether one working directory exists.
type DirectoryStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// SystemStatus is the state snapshot behind the status command.
type SystemStatus struct {
	ConfigProblems []string          `json:"config_problems,omitempty"`
	Directories    []DirectoryStatus `json:"directories"`
	BatchCount     int               `json:"batch_count"`
	ReportCount    int               `json:"report_count"`
	LatestBatch    string            `json:"latest_batch,omitempty"`
	LatestReport   string            `json:"latest_report,omitempty"`
	LatestPDF      string            `json:"latest_pdf,omitempty"`
	RecentLog      []LogEntry        `json:"recent_log,omitempty"`
	Ready          bool              `json:"ready"`
}

// Status inspects configuration, directories, newest artifacts and the
// recent execution history.
func (o *Orchestrator) Status() *SystemStatus {
	status := &SystemStatus{
		ConfigProblems: o.cfg.Problems(),
		BatchCount:     o.store.BatchCount(),
		ReportCount:    o.reports.ReportCount(),
		RecentLog:      o.RecentLog(5),
	}
	status.Ready = len(status.ConfigProblems) == 0

	for _, dir := range []string{o.cfg.DataDir, o.cfg.ReportsDir, o.cfg.PresentationsDir, o.cfg.ChartsDir} {
		info, err := os.Stat(dir)
		status.Directories = append(status.Directories, DirectoryStatus{
			Path:   dir,
			Exists: err == nil && info.IsDir(),
		})
	}

	if path, err := o.store.LatestBatchFile(); err == nil {
		status.LatestBatch = path
	}
	if path, err := o.reports.LatestReportFile(); err == nil {
		status.LatestReport = path
	}
	status.LatestPDF = latestPDF(o.cfg.PresentationsDir)

	return status
}

func latestPDF(dir string) string {
	files, err := filepath.Glob(filepath.Join(dir, "dolar_report_*.pdf"))
	if err != nil || len(files) == 0 {
		return ""
	}
	sort.Strings(files)
	return files[len(files)-1]
}
