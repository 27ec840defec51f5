package orchestrator

import (
	"time"
)

// Pipeline step names, also used as keys in the persisted execution log.
const (
	StepCollection = "dolar_collection"
	StepAnalysis   = "dolar_analysis"
	StepRender     = "pdf_generation"
)

// StepOrder is the execution order of a full pipeline run.
var StepOrder = []string{StepCollection, StepAnalysis, StepRender}

// Run statuses.
const (
	StatusRunning             = "running"
	StatusCompleted           = "completed"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
)

// Step statuses.
const (
	StepSuccess = "success"
	StepFailed  = "failed"
	StepSkipped = "skipped"
)

// StepResult records the outcome of one pipeline stage.
type StepResult struct {
	Status     string `json:"status"`
	OutputFile string `json:"output_file,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// PipelineRun is the summary of a full pipeline execution. Steps are keyed
// by step name; iterate StepOrder for execution order.
type PipelineRun struct {
	StartTime            string                 `json:"start_time"`
	Status               string                 `json:"status"`
	Steps                map[string]*StepResult `json:"steps"`
	Errors               []string               `json:"errors"`
	EndTime              string                 `json:"end_time,omitempty"`
	ExecutionTimeSeconds float64                `json:"execution_time_seconds"`

	started time.Time
}

func newPipelineRun() *PipelineRun {
	now := time.Now()
	return &PipelineRun{
		StartTime: now.Format(time.RFC3339),
		Status:    StatusRunning,
		Steps:     make(map[string]*StepResult),
		Errors:    []string{},
		started:   now,
	}
}

func (r *PipelineRun) succeed(step, outputFile, detail string) {
	r.Steps[step] = &StepResult{
		Status:     StepSuccess,
		OutputFile: outputFile,
		Detail:     detail,
		Timestamp:  nowStamp(),
	}
}

func (r *PipelineRun) fail(step string, err error) {
	r.Steps[step] = &StepResult{
		Status:    StepFailed,
		Error:     err.Error(),
		Timestamp: nowStamp(),
	}
}

func (r *PipelineRun) skip(step string) {
	r.Steps[step] = &StepResult{
		Status:    StepSkipped,
		Timestamp: nowStamp(),
	}
}

// finish stamps the end time and resolves the final status: completed when
// nothing failed, completed_with_errors on partial progress, failed when no
// step succeeded.
func (r *PipelineRun) finish() {
	end := time.Now()
	r.EndTime = end.Format(time.RFC3339)
	r.ExecutionTimeSeconds = end.Sub(r.started).Seconds()

	successes := 0
	for _, step := range r.Steps {
		if step.Status == StepSuccess {
			successes++
		}
	}
	switch {
	case len(r.Errors) == 0:
		r.Status = StatusCompleted
	case successes > 0:
		r.Status = StatusCompletedWithErrors
	default:
		r.Status = StatusFailed
	}
}

// LogEntry is one line of the persisted execution history.
type LogEntry struct {
	Step      string `json:"step"`
	Status    string `json:"status"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

func nowStamp() string {
	return time.Now().Format(time.RFC3339)
}
