package api

import "time"

// v0 contains public types describing orchestration runs.

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord is one orchestration attempt as persisted in the run journal.
type RunRecord struct {
	ID         string     `json:"id"`
	Model      string     `json:"model"`
	Cycle      time.Time  `json:"cycle"`
	Member     string     `json:"member"`
	KeyPath    string     `json:"key_path"`
	RunDir     string     `json:"run_dir"`
	Status     RunStatus  `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
