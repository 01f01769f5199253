package entity

// ProgressStatus marks the stage of a single endpoint check.
type ProgressStatus string

// Constants for the stages a probe goes through.
const (
	ProgressChecking ProgressStatus = "checking"
	ProgressSuccess  ProgressStatus = "success"
	ProgressFailed   ProgressStatus = "failed"
)

// ProgressEvent describes one probe transition during endpoint validation.
// Current is 1-based; Total is the number of candidates being checked.
type ProgressEvent struct {
	Current int            `json:"current"`
	Total   int            `json:"total"`
	URL     string         `json:"url"`
	Status  ProgressStatus `json:"status"`
}

// ProgressSink receives progress events synchronously, in probe order.
// A nil sink disables progress reporting.
type ProgressSink func(ProgressEvent)
