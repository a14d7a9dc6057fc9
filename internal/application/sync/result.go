package sync

import "time"

// Status summarizes a sync run.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
)

// FailedItem records one item that could not be synced.
type FailedItem struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Result is the outcome of a sync run. Failures of individual items do not
// abort the run; they are collected here.
type Result struct {
	Status       Status       `json:"status"`
	TotalCount   int          `json:"total_count"`
	SyncedCount  int          `json:"synced_count"`
	SkippedCount int          `json:"skipped_count"`
	FailedCount  int          `json:"failed_count"`
	FailedItems  []FailedItem `json:"failed_items,omitempty"`
	SyncedAt     time.Time    `json:"synced_at"`
}

func newResult(total int) *Result {
	return &Result{TotalCount: total}
}

func (r *Result) synced() {
	r.SyncedCount++
}

func (r *Result) skipped() {
	r.SkippedCount++
}

func (r *Result) failed(key string, err error) {
	r.FailedCount++
	r.FailedItems = append(r.FailedItems, FailedItem{Key: key, Reason: err.Error()})
}

// finalize stamps the result and derives its status from the counters.
func (r *Result) finalize() *Result {
	r.SyncedAt = time.Now()
	switch {
	case r.FailedCount == 0:
		r.Status = StatusSuccess
	case r.SyncedCount > 0 || r.SkippedCount > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusFailed
	}
	return r
}
