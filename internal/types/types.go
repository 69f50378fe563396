// Package types holds the data structures shared between the storage
// index, the entry manager, and the web layer.
package types

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// EntryRecord is one row of the SQL index: a journal entry file the index
// believes exists on disk.
type EntryRecord struct {
	Date       time.Time `json:"date"`
	Path       string    `json:"path"`
	WeekEnding time.Time `json:"week_ending"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
	IndexedAt  time.Time `json:"indexed_at"`
}

// Entry is a journal entry with its contents loaded.
type Entry struct {
	Date    time.Time `json:"date"`
	Path    string    `json:"path"`
	Content string    `json:"content"`
}

// Summary is an LLM-generated summary over a date range.
type Summary struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IndexStats describes the current state of the SQL index.
type IndexStats struct {
	EntryCount   int        `json:"entry_count"`
	SummaryCount int        `json:"summary_count"`
	FirstDate    *time.Time `json:"first_date,omitempty"`
	LastDate     *time.Time `json:"last_date,omitempty"`
}

// TaskState is the lifecycle state of an async summarization task.
type TaskState string

const (
	TaskPending TaskState = "pending"
	TaskRunning TaskState = "running"
	TaskDone    TaskState = "done"
	TaskFailed  TaskState = "failed"
)

// SummaryTask tracks one background summarization request.
type SummaryTask struct {
	ID        string    `json:"id"`
	State     TaskState `json:"state"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	SummaryID string    `json:"summary_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
