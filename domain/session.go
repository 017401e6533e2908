package domain

import "time"

// FocusSession records a single timed work session against a task. TaskID is
// a weak reference: the task may have been deleted since, and a dangling id
// is tolerated rather than treated as an error.
type FocusSession struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"taskId"`
	Duration     int       `json:"duration"`
	Completed    bool      `json:"completed"`
	Distractions int       `json:"distractions"`
	CreatedAt    time.Time `json:"createdAt"`
}
