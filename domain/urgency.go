package domain

import (
	"sort"
	"time"
)

// Tier classifies how much deadline pressure a task is under.
type Tier string

const (
	TierNone     Tier = "none"
	TierNormal   Tier = "normal"
	TierCritical Tier = "critical"
	TierAtRisk   Tier = "at-risk"
	TierOverdue  Tier = "overdue"
)

// Ratio cutoffs for tier assignment and the size of the recent-task window.
const (
	CriticalRatio   = 0.5
	AtRiskRatio     = 0.85
	RecentTaskLimit = 5
)

// Urgency is the classifier output for one task at a given instant. Ratio is
// the elapsed fraction of the creation-to-due window and only meaningful
// when HasRatio is set; Percent is the same value clamped to [0, 100] for
// progress-bar rendering.
type Urgency struct {
	Tier     Tier    `json:"tier"`
	Ratio    float64 `json:"ratio"`
	HasRatio bool    `json:"hasRatio"`
	Percent  float64 `json:"percent"`
}

// Classify derives the urgency of a task from the current clock. Pure
// function of its arguments; callers re-evaluate as time advances.
func Classify(t Task, now time.Time) Urgency {
	if t.Status == StatusDone || t.DueDate == nil {
		return Urgency{Tier: TierNone}
	}
	ratio := progressRatio(t, now)
	u := Urgency{
		Ratio:    ratio,
		HasRatio: true,
		Percent:  clampPercent(ratio * 100),
	}
	switch {
	case now.After(*t.DueDate):
		u.Tier = TierOverdue
	case ratio >= AtRiskRatio:
		u.Tier = TierAtRisk
	case ratio >= CriticalRatio:
		u.Tier = TierCritical
	default:
		u.Tier = TierNormal
	}
	return u
}

func progressRatio(t Task, now time.Time) float64 {
	window := t.DueDate.Sub(t.CreatedAt)
	if window <= 0 {
		// Due date at or before creation leaves no window to measure; treat
		// the task as already at risk instead of dividing by zero.
		return 1
	}
	return float64(now.Sub(t.CreatedAt)) / float64(window)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// GroupByTier folds the task collection into per-tier buckets, preserving
// collection order within each bucket.
func GroupByTier(tasks []Task, now time.Time) map[Tier][]Task {
	out := make(map[Tier][]Task)
	for _, t := range tasks {
		tier := Classify(t, now).Tier
		out[tier] = append(out[tier], t)
	}
	return out
}

// CountByTier reports how many tasks sit in each tier.
func CountByTier(tasks []Task, now time.Time) map[Tier]int {
	out := make(map[Tier]int)
	for _, t := range tasks {
		out[Classify(t, now).Tier]++
	}
	return out
}

// OverdueCount reports how many tasks are past their due date.
func OverdueCount(tasks []Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if Classify(t, now).Tier == TierOverdue {
			n++
		}
	}
	return n
}

// RecentTasks returns up to RecentTaskLimit tasks ordered by creation time
// descending. Tasks created in the same instant keep insertion order, most
// recent first.
func RecentTasks(tasks []Task) []Task {
	idx := make([]int, len(tasks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := tasks[idx[a]], tasks[idx[b]]
		if !ta.CreatedAt.Equal(tb.CreatedAt) {
			return ta.CreatedAt.After(tb.CreatedAt)
		}
		return idx[a] > idx[b]
	})
	n := len(idx)
	if n > RecentTaskLimit {
		n = RecentTaskLimit
	}
	out := make([]Task, 0, n)
	for _, i := range idx[:n] {
		out = append(out, tasks[i])
	}
	return out
}

// TaskUrgency pairs a task with its computed urgency for the presentation
// boundary.
type TaskUrgency struct {
	Task    Task    `json:"task"`
	Urgency Urgency `json:"urgency"`
}

// Summary is the aggregate view the UI polls: per-tier counts, the overdue
// count and the most recently created tasks with their urgency attached.
type Summary struct {
	Total   int           `json:"total"`
	Tiers   map[Tier]int  `json:"tiers"`
	Overdue int           `json:"overdue"`
	Recent  []TaskUrgency `json:"recent"`
}

// Summarize folds the task collection into a Summary at the given instant.
func Summarize(tasks []Task, now time.Time) Summary {
	counts := CountByTier(tasks, now)
	recent := RecentTasks(tasks)
	wrapped := make([]TaskUrgency, 0, len(recent))
	for _, t := range recent {
		wrapped = append(wrapped, TaskUrgency{Task: t, Urgency: Classify(t, now)})
	}
	return Summary{
		Total:   len(tasks),
		Tiers:   counts,
		Overdue: counts[TierOverdue],
		Recent:  wrapped,
	}
}
