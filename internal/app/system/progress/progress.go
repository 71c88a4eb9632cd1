// Package progress derives a project's 0–100 completion score.
//
// Two modes exist and stay separate on purpose:
//
//   - TaskRatio is what every task mutation and the explicit progress
//     endpoint use: the share of done tasks, nothing else.
//   - Weighted blends milestone and task completion 50/50. It is a
//     standalone utility for reporting views and is not wired into the
//     mutation flow.
package progress

import "math"

// Counts describes one category's completion state.
type Counts struct {
	Total     int
	Completed int
}

// TaskRatio returns round(100 * completed / total), half-up.
// With zero tasks it returns 0; callers that accept an explicit override
// (the progress endpoint) substitute it themselves.
func TaskRatio(total, completed int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Weighted returns the milestone/task blend: each category contributes half
// the score. A category with zero items contributes 0 rather than being
// excluded, so an empty category drags the result down.
func Weighted(milestones, tasks Counts) int {
	var mr, tr float64
	if milestones.Total > 0 {
		mr = float64(milestones.Completed) / float64(milestones.Total)
	}
	if tasks.Total > 0 {
		tr = float64(tasks.Completed) / float64(tasks.Total)
	}
	return int(math.Round((mr*0.5 + tr*0.5) * 100))
}

// DoneCount returns how many of the given task statuses are "done".
// Statuses are compared verbatim; callers pass models.Task statuses.
func DoneCount(statuses []string) int {
	n := 0
	for _, s := range statuses {
		if s == "done" {
			n++
		}
	}
	return n
}
