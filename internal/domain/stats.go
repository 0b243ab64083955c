package domain

import "math"

type Stats struct {
	TotalTenants       int `json:"totalTenants"`
	TotalCourses       int `json:"totalCourses"`
	TotalStudents      int `json:"totalStudents"`
	ActiveLiveSessions int `json:"activeLiveSessions"`
}

// CompletionRate is the rounded mean progress over courses the user has started.
func CompletionRate(courses []Course) int {
	var sum float64
	started := 0
	for _, course := range courses {
		if course.Progress <= 0 {
			continue
		}
		sum += course.Progress
		started++
	}
	if started == 0 {
		return 0
	}

	return int(math.Round(sum / float64(started)))
}
