package model

import "time"

// PerformanceRecord is one student's graded attempt at a test.
type PerformanceRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	TestID      string    `json:"testId"`
	TestTitle   string    `json:"testTitle"`
	Class       string    `json:"class"`
	Score       *float64  `json:"score,omitempty"`
	TotalMarks  int       `json:"totalMarks"`
	Status      string    `json:"status"` // "pending", "graded"
	SubmittedAt time.Time `json:"submittedAt"`
}

// Percent returns the score as a percentage of TotalMarks, or false when ungraded.
func (r PerformanceRecord) Percent() (float64, bool) {
	if r.Score == nil || r.TotalMarks <= 0 {
		return 0, false
	}
	return *r.Score / float64(r.TotalMarks) * 100, true
}
