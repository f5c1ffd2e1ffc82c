package model

import "time"

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Test is the composite entity edited by the test authoring workflow.
type Test struct {
	ID        string       `json:"id"`
	Settings  TestSettings `json:"settings"`
	Questions []Question   `json:"questions,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type TestSettings struct {
	Title                  string `json:"title" validate:"required"`
	Subject                string `json:"subject" validate:"required"`
	Class                  string `json:"class" validate:"required"`
	TotalMarks             int    `json:"totalMarks" validate:"min=0"`
	Status                 string `json:"status" validate:"oneof=DRAFT PUBLISHED"`
	CertificationAvailable bool   `json:"certificationAvailable"`
}

// TestSummary is a row of the tests listing.
type TestSummary struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Subject                string    `json:"subject"`
	Class                  string    `json:"class"`
	TotalMarks             int       `json:"totalMarks"`
	Status                 string    `json:"status"`
	QuestionCount          int       `json:"questionCount"`
	CertificationAvailable bool      `json:"certificationAvailable"`
	CreatedAt              time.Time `json:"createdAt"`
}
