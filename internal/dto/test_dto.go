package dto

import "time"

// QuestionResponseDTO is a stored question as returned by the backend.
type QuestionResponseDTO struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	ImageURL string      `json:"imageUrl,omitempty"`
	Options  []OptionDTO `json:"options"`
}

// TestResponseDTO is the payload of GET /admin/tests/{id} and of the create call.
type TestResponseDTO struct {
	ID                     string                `json:"id"`
	Title                  string                `json:"title"`
	Subject                string                `json:"subject"`
	Class                  string                `json:"class"`
	TotalMarks             int                   `json:"totalMarks"`
	Status                 string                `json:"status"`
	CertificationAvailable bool                  `json:"certificationAvailable"`
	Questions              []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt              time.Time             `json:"createdAt"`
	UpdatedAt              time.Time             `json:"updatedAt"`
}

// BulkQuestionsResponseDTO is the payload of the bulk question upsert. The
// questions are in request order when present.
type BulkQuestionsResponseDTO struct {
	Questions []QuestionResponseDTO `json:"questions"`
}
