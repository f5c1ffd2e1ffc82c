package dto

// TestSettingsDTO is the body of PUT /admin/tests/{id}.
type TestSettingsDTO struct {
	Title                  string `json:"title"`
	Subject                string `json:"subject"`
	Class                  string `json:"class"`
	TotalMarks             int    `json:"totalMarks"`
	Status                 string `json:"status"`
	CertificationAvailable bool   `json:"certificationAvailable"`
}

// OptionDTO is one answer option on the wire.
type OptionDTO struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionPayloadDTO is one element of the multipart "questions" field sent to
// POST /admin/tests/{id}/questions. ID is set only for questions the server
// already stores.
type QuestionPayloadDTO struct {
	ID               string      `json:"id,omitempty"`
	Text             string      `json:"text"`
	Options          []OptionDTO `json:"options"`
	ExistingImageURL string      `json:"existingImageUrl,omitempty"`
}
