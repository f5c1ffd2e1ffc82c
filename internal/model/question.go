package model

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID         string      `json:"id"`
	Text       string      `json:"text" validate:"required"`
	IsExisting bool        `json:"isExisting"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Options    []Option    `json:"options" validate:"min=2,dive"`
}

type Option struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// Attachment references either a staged local file awaiting upload or a file
// the server already stores.
type Attachment struct {
	Name    string
	URL     string
	Staged  StagedFile
	Pending bool // staging still in flight
}

// Local reports whether the attachment still has to be sent as a binary part.
func (a *Attachment) Local() bool { return a != nil && a.Staged != nil }

// StagedFile is a transient handle to attachment bytes held by the client.
type StagedFile interface {
	Name() string
	Open() (io.ReadCloser, error)
	Release() error
}

// NewLocalQuestion returns an empty unsaved question with two blank options.
func NewLocalQuestion() Question {
	return Question{
		ID:      NewLocalID(),
		Options: []Option{{}, {}},
	}
}

// NewLocalID returns a client-side identifier; the server replaces it on save.
func NewLocalID() string {
	return fmt.Sprintf("local-%d", time.Now().UnixNano())
}

// HasServerID reports whether id looks like a server-assigned UUID.
func HasServerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Saved reports whether the question exists on the server.
func (q Question) Saved() bool { return q.IsExisting && HasServerID(q.ID) }

func (q Question) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}
