// Package authoring reads test drafts from YAML files and applies them to a
// test editor.
package authoring

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/lshigami/acebrainiac/internal/controller/admin"
)

// Draft is the file form of a test:
//
//	title: Fractions
//	subject: Maths
//	class: "5"
//	totalMarks: 20
//	questions:
//	  - text: 1/2 + 1/4?
//	    image: pie.png
//	    options:
//	      - text: 3/4
//	        correct: true
//	      - text: 2/6
type Draft struct {
	Title                  string          `yaml:"title"`
	Subject                string          `yaml:"subject"`
	Class                  interface{}     `yaml:"class"`
	TotalMarks             interface{}     `yaml:"totalMarks"`
	Status                 string          `yaml:"status"`
	CertificationAvailable bool            `yaml:"certificationAvailable"`
	Questions              []DraftQuestion `yaml:"questions"`
}

type DraftQuestion struct {
	// ID targets a question already stored on the server.
	ID      string        `yaml:"id"`
	Text    string        `yaml:"text"`
	Image   string        `yaml:"image"`
	Options []DraftOption `yaml:"options"`
}

type DraftOption struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

func Parse(data []byte) (*Draft, error) {
	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "parse test draft")
	}
	return &d, nil
}

func Load(path string) (*Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read test draft")
	}
	return Parse(data)
}

// HasSettings reports whether the draft carries any settings to save.
func (d *Draft) HasSettings() bool {
	return strings.TrimSpace(d.Title) != "" || d.Subject != "" || d.Class != nil
}

// Settings converts the draft header into editor input. Numbers written
// without quotes are accepted for class and totalMarks.
func (d *Draft) Settings() admin.SettingsInput {
	return admin.SettingsInput{
		Title:                  d.Title,
		Subject:                d.Subject,
		Class:                  cast.ToString(d.Class),
		TotalMarks:             cast.ToString(d.TotalMarks),
		Status:                 d.Status,
		CertificationAvailable: d.CertificationAvailable,
	}
}
