package form

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/lshigami/acebrainiac/internal/core"
)

type Kind int

const (
	KindText Kind = iota
	KindTextarea
	KindNumber
	KindDate
	KindDropdown
	KindCheckbox
	KindFile
)

var kindNames = [...]string{"text", "textarea", "number", "date", "dropdown", "checkbox", "file"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Field is one input of a Schema. The set of implementations is closed.
type Field interface {
	Key() string
	Label() string
	Kind() Kind
	IsRequired() bool
	// parse converts trimmed, non-empty raw input into the payload value.
	parse(raw string) (interface{}, error)
}

// Base holds what every field variant has in common.
type Base struct {
	Name     string
	Title    string
	Required bool
}

func (b Base) Key() string      { return b.Name }
func (b Base) IsRequired() bool { return b.Required }

func (b Base) Label() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Name
}

type Text struct {
	Base
	MaxLen int
	// Rule is an optional validator tag, e.g. "email".
	Rule string
}

func (Text) Kind() Kind { return KindText }

func (f Text) parse(raw string) (interface{}, error) {
	if f.MaxLen > 0 && len([]rune(raw)) > f.MaxLen {
		return nil, fmt.Errorf("%s must be at most %d characters", f.Label(), f.MaxLen)
	}
	if f.Rule != "" {
		if err := core.Validate.Var(raw, f.Rule); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
				return nil, fmt.Errorf("%s%s", f.Label(), verrs[0].Translate(core.Translator))
			}
			return nil, fmt.Errorf("%s is invalid", f.Label())
		}
	}
	return raw, nil
}

type Textarea struct {
	Base
	MaxLen int
}

func (Textarea) Kind() Kind { return KindTextarea }

func (f Textarea) parse(raw string) (interface{}, error) {
	if f.MaxLen > 0 && len([]rune(raw)) > f.MaxLen {
		return nil, fmt.Errorf("%s must be at most %d characters", f.Label(), f.MaxLen)
	}
	return raw, nil
}

type Number struct {
	Base
	Integer  bool
	Min, Max *float64
}

func (Number) Kind() Kind { return KindNumber }

func (f Number) parse(raw string) (interface{}, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", f.Label())
	}
	if f.Integer && v != float64(int64(v)) {
		return nil, fmt.Errorf("%s must be a whole number", f.Label())
	}
	if f.Min != nil && v < *f.Min {
		return nil, fmt.Errorf("%s must be %s or greater", f.Label(), strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Max != nil && v > *f.Max {
		return nil, fmt.Errorf("%s must be %s or less", f.Label(), strconv.FormatFloat(*f.Max, 'f', -1, 64))
	}
	if f.Integer {
		return int64(v), nil
	}
	return v, nil
}

// Date accepts any common date notation and sends YYYY-MM-DD.
type Date struct {
	Base
}

func (Date) Kind() Kind { return KindDate }

func (f Date) parse(raw string) (interface{}, error) {
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD)", f.Label())
	}
	return t.Format("2006-01-02"), nil
}

type Dropdown struct {
	Base
	Options []string
}

func (Dropdown) Kind() Kind { return KindDropdown }

func (f Dropdown) parse(raw string) (interface{}, error) {
	for _, opt := range f.Options {
		if strings.EqualFold(opt, raw) {
			return opt, nil
		}
	}
	return nil, fmt.Errorf("%s must be one of %s", f.Label(), strings.Join(f.Options, ", "))
}

type Checkbox struct {
	Base
}

func (Checkbox) Kind() Kind { return KindCheckbox }

func (f Checkbox) parse(raw string) (interface{}, error) {
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", f.Label())
	}
	return v, nil
}

// File takes a local path. Accept lists allowed MIME types; an entry ending
// in "/" matches a whole family such as "image/".
type File struct {
	Base
	Accept  []string
	MaxSize int64
}

func (File) Kind() Kind { return KindFile }

// Upload is the parsed value of a File field.
type Upload struct {
	Field    string
	Path     string
	Filename string
	MIME     string
}

func (f File) parse(raw string) (interface{}, error) {
	info, err := os.Stat(raw)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%s: no such file %s", f.Label(), raw)
	}
	if f.MaxSize > 0 && info.Size() > f.MaxSize {
		return nil, fmt.Errorf("%s must be at most %d MB", f.Label(), f.MaxSize>>20)
	}
	mt, err := mimetype.DetectFile(raw)
	if err != nil {
		return nil, fmt.Errorf("%s could not be read", f.Label())
	}
	if !f.accepts(mt) {
		return nil, fmt.Errorf("%s must be %s, got %s", f.Label(), strings.Join(f.Accept, " or "), mt.String())
	}
	return Upload{Field: f.Name, Path: raw, Filename: filepath.Base(raw), MIME: mt.String()}, nil
}

func (f File) accepts(mt *mimetype.MIME) bool {
	if len(f.Accept) == 0 {
		return true
	}
	for _, a := range f.Accept {
		if strings.HasSuffix(a, "/") {
			if strings.HasPrefix(mt.String(), a) {
				return true
			}
			continue
		}
		if mt.Is(a) {
			return true
		}
	}
	return false
}
