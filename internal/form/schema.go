package form

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/lshigami/acebrainiac/internal/core"
)

// Schema describes the create/update form of one entity.
type Schema struct {
	Entity string
	Fields []Field
}

// Bound is validated form input ready to send.
type Bound struct {
	Values  map[string]interface{}
	Uploads []Upload
}

// Bind validates input against the schema. With partial set, as for updates,
// only the supplied fields are checked. Every failing field is reported.
func (s Schema) Bind(input map[string]string, partial bool) (*Bound, error) {
	var flds []core.FieldError
	known := make(map[string]bool, len(s.Fields))
	out := &Bound{Values: map[string]interface{}{}}

	for _, f := range s.Fields {
		known[f.Key()] = true
		raw, present := input[f.Key()]
		raw = strings.TrimSpace(raw)
		if raw == "" {
			if f.IsRequired() && (!partial || present) {
				flds = append(flds, core.FieldError{Field: f.Key(), Error: f.Label() + " is required"})
			}
			continue
		}
		v, err := f.parse(raw)
		if err != nil {
			flds = append(flds, core.FieldError{Field: f.Key(), Error: err.Error()})
			continue
		}
		if up, ok := v.(Upload); ok {
			out.Uploads = append(out.Uploads, up)
			continue
		}
		out.Values[f.Key()] = v
	}

	var unknown []string
	for k := range input {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		flds = append(flds, core.FieldError{Field: k, Error: "unknown field " + k + " for " + s.Entity})
	}

	if len(flds) > 0 {
		return nil, core.NewValidationError(errors.New(flds[0].Error), flds...)
	}
	if partial && len(out.Values) == 0 && len(out.Uploads) == 0 {
		return nil, core.NewValidationError(errors.New("nothing to update"))
	}
	return out, nil
}

// Field returns the field named key.
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key() == key {
			return f, true
		}
	}
	return nil, false
}
