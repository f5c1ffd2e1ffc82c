package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/lshigami/acebrainiac/internal/core"
)

const (
	ParamPage  = "page"
	ParamLimit = "limit"
	ParamQuery = "query"

	// DateLayout is the wire format of date filters.
	DateLayout = "2006-01-02"
)

var ErrUnknownParam = errors.New("unknown list parameter")

type FilterKind int

const (
	FilterText FilterKind = iota
	FilterSelect
	FilterDate
)

// Filter declares one entity-specific query parameter.
type Filter struct {
	Name string
	Kind FilterKind
}

// Query is the parameter set of one list. An empty value means no filter.
type Query struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

func (q Query) Get(name string) string {
	switch name {
	case ParamPage:
		return strconv.Itoa(q.Page)
	case ParamLimit:
		return strconv.Itoa(q.Limit)
	case ParamQuery:
		return q.Search
	}
	return q.Filters[name]
}

func (q Query) clone() Query {
	out := q
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		out.Filters[k] = v
	}
	return out
}

// Values encodes q as URL query parameters, filters in declaration order and
// empty ones omitted.
func (q Query) Values(filters []Filter) url.Values {
	v := url.Values{}
	v.Set(ParamPage, strconv.Itoa(q.Page))
	v.Set(ParamLimit, strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set(ParamQuery, q.Search)
	}
	for _, f := range filters {
		if val := q.Filters[f.Name]; val != "" {
			v.Set(f.Name, val)
		}
	}
	return v
}

func findFilter(filters []Filter, name string) (Filter, bool) {
	for _, f := range filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

// normalizeValue trims raw input and rewrites date filters to DateLayout.
func normalizeValue(f Filter, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" || f.Kind != FilterDate {
		return value, nil
	}
	t, err := cast.ToTimeE(value)
	if err != nil {
		return "", core.NewValidationError(nil, core.FieldError{
			Field: f.Name,
			Error: f.Name + " must be a date (YYYY-MM-DD)",
		})
	}
	return t.Format(DateLayout), nil
}
