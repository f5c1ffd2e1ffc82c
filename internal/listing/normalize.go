package listing

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var ErrUnknownShape = errors.New("unrecognized list response shape")

type Pagination struct {
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// Result is one normalized page of a collection.
type Result[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
}

// Normalizer turns a raw list response into a Result.
type Normalizer[T any] func(body []byte, limit int) (Result[T], error)

// Shape describes where a collection endpoint puts its items. The backend
// answers in one of three forms:
//
//	{"data": {"<CollectionKey>": [...], "pagination": {...}}}
//	{"data": {"data": [...], "count": N}}
//	[...]
type Shape struct {
	CollectionKey string
}

// ShapeNormalizer returns the strategy that decodes responses of this shape.
func ShapeNormalizer[T any](s Shape) Normalizer[T] {
	return func(body []byte, limit int) (Result[T], error) {
		return Normalize[T](s, body, limit)
	}
}

// TotalPages is ceil(totalItems/limit), never less than 1.
func TotalPages(totalItems, limit int) int {
	if limit <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + limit - 1) / limit
}

func Normalize[T any](s Shape, body []byte, limit int) (Result[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Result[T]{}, errors.Wrap(err, "decode list array")
		}
		return newResult(items, len(items), 0, limit), nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return Result[T]{}, ErrUnknownShape
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(top["data"], &inner); err != nil || inner == nil {
		return Result[T]{}, ErrUnknownShape
	}

	if raw, ok := inner[s.CollectionKey]; ok && s.CollectionKey != "" && s.CollectionKey != "data" {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return Result[T]{}, errors.Wrapf(err, "decode %s", s.CollectionKey)
		}
		var p Pagination
		if rawPage, ok := inner["pagination"]; ok {
			if err := json.Unmarshal(rawPage, &p); err != nil {
				return Result[T]{}, errors.Wrap(err, "decode pagination")
			}
			return newResult(items, p.TotalItems, p.TotalPages, limit), nil
		}
		return newResult(items, len(items), 0, limit), nil
	}

	if raw, ok := inner["data"]; ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return Result[T]{}, errors.Wrap(err, "decode data array")
		}
		total := len(items)
		if n, ok := count(inner, top); ok {
			total = n
		}
		return newResult(items, total, 0, limit), nil
	}
	return Result[T]{}, ErrUnknownShape
}

// count reads the item total of the data.data shape, nested or top level.
func count(envelopes ...map[string]json.RawMessage) (int, bool) {
	for _, env := range envelopes {
		raw, ok := env["count"]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func newResult[T any](items []T, totalItems, totalPages, limit int) Result[T] {
	if items == nil {
		items = []T{}
	}
	if totalPages < 1 {
		totalPages = TotalPages(totalItems, limit)
	}
	return Result[T]{Items: items, TotalItems: totalItems, TotalPages: totalPages}
}
