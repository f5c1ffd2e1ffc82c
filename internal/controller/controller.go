package controller

import (
	"context"
	"sort"
	"strconv"

	"github.com/lshigami/acebrainiac/internal/listing"
)

// List is the entity-agnostic face of a listing.Controller, rendered as rows
// of text.
type List interface {
	Name() string
	Filters() []listing.Filter
	Start(ctx context.Context)
	SetParam(name, value string) error
	SetPage(n int) error
	Refetch(ctx context.Context) Page
	Page() Page
	Close()
}

// Page is one rendered page of a List.
type Page struct {
	Header     []string
	Rows       [][]string
	Page       int
	TotalPages int
	TotalItems int
	Loading    bool
	Err        string
}

// Column renders one cell of an entity row.
type Column[T any] struct {
	Title string
	Value func(T) string
}

type table[T any] struct {
	*listing.Controller[T]
	columns []Column[T]
}

// NewList wraps a typed controller with its table columns.
func NewList[T any](c *listing.Controller[T], columns []Column[T]) List {
	return &table[T]{Controller: c, columns: columns}
}

func (t *table[T]) Refetch(ctx context.Context) Page {
	return t.render(t.Controller.Refetch(ctx))
}

func (t *table[T]) Page() Page {
	return t.render(t.Controller.State())
}

func (t *table[T]) render(st listing.State[T]) Page {
	p := Page{
		Header:     make([]string, len(t.columns)),
		Rows:       make([][]string, 0, len(st.Items)),
		Page:       st.Query.Page,
		TotalPages: st.TotalPages,
		TotalItems: st.TotalItems,
		Loading:    st.Loading,
		Err:        st.Err,
	}
	for i, c := range t.columns {
		p.Header[i] = c.Title
	}
	for _, item := range st.Items {
		row := make([]string, len(t.columns))
		for i, c := range t.columns {
			row[i] = c.Value(item)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// Lists holds one controller per entity.
type Lists struct {
	byName map[string]List
}

func NewLists(lists ...List) *Lists {
	l := &Lists{byName: make(map[string]List, len(lists))}
	for _, list := range lists {
		l.byName[list.Name()] = list
	}
	return l
}

func (l *Lists) Get(name string) (List, bool) {
	list, ok := l.byName[name]
	return list, ok
}

func (l *Lists) Names() []string {
	names := make([]string, 0, len(l.byName))
	for n := range l.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close tears every controller down.
func (l *Lists) Close() {
	for _, list := range l.byName {
		list.Close()
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
