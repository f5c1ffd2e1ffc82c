package controller

import (
	"strconv"
	"time"

	"github.com/lshigami/acebrainiac/config"
	"github.com/lshigami/acebrainiac/internal/listing"
	"github.com/lshigami/acebrainiac/internal/model"
)

var (
	status   = listing.Filter{Name: "status", Kind: listing.FilterSelect}
	class    = listing.Filter{Name: "class", Kind: listing.FilterSelect}
	subject  = listing.Filter{Name: "subject", Kind: listing.FilterSelect}
	school   = listing.Filter{Name: "school", Kind: listing.FilterSelect}
	dateFltr = listing.Filter{Name: "date", Kind: listing.FilterDate}
)

// entityConfig builds the controller configuration of one entity. Every list
// also takes the free-text "query" parameter.
func entityConfig[T any](cfg *config.Config, name, endpoint, key string, limit int, fallback string, filters ...listing.Filter) listing.Config[T] {
	return listing.Config[T]{
		Name:     name,
		Endpoint: endpoint,
		Limit:    limit,
		Filters:  filters,
		Shape:    listing.Shape{CollectionKey: key},
		Fallback: fallback,
		Debounce: cfg.Lists.SearchDebounce,
	}
}

func NewStudentList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.Student](cfg, "students", "/admin/students", "students", 6,
		"Failed to fetch students", status, class))
	return NewList(c, []Column[model.Student]{
		{"ID", func(s model.Student) string { return s.ID }},
		{"Name", func(s model.Student) string { return s.Name }},
		{"Email", func(s model.Student) string { return s.Email }},
		{"Class", func(s model.Student) string { return s.Class }},
		{"Status", func(s model.Student) string { return s.Status }},
	})
}

func NewSchoolList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.School](cfg, "schools", "/admin/schools", "schools", 6,
		"Failed to fetch schools", status))
	return NewList(c, []Column[model.School]{
		{"ID", func(s model.School) string { return s.ID }},
		{"Name", func(s model.School) string { return s.Name }},
		{"Students", func(s model.School) string { return itoa(s.StudentCount) }},
		{"Status", func(s model.School) string { return s.Status }},
	})
}

func NewClassList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.Class](cfg, "classes", "/admin/classes", "classes", 9,
		"Failed to fetch classes", school))
	return NewList(c, []Column[model.Class]{
		{"ID", func(c model.Class) string { return c.ID }},
		{"Name", func(c model.Class) string { return c.Name }},
		{"Grade", func(c model.Class) string { return itoa(c.Grade) }},
		{"School", func(c model.Class) string { return c.School }},
		{"Students", func(c model.Class) string { return itoa(c.StudentCount) }},
	})
}

func NewTestList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.TestSummary](cfg, "tests", "/admin/tests", "tests", 9,
		"Failed to fetch tests", status, subject, class))
	return NewList(c, []Column[model.TestSummary]{
		{"ID", func(t model.TestSummary) string { return t.ID }},
		{"Title", func(t model.TestSummary) string { return t.Title }},
		{"Subject", func(t model.TestSummary) string { return t.Subject }},
		{"Class", func(t model.TestSummary) string { return t.Class }},
		{"Questions", func(t model.TestSummary) string { return itoa(t.QuestionCount) }},
		{"Status", func(t model.TestSummary) string { return t.Status }},
	})
}

func NewWorksheetList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.Worksheet](cfg, "worksheets", "/admin/worksheets", "worksheets", 9,
		"Failed to fetch worksheets", subject, class))
	return NewList(c, []Column[model.Worksheet]{
		{"ID", func(w model.Worksheet) string { return w.ID }},
		{"Title", func(w model.Worksheet) string { return w.Title }},
		{"Subject", func(w model.Worksheet) string { return w.Subject }},
		{"Class", func(w model.Worksheet) string { return w.Class }},
	})
}

func NewMembershipList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.Membership](cfg, "memberships", "/admin/memberships", "memberships", 6,
		"Failed to fetch memberships", status))
	return NewList(c, []Column[model.Membership]{
		{"ID", func(m model.Membership) string { return m.ID }},
		{"Name", func(m model.Membership) string { return m.Name }},
		{"Price", func(m model.Membership) string { return strconv.FormatFloat(m.Price, 'f', 2, 64) }},
		{"Months", func(m model.Membership) string { return itoa(m.DurationMonths) }},
		{"Members", func(m model.Membership) string { return itoa(m.MemberCount) }},
		{"Status", func(m model.Membership) string { return m.Status }},
	})
}

func NewPerformanceList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.PerformanceRecord](cfg, "performance", "/admin/performance", "records", 6,
		"Failed to fetch performance records", class, dateFltr))
	return NewList(c, []Column[model.PerformanceRecord]{
		{"Student", func(r model.PerformanceRecord) string { return r.StudentName }},
		{"Test", func(r model.PerformanceRecord) string { return r.TestTitle }},
		{"Class", func(r model.PerformanceRecord) string { return r.Class }},
		{"Score", func(r model.PerformanceRecord) string {
			pct, ok := r.Percent()
			if !ok {
				return "-"
			}
			return strconv.FormatFloat(pct, 'f', 0, 64) + "%"
		}},
		{"Submitted", func(r model.PerformanceRecord) string { return day(r.SubmittedAt) }},
	})
}

func NewTicketList(f listing.Fetcher, cfg *config.Config) List {
	c := listing.NewController(f, entityConfig[model.SupportTicket](cfg, "tickets", "/admin/support-tickets", "tickets", 6,
		"Failed to fetch support tickets", status, dateFltr))
	return NewList(c, []Column[model.SupportTicket]{
		{"ID", func(t model.SupportTicket) string { return t.ID }},
		{"Subject", func(t model.SupportTicket) string { return t.Subject }},
		{"From", func(t model.SupportTicket) string { return t.Requester }},
		{"Status", func(t model.SupportTicket) string { return t.Status }},
		{"Opened", func(t model.SupportTicket) string { return day(t.CreatedAt) }},
	})
}

// NewAllLists builds the controller of every listed entity.
func NewAllLists(f listing.Fetcher, cfg *config.Config) *Lists {
	return NewLists(
		NewStudentList(f, cfg),
		NewSchoolList(f, cfg),
		NewClassList(f, cfg),
		NewTestList(f, cfg),
		NewWorksheetList(f, cfg),
		NewMembershipList(f, cfg),
		NewPerformanceList(f, cfg),
		NewTicketList(f, cfg),
	)
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(listing.DateLayout)
}
