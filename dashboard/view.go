package dashboard

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/devsstudio/skillsview/helpers"
	"github.com/devsstudio/skillsview/request"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const pagerWindow = 5

var (
	printer   = message.NewPrinter(language.English)
	isoPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	hidden    = []string{"password"}
)

type Page struct {
	Request   request.UsersRequest
	UpdatedAt string
	Users     UsersSection
	Licenses  Section
}

type Section struct {
	Error string
	Table Table
}

type UsersSection struct {
	Section
	Page       int
	TotalPages int
	Total      int
	Start      int
	End        int
	Pager      *Pager
}

type Table struct {
	Columns []string
	Rows    [][]string
}

type PagerLink struct {
	Number  int
	Href    string
	Current bool
}

type Pager struct {
	Prev    string
	Next    string
	AtFirst bool
	AtLast  bool
	Links   []PagerLink
}

// Range is the "start-end" label for the rows on screen.
func (u UsersSection) Range() string {
	return fmt.Sprintf("%d-%d", u.Start, u.End)
}

// BuildPage derives everything the template shows from the two results.
func BuildPage(req request.UsersRequest, s Sections, now time.Time) Page {
	p := Page{
		Request:   req,
		UpdatedAt: now.Format("2006-01-02 15:04:05"),
	}

	p.Users.Error = s.Users.Failure()
	if p.Users.Error == "" {
		p.Users.Table = buildTable(s.Users.Envelope.Columns, s.Users.Envelope.Data)
	}

	p.Users.Page = req.Page
	p.Users.TotalPages = 1
	p.Users.Total = len(s.Users.Envelope.Data)
	if s.Users.Err == nil {
		env := s.Users.Envelope
		if env.Page != nil {
			p.Users.Page = request.ClampPage(*env.Page)
		}
		if env.TotalPages != nil {
			p.Users.TotalPages = *env.TotalPages
		}
		if env.Total != nil {
			p.Users.Total = *env.Total
		}
	}
	if p.Users.Error != "" {
		p.Users.Total = 0
	}
	p.Users.Start, p.Users.End = DisplayRange(p.Users.Total, p.Users.Page, req.PageSize)
	p.Users.Pager = BuildPager(req, p.Users.Page, p.Users.TotalPages)

	p.Licenses.Error = s.Licenses.Failure()
	if p.Licenses.Error == "" {
		p.Licenses.Table = buildTable(s.Licenses.Envelope.Columns, s.Licenses.Envelope.Data)
	}

	return p
}

// DisplayRange returns the 1-based first and last row numbers shown on page.
func DisplayRange(total, page, pageSize int) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	page, pageSize = request.ClampPage(page), request.ClampPageSize(pageSize)
	start := (page-1)*pageSize + 1
	end := start + pageSize - 1
	if end > total {
		end = total
	}
	return start, end
}

// BuildPager returns nil when everything fits on one page.
func BuildPager(req request.UsersRequest, page, totalPages int) *Pager {
	if totalPages <= 1 {
		return nil
	}

	start := page - pagerWindow/2
	if start < 1 {
		start = 1
	}
	end := start + pagerWindow - 1
	if end > totalPages {
		end = totalPages
	}

	p := &Pager{
		Prev:    PageHref(req, max(1, page-1)),
		Next:    PageHref(req, min(totalPages, page+1)),
		AtFirst: page == 1,
		AtLast:  page == totalPages,
	}
	for n := start; n <= end; n++ {
		p.Links = append(p.Links, PagerLink{Number: n, Href: PageHref(req, n), Current: n == page})
	}
	return p
}

// PageHref links to page n keeping every active filter.
func PageHref(req request.UsersRequest, n int) string {
	return "/?" + req.WithPage(n).Values().Encode()
}

func buildTable(columns []string, rows []map[string]interface{}) Table {
	if len(rows) == 0 {
		return Table{}
	}
	if len(columns) == 0 {
		for c := range rows[0] {
			columns = append(columns, c)
		}
		sort.Strings(columns)
	}

	t := Table{}
	for _, c := range columns {
		if !helpers.ArrayContains(hidden, c) {
			t.Columns = append(t.Columns, c)
		}
	}
	for _, row := range rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = FormatCell(row[c])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// FormatCell renders a decoded JSON value for display. Integers get
// thousands separators and ISO timestamps are shown as UTC date and time.
func FormatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if isoPrefix.MatchString(x) {
			if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
				return t.UTC().Format("2006-01-02 15:04:05")
			}
		}
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return printer.Sprintf("%d", n)
		}
		if f, err := x.Float64(); err == nil {
			return printer.Sprintf("%v", f)
		}
		return x.String()
	case float64:
		if x == float64(int64(x)) {
			return printer.Sprintf("%d", int64(x))
		}
		return printer.Sprintf("%v", x)
	case int:
		return printer.Sprintf("%d", x)
	case int64:
		return printer.Sprintf("%d", x)
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}

// FormatInt is the template helper for counters.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}
