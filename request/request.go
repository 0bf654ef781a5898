package request

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/devsstudio/skillsview/helpers"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*MaxPageSize inside an int.
	MaxPage = math.MaxInt32
)

type UsersRequest struct {
	Page        int    `json:"page"`
	PageSize    int    `json:"pageSize"`
	School      string `json:"school,omitempty"`
	ExcludeTest string `json:"excludeTest,omitempty"`
	Q           string `json:"q,omitempty"`
}

// ParseUsersRequest reads the users query string. Page and page size are
// clamped rather than rejected; unparsable numbers fall back to defaults.
func ParseUsersRequest(values url.Values) UsersRequest {
	return UsersRequest{
		Page:        ClampPage(parseInt(values.Get("page"), DefaultPage)),
		PageSize:    ClampPageSize(parseInt(values.Get("pageSize"), DefaultPageSize)),
		School:      strings.TrimSpace(values.Get("school")),
		ExcludeTest: strings.ToLower(strings.TrimSpace(values.Get("excludeTest"))),
		Q:           strings.TrimSpace(values.Get("q")),
	}
}

func (r UsersRequest) ExcludesTest() bool {
	return helpers.Truthy(r.ExcludeTest)
}

// Values encodes the request back into a query string. Empty filters are
// omitted so links stay short.
func (r UsersRequest) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(r.Page))
	v.Set("pageSize", strconv.Itoa(r.PageSize))
	if r.School != "" {
		v.Set("school", r.School)
	}
	if r.ExcludeTest != "" {
		v.Set("excludeTest", r.ExcludeTest)
	}
	if r.Q != "" {
		v.Set("q", r.Q)
	}
	return v
}

// WithPage returns a copy pointing at page p, every other field unchanged.
func (r UsersRequest) WithPage(p int) UsersRequest {
	r.Page = ClampPage(p)
	return r
}

func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func ClampPageSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			if strings.HasPrefix(s, "-") {
				return math.MinInt
			}
			return math.MaxInt
		}
		return def
	}
	return n
}
