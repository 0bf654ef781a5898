package response

import (
	"encoding/json"
	"math"
)

// Envelope is the shape every list endpoint returns. Pagination fields are
// pointers so the licenses listing can leave them out entirely.
type Envelope struct {
	Success    bool                     `json:"success"`
	Data       []map[string]interface{} `json:"data,omitempty"`
	Columns    []string                 `json:"columns,omitempty"`
	Error      string                   `json:"error,omitempty"`
	Page       *int                     `json:"page,omitempty"`
	PageSize   *int                     `json:"pageSize,omitempty"`
	Total      *int                     `json:"total,omitempty"`
	TotalPages *int                     `json:"totalPages,omitempty"`
}

type PaginationResponse struct {
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int
	Columns    []string
	Items      []map[string]interface{}
}

type ListResponse struct {
	Columns []string
	Items   []map[string]interface{}
}

type DBCheckResponse struct {
	Success bool                     `json:"success"`
	Rows    []map[string]interface{} `json:"rows,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// MarshalJSON always writes data on success, as [] when there are no rows.
// Failures carry only success and error.
func (e Envelope) MarshalJSON() ([]byte, error) {
	type plain Envelope
	if !e.Success {
		e.Data = nil
		return json.Marshal(plain(e))
	}
	data := e.Data
	if data == nil {
		data = []map[string]interface{}{}
	}
	return json.Marshal(struct {
		plain
		Data []map[string]interface{} `json:"data"`
	}{plain(e), data})
}

func Ok(l *ListResponse) Envelope {
	return Envelope{Success: true, Data: l.Items, Columns: l.Columns}
}

func Paginated(p *PaginationResponse) Envelope {
	env := Ok(&ListResponse{Columns: p.Columns, Items: p.Items})
	env.Page = &p.Page
	env.PageSize = &p.PageSize
	env.Total = &p.TotalItems
	env.TotalPages = &p.TotalPages
	return env
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// TotalPages is max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
