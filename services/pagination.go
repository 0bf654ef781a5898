package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/devsstudio/skillsview/database"
	"github.com/devsstudio/skillsview/helpers"
	"github.com/devsstudio/skillsview/request"
	"github.com/devsstudio/skillsview/response"
	"github.com/devsstudio/skillsview/types"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type (
	Pagination struct {
		db          *gorm.DB
		table       string
		where       string
		order       string
		offsetLimit string
		exclusions  []string
		args        []any
		columns     []string
	}
)

func PaginationService(db *gorm.DB, baseParams types.ListParams) *Pagination {
	service := &Pagination{
		db:         db,
		exclusions: baseParams.Exclude,
	}
	service.table = service.quote(baseParams.Table)
	service.where, service.args = RenderWhere(baseParams.Filters, service.quote)
	service.order = service.getOrder(baseParams.OrderBy)
	return service
}

// FindAll runs the listing with an optional row cap and no count query.
func (service *Pagination) FindAll(ctx context.Context, limit int) (*response.ListResponse, error) {
	service.offsetLimit = getLimit(limit)
	items, err := service.getItems(ctx, service.getSql())
	if err != nil {
		return nil, err
	}
	return &response.ListResponse{Columns: service.columns, Items: items}, nil
}

// FindPaginated counts the matching rows, then fetches one page of them.
func (service *Pagination) FindPaginated(ctx context.Context, page, pageSize int) (*response.PaginationResponse, error) {
	page, pageSize = request.ClampPage(page), request.ClampPageSize(pageSize)

	total, err := service.Count(ctx)
	if err != nil {
		return nil, err
	}

	service.offsetLimit = getPagination(page, pageSize)
	items, err := service.getItems(ctx, service.getSql())
	if err != nil {
		return nil, err
	}

	return &response.PaginationResponse{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: response.TotalPages(total, pageSize),
		TotalItems: total,
		Columns:    service.columns,
		Items:      items,
	}, nil
}

func (service *Pagination) Count(ctx context.Context) (int, error) {
	var count int64
	err := service.db.WithContext(ctx).Raw(service.getCountSql(), service.args...).Scan(&count).Error
	if err != nil {
		return 0, database.Classify(err)
	}
	return int(count), nil
}

func (service *Pagination) getSql() string {
	return joinClauses(
		"SELECT * FROM "+service.table,
		service.where,
		service.order,
		service.offsetLimit,
	)
}

func (service *Pagination) getCountSql() string {
	return joinClauses("SELECT COUNT(*) AS total FROM "+service.table, service.where)
}

func (service *Pagination) getOrder(column string) string {
	if column == "" {
		return ""
	}
	return "ORDER BY " + service.quote(column) + " ASC"
}

func (service *Pagination) getItems(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := service.db.WithContext(ctx).Raw(query, service.args...).Rows()
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	columns, items, err := scanMaps(rows, service.exclusions)
	if err != nil {
		return nil, database.Classify(err)
	}
	service.columns = columns
	return items, nil
}

// scanMaps reads every row into a column-name map, dropping excluded keys.
// The returned column list keeps the result set's order minus exclusions.
func scanMaps(rows *sql.Rows, exclusions []string) ([]string, []map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	items := []map[string]any{}
	for rows.Next() {
		columns := make([]any, len(cols))
		columnPointers := make([]any, len(cols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, nil, err
		}

		row := make(map[string]any, len(cols))
		for i, colName := range cols {
			row[colName] = normalize(columns[i])
		}
		for _, excl := range exclusions {
			delete(row, excl)
		}

		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	kept := make([]string, 0, len(cols))
	for _, c := range cols {
		if !helpers.ArrayContains(exclusions, c) {
			kept = append(kept, c)
		}
	}
	return kept, items, nil
}

// quote wraps an identifier in the dialect's quotes. Placeholders are always
// written as "?"; gorm rebinds them for postgres.
func (service *Pagination) quote(name string) string {
	switch getDatabaseType(service.db) {
	case "postgres":
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	default:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
}

// normalize turns driver byte slices into strings so rows encode as text.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func joinClauses(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func getLimit(limit int) string {
	if limit > 0 {
		return fmt.Sprintf("LIMIT %d", limit)
	}
	return ""
}

func getPagination(page, pageSize int) string {
	offset := (page - 1) * pageSize
	return fmt.Sprintf("LIMIT %d OFFSET %d", pageSize, offset)
}

func getDatabaseType(db *gorm.DB) string {
	switch db.Dialector.(type) {
	case *mysql.Dialector:
		return "mysql"
	case *postgres.Dialector:
		return "postgres"
	default:
		return "unknown"
	}
}
