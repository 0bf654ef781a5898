package services

import (
	"context"

	"github.com/devsstudio/skillsview/database"
	"github.com/devsstudio/skillsview/helpers"

	"gorm.io/gorm"
)

// OrderCandidates lists sort columns by preference: id-like names first, then
// update and creation timestamps.
var OrderCandidates = []string{
	"id",
	"user_id", "license_id", "uid", "seq",
	"updated_at", "update_at", "updatedAt",
	"created_at", "create_at", "createdAt",
}

// ColumnSource reports which of the candidate columns exist on a table.
type ColumnSource interface {
	ExistingColumns(ctx context.Context, schema, table string, candidates []string) ([]string, error)
}

// CatalogSource reads INFORMATION_SCHEMA.COLUMNS.
type CatalogSource struct {
	db *gorm.DB
}

func NewCatalogSource(db *gorm.DB) *CatalogSource {
	return &CatalogSource{db: db}
}

func (s *CatalogSource) ExistingColumns(ctx context.Context, schema, table string, candidates []string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Raw(
		"SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME IN ?",
		schema, table, candidates,
	).Scan(&names).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return names, nil
}

// PickOrderColumn returns the highest priority candidate present on table.
// The catalog's row order is ignored. ok is false when no candidate exists;
// probe errors are returned as is.
func PickOrderColumn(ctx context.Context, src ColumnSource, table, schema string) (column string, ok bool, err error) {
	found, err := src.ExistingColumns(ctx, schema, table, OrderCandidates)
	if err != nil {
		return "", false, err
	}
	column, ok = helpers.FirstMatch(OrderCandidates, found)
	return column, ok, nil
}
