package services

import (
	"context"

	"github.com/devsstudio/skillsview/database"

	"gorm.io/gorm"
)

// Ping runs a trivial query and returns its single row: ok=1 and the
// server's current time.
func Ping(ctx context.Context, db *gorm.DB) ([]map[string]any, error) {
	rows, err := db.WithContext(ctx).Raw("SELECT 1 AS ok, CURRENT_TIMESTAMP AS now").Rows()
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	_, items, err := scanMaps(rows, nil)
	if err != nil {
		return nil, database.Classify(err)
	}
	return items, nil
}
