package services

import (
	"context"
	"sync"
)

// OrderColumns memoizes PickOrderColumn per table. Only completed probes are
// remembered, so a failed probe is tried again on the next call.
type OrderColumns struct {
	schema string

	mu       sync.Mutex
	resolved map[string]string
}

func NewOrderColumns(schema string) *OrderColumns {
	return &OrderColumns{schema: schema, resolved: map[string]string{}}
}

// For returns the order column for table, or "" when it has none.
func (o *OrderColumns) For(ctx context.Context, src ColumnSource, table string) (string, error) {
	o.mu.Lock()
	col, ok := o.resolved[table]
	o.mu.Unlock()
	if ok {
		return col, nil
	}

	col, _, err := PickOrderColumn(ctx, src, table, o.schema)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	o.resolved[table] = col
	o.mu.Unlock()
	return col, nil
}
