// internal/store/gormstore.go
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormStore implements RemoteStore on top of a GORM connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed remote store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Select retrieves rows from the given table.
func (s *GormStore) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	var rows []map[string]any

	query := s.apply(s.db.WithContext(ctx).Table(table), q)
	if len(q.Columns) > 0 {
		query = query.Select(q.Columns)
	}
	if q.OrderBy != "" {
		direction := "ASC"
		if q.Descending {
			direction = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", q.OrderBy, direction))
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", table, err)
	}

	result := make([]Row, len(rows))
	for i, r := range rows {
		result[i] = Row(r)
	}
	return result, nil
}

// Insert stores one or more rows into the given table.
func (s *GormStore) Insert(ctx context.Context, table string, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}

	data := make([]map[string]any, len(rows))
	for i, r := range rows {
		data[i] = map[string]any(r)
	}

	if err := s.db.WithContext(ctx).Table(table).Create(data).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// Update modifies rows matching the query and returns the affected count.
func (s *GormStore) Update(ctx context.Context, table string, data Row, q Query) (int64, error) {
	result := s.apply(s.db.WithContext(ctx).Table(table), q).Updates(map[string]any(data))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update %s: %w", table, result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes rows matching the query and returns the affected count.
func (s *GormStore) Delete(ctx context.Context, table string, q Query) (int64, error) {
	result := s.apply(s.db.WithContext(ctx).Table(table), q).Delete(nil)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, result.Error)
	}
	return result.RowsAffected, nil
}

// Ping verifies the store is reachable with a trivial limit-1 read.
func (s *GormStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("remote store unreachable: %w", err)
	}
	return nil
}

// apply adds the query filters to a GORM query builder.
func (s *GormStore) apply(query *gorm.DB, q Query) *gorm.DB {
	for column, value := range q.Eq {
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}
	for column, pattern := range q.ILike {
		query = query.Where(fmt.Sprintf("%s ILIKE ?", column), pattern)
	}
	return query
}
