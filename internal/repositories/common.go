package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Page is an offset window. A zero Limit means no limit.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

// CountRow is a label with its row count.
type CountRow struct {
	Key   string `gorm:"column:label" json:"key"`
	Count int64  `gorm:"column:total" json:"count"`
}

// firstOrNil returns (nil, nil) when no row matches.
func firstOrNil[T any](q *gorm.DB, conds ...interface{}) (*T, error) {
	var out T
	if err := q.First(&out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// countBy groups the model's rows by column.
func countBy(q *gorm.DB, column string) ([]CountRow, error) {
	var rows []CountRow
	err := q.Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func dateRange(q *gorm.DB, column string, from, to int64) *gorm.DB {
	if from > 0 {
		q = q.Where(column+" >= ?", from)
	}
	if to > 0 {
		q = q.Where(column+" <= ?", to)
	}
	return q
}
