package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page selects a 1-based page of results.
type Page struct {
	Number  int
	PerPage int
}

// NewPage clamps number and perPage to sane bounds.
func NewPage(number, perPage int) Page {
	if number < 1 {
		number = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Number: number, PerPage: perPage}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// PageResult is one page of a listing plus the totals needed for navigation.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// paginate counts q and loads the requested page ordered by order.
func paginate[T any](q *gorm.DB, p Page, order string, preloads ...string) (*PageResult[T], error) {
	if p.PerPage == 0 {
		p = NewPage(p.Number, p.PerPage)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	find := q.Order(order).Offset(p.Offset()).Limit(p.PerPage)
	for _, rel := range preloads {
		find = find.Preload(rel)
	}
	items := make([]T, 0, p.PerPage)
	if err := find.Find(&items).Error; err != nil {
		return nil, err
	}

	return &PageResult[T]{
		Items:      items,
		Page:       p.Number,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: int((total + int64(p.PerPage) - 1) / int64(p.PerPage)),
	}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// searchTerms splits free text on whitespace into LIKE patterns. Wildcards in
// the input are escaped, so they match literally.
func searchTerms(q string) []string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = "%" + likeEscaper.Replace(strings.ToLower(t)) + "%"
	}
	return terms
}

// matchAll requires every search term to match at least one of columns.
func matchAll(q *gorm.DB, query string, columns ...string) *gorm.DB {
	if len(columns) == 0 {
		return q
	}
	clauses := make([]string, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
	}
	cond := "(" + strings.Join(clauses, " OR ") + ")"
	for _, term := range searchTerms(query) {
		args := make([]interface{}, len(columns))
		for i := range args {
			args[i] = term
		}
		q = q.Where(cond, args...)
	}
	return q
}

func findByID[T any](db *gorm.DB, id uuid.UUID, preloads ...string) (*T, error) {
	var out T
	q := db
	for _, rel := range preloads {
		q = q.Preload(rel)
	}
	if err := q.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// softDelete stamps deleted_by and soft-deletes the row. A missing row yields gorm.ErrRecordNotFound.
func softDelete[T any](db *gorm.DB, id uuid.UUID, deletedBy string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var zero T
		res := tx.Model(&zero).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&zero, "id = ?", id).Error
	})
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
