package postgres

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortColumns whitelists the columns a resource may be ordered by.
type SortColumns map[string]bool

var (
	courseSortColumns = SortColumns{
		"id": true, "code": true, "name": true, "dept_id": true,
		"programme_id": true, "created_at": true, "updated_at": true,
	}
	questionSortColumns = SortColumns{
		"id": true, "course_id": true, "section_title": true, "number": true,
		"marks": true, "taxonomy": true, "type": true, "topic": true,
		"created_at": true, "updated_at": true,
	}
	paperSortColumns = SortColumns{
		"id": true, "course_id": true, "created_by_id": true, "status": true,
		"created_at": true, "updated_at": true,
	}
	referenceSortColumns = SortColumns{
		"id": true, "name": true, "code": true, "dept_id": true,
		"is_active": true, "created_at": true,
	}
)

// ApplyPaginationAndSort orders by a whitelisted column, falling back to
// defaultSort, then applies optional limit and offset. The primary key is
// always appended so equal sort keys come back in a stable order.
func ApplyPaginationAndSort(query *gorm.DB, opts repositories.ListOptions, allowed SortColumns, defaultSort clause.OrderByColumn) *gorm.DB {
	order := defaultSort
	if opts.SortBy != "" && allowed[opts.SortBy] {
		order = clause.OrderByColumn{
			Column: clause.Column{Name: opts.SortBy},
			Desc:   strings.EqualFold(opts.SortOrder, "desc"),
		}
	}

	query = query.Order(order)
	if order.Column.Name != "id" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: order.Desc})
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	return query
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

// notFound wraps gorm.ErrRecordNotFound with the entity being looked up.
func notFound(entity string, id any) error {
	return fmt.Errorf("%s not found with ID %v: %w", entity, id, repositories.ErrNotFound)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
