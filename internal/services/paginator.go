package services

import (
	"strings"

	"peerlend/internal/models"
)

// Pager tracks the current page for one view. When the identity of the
// underlying set changes (not just its length), the page resets to 1 so a
// stale index can never render an empty table.
type Pager struct {
	pageSize int
	page     int
	lastKey  string
}

// NewPager creates a pager with the configured page size.
func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pager{pageSize: pageSize, page: 1}
}

// SetPage requests a page; it is clamped against the actual item count on
// the next Page call.
func (pg *Pager) SetPage(page int) {
	pg.page = page
}

// Page slices the current page out of items and reports the effective page
// and total page count.
func (pg *Pager) Page(items []models.Proposal) ([]models.Proposal, int, int) {
	key := setIdentity(items)
	if key != pg.lastKey {
		pg.lastKey = key
		pg.page = 1
	}

	slice, page, totalPages := Paginate(items, pg.pageSize, pg.page)
	pg.page = page
	return slice, page, totalPages
}

// Paginate returns the page'th fixed-size slice of items. Out-of-range pages
// clamp to the nearest valid page rather than failing, keeping callers
// resilient to stale page state.
func Paginate(items []models.Proposal, pageSize, page int) ([]models.Proposal, int, int) {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.Proposal{}, page, totalPages
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, totalPages
}

func setIdentity(items []models.Proposal) string {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, "|")
}
