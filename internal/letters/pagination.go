package letters

import "maktub/internal/model"

const DefaultItemsPerPage = 20

// Pagination tracks the current window over the filtered letter set.
// Invariants: currentPage is always within [1, totalPages] and
// totalPages = ceil(totalItems/itemsPerPage), floored at 1 so an empty set
// still has a page to stand on.
type Pagination struct {
	currentPage  int
	itemsPerPage int
	totalItems   int
	totalPages   int
}

func NewPagination(itemsPerPage int) *Pagination {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Pagination{
		currentPage:  1,
		itemsPerPage: itemsPerPage,
		totalPages:   1,
	}
}

// SetTotal recomputes totalPages for a new result-set size and clamps the
// current page back into range.
func (p *Pagination) SetTotal(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	p.totalItems = totalItems
	p.totalPages = (totalItems + p.itemsPerPage - 1) / p.itemsPerPage
	if p.totalPages < 1 {
		p.totalPages = 1
	}
	if p.currentPage > p.totalPages {
		p.currentPage = p.totalPages
	}
}

// SetItemsPerPage changes the page size, recomputes totals, and resets to
// page 1. The page must never persist past a shrunk total.
func (p *Pagination) SetItemsPerPage(itemsPerPage int) {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	p.itemsPerPage = itemsPerPage
	p.SetTotal(p.totalItems)
	p.currentPage = 1
}

// GoToPage moves to page number page. Out-of-range requests leave the state
// unchanged and report failure.
func (p *Pagination) GoToPage(page int) bool {
	if page < 1 || page > p.totalPages {
		return false
	}
	p.currentPage = page
	return true
}

// Reset returns to page 1. Called whenever the underlying result set
// changes, since the old page number is meaningless against a new set.
func (p *Pagination) Reset() {
	p.currentPage = 1
}

// PageSlice returns the records of the current page.
func (p *Pagination) PageSlice(all []model.LetterRecord) []model.LetterRecord {
	start := (p.currentPage - 1) * p.itemsPerPage
	if start >= len(all) {
		return []model.LetterRecord{}
	}
	end := start + p.itemsPerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (p *Pagination) Page() int         { return p.currentPage }
func (p *Pagination) ItemsPerPage() int { return p.itemsPerPage }
func (p *Pagination) TotalItems() int   { return p.totalItems }
func (p *Pagination) TotalPages() int   { return p.totalPages }
