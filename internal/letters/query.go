package letters

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"maktub/internal/model"
)

// SortKey selects the comparator applied after filtering.
type SortKey string

const (
	SortDateNewOld    SortKey = "date-new-old"
	SortDateOldNew    SortKey = "date-old-new"
	SortRecipientAsc  SortKey = "recipient-asc"
	SortRecipientDesc SortKey = "recipient-desc"
	SortSubjectAsc    SortKey = "subject-asc"
	SortSubjectDesc   SortKey = "subject-desc"
	SortTypeAsc       SortKey = "type-asc"
	SortTypeDesc      SortKey = "type-desc"
	SortWriterAsc     SortKey = "writer-asc"
	SortWriterDesc    SortKey = "writer-desc"
	SortStatus        SortKey = "status"
)

// Query is an active filter/sort combination over the letter list. Filters
// apply before sorting; the zero Query passes everything through unchanged.
type Query struct {
	// Search matches case-insensitively against recipient, id, or writer.
	Search string
	// TypeLabel filters by equality on the translated type label.
	TypeLabel string
	// ReviewStatus filters by equality on the raw review status.
	ReviewStatus string
	// Sort selects the comparator. Empty means input order.
	Sort SortKey
}

// Apply filters then stable-sorts a copy of records. The input slice is
// never mutated.
func (q Query) Apply(records []model.LetterRecord) []model.LetterRecord {
	out := make([]model.LetterRecord, 0, len(records))
	for _, r := range records {
		if q.matches(r) {
			out = append(out, r)
		}
	}
	q.sortRecords(out)
	return out
}

func (q Query) matches(r model.LetterRecord) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(r.Recipient), term) &&
			!strings.Contains(strings.ToLower(r.ID), term) &&
			!strings.Contains(strings.ToLower(r.Writer), term) {
			return false
		}
	}
	if q.TypeLabel != "" && model.TranslateLetterType(r.Type) != q.TypeLabel {
		return false
	}
	if q.ReviewStatus != "" && r.ReviewStatus != q.ReviewStatus {
		return false
	}
	return true
}

func (q Query) sortRecords(records []model.LetterRecord) {
	if q.Sort == "" {
		return
	}

	switch q.Sort {
	case SortDateNewOld:
		sort.SliceStable(records, func(i, j int) bool {
			return dateLess(records[i].ParseDate(), records[j].ParseDate(), true)
		})
	case SortDateOldNew:
		sort.SliceStable(records, func(i, j int) bool {
			return dateLess(records[i].ParseDate(), records[j].ParseDate(), false)
		})
	case SortStatus:
		sort.SliceStable(records, func(i, j int) bool {
			return model.StatusPriority(records[i].ReviewStatus) < model.StatusPriority(records[j].ReviewStatus)
		})
	default:
		field, descending := q.lexicalField()
		if field == nil {
			return
		}
		// collators are not safe for concurrent use, so build one per sort
		col := collate.New(language.Arabic)
		sort.SliceStable(records, func(i, j int) bool {
			cmp := col.CompareString(field(records[i]), field(records[j]))
			if descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}

// dateLess orders two parsed dates. A zero time means the date column was
// unparseable; those rows sort last under either direction.
func dateLess(di, dj time.Time, newestFirst bool) bool {
	if di.IsZero() {
		return false
	}
	if dj.IsZero() {
		return true
	}
	if newestFirst {
		return di.After(dj)
	}
	return di.Before(dj)
}

func (q Query) lexicalField() (func(model.LetterRecord) string, bool) {
	switch q.Sort {
	case SortRecipientAsc:
		return func(r model.LetterRecord) string { return r.Recipient }, false
	case SortRecipientDesc:
		return func(r model.LetterRecord) string { return r.Recipient }, true
	case SortSubjectAsc:
		return func(r model.LetterRecord) string { return r.Subject }, false
	case SortSubjectDesc:
		return func(r model.LetterRecord) string { return r.Subject }, true
	case SortTypeAsc:
		return func(r model.LetterRecord) string { return model.TranslateLetterType(r.Type) }, false
	case SortTypeDesc:
		return func(r model.LetterRecord) string { return model.TranslateLetterType(r.Type) }, true
	case SortWriterAsc:
		return func(r model.LetterRecord) string { return r.Writer }, false
	case SortWriterDesc:
		return func(r model.LetterRecord) string { return r.Writer }, true
	}
	return nil, false
}
