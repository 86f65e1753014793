package model

import "time"

// Review status vocabulary. The values are fixed Arabic strings stored as-is
// in the Submissions sheet and rendered verbatim by the front-end.
const (
	StatusReady     = "جاهز للإرسال"
	StatusWaiting   = "في الانتظار"
	StatusNeedsWork = "يحتاج إلى تحسينات"
	StatusRejected  = "مرفوض"
	StatusSent      = "تم الإرسال"
)

// statusPriority orders review statuses for sorting. Lower sorts first.
// Unknown statuses sort last. "Sent" shares the ready slot since the
// front-end styles it as ready.
var statusPriority = map[string]int{
	StatusReady:     0,
	StatusSent:      0,
	StatusWaiting:   1,
	StatusNeedsWork: 2,
	StatusRejected:  3,
}

// StatusPriority returns the sort rank of a review status.
func StatusPriority(status string) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return len(statusPriority)
}

// letterTypeLabels translates the raw letter type stored in the sheet into
// the Arabic label shown (and filtered on) by the front-end.
var letterTypeLabels = map[string]string{
	"New":       "جديد",
	"Reply":     "رد",
	"Follow Up": "متابعة",
	"Co-op":     "تعاون",
}

// TranslateLetterType returns the Arabic label for a raw letter type, or the
// raw value when no translation exists.
func TranslateLetterType(raw string) string {
	if label, ok := letterTypeLabels[raw]; ok {
		return label
	}
	return raw
}

// LetterRecord is one row of the Submissions sheet. Identity is ID.
type LetterRecord struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Recipient    string `json:"recipient"`
	Subject      string `json:"subject"`
	Content      string `json:"content"`
	LetterLink   string `json:"letterLink"`
	ReviewStatus string `json:"reviewStatus"`
	SendStatus   string `json:"sendStatus"`
	ReviewerName string `json:"reviewerName"`
	ReviewNotes  string `json:"reviewNotes"`
	Writer       string `json:"writer"`
}

// ParseDate parses the record's date column. The sheet stores dates in a few
// formats depending on which flow wrote the row; zero time means unparseable
// and sorts last under either date ordering.
func (r LetterRecord) ParseDate() time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02/01/2006",
	} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
