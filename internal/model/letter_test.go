package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTranslateLetterType(t *testing.T) {
	assert.Equal(t, "جديد", TranslateLetterType("New"))
	assert.Equal(t, "رد", TranslateLetterType("Reply"))
	assert.Equal(t, "متابعة", TranslateLetterType("Follow Up"))
	assert.Equal(t, "تعاون", TranslateLetterType("Co-op"))

	// Unknown types pass through untouched.
	assert.Equal(t, "خطاب قديم", TranslateLetterType("خطاب قديم"))
	assert.Equal(t, "", TranslateLetterType(""))
}

func TestStatusPriorityOrdering(t *testing.T) {
	assert.Equal(t, StatusPriority(StatusReady), StatusPriority(StatusSent))
	assert.Less(t, StatusPriority(StatusReady), StatusPriority(StatusWaiting))
	assert.Less(t, StatusPriority(StatusWaiting), StatusPriority(StatusNeedsWork))
	assert.Less(t, StatusPriority(StatusNeedsWork), StatusPriority(StatusRejected))
	assert.Greater(t, StatusPriority("حالة غريبة"), StatusPriority(StatusRejected))
}

func TestParseDateFormats(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-15T10:30:00Z": time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		"2024-03-15 10:30:00":  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		"2024-03-15":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"15/03/2024":           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	for raw, want := range cases {
		r := LetterRecord{Date: raw}
		assert.True(t, r.ParseDate().Equal(want), "date %q", raw)
	}

	assert.True(t, LetterRecord{Date: "غير معروف"}.ParseDate().IsZero())
	assert.True(t, LetterRecord{}.ParseDate().IsZero())
}
