package sheetclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maktub/internal/model"
)

func submissionRow(id string) []string {
	return []string{
		id, "2024-03-15", "", "New", "وزارة التعليم", "طلب تعاون",
		"نص الخطاب", "", "https://example.com/doc", model.StatusReady,
		model.StatusWaiting, "", "خالد", "ملاحظة", "سارة",
	}
}

func TestDecodeSubmissionsColumnOffsets(t *testing.T) {
	values := [][]string{
		{"المعرف", "التاريخ"},
		submissionRow("LTR-001"),
	}

	records := DecodeSubmissions(values)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "LTR-001", r.ID)
	assert.Equal(t, "2024-03-15", r.Date)
	assert.Equal(t, "New", r.Type)
	assert.Equal(t, "وزارة التعليم", r.Recipient)
	assert.Equal(t, "طلب تعاون", r.Subject)
	assert.Equal(t, "نص الخطاب", r.Content)
	assert.Equal(t, "https://example.com/doc", r.LetterLink)
	assert.Equal(t, model.StatusReady, r.ReviewStatus)
	assert.Equal(t, model.StatusWaiting, r.SendStatus)
	assert.Equal(t, "خالد", r.ReviewerName)
	assert.Equal(t, "ملاحظة", r.ReviewNotes)
	assert.Equal(t, "سارة", r.Writer)
}

func TestDecodeSubmissionsSkipsHeaderAndEmptyIDs(t *testing.T) {
	values := [][]string{
		{"المعرف"},
		submissionRow("LTR-001"),
		{"", "2024-01-01"},
		{},
		submissionRow("LTR-002"),
	}

	records := DecodeSubmissions(values)
	require.Len(t, records, 2)
	assert.Equal(t, "LTR-001", records[0].ID)
	assert.Equal(t, "LTR-002", records[1].ID)
}

func TestDecodeSubmissionsShortRowsAndStatusDefaults(t *testing.T) {
	values := [][]string{
		{"المعرف"},
		{"LTR-001", "2024-03-15"},
	}

	records := DecodeSubmissions(values)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusWaiting, records[0].ReviewStatus)
	assert.Equal(t, model.StatusWaiting, records[0].SendStatus)
	assert.Empty(t, records[0].Writer)
}

func TestDecodeSubmissionsHeaderOnly(t *testing.T) {
	assert.Empty(t, DecodeSubmissions([][]string{{"المعرف"}}))
	assert.Empty(t, DecodeSubmissions(nil))
}

func TestDecodeWhitelist(t *testing.T) {
	values := [][]string{
		{"البريد"},
		{"admin@example.com", "admin", "active", "system", "2024-01-01"},
		{"", "user"},
		{"user@example.com", "user", "inactive", "admin@example.com", "2024-02-01"},
	}

	entries := DecodeWhitelist(values)
	require.Len(t, entries, 2)
	assert.Equal(t, model.WhitelistEntry{
		Email:     "admin@example.com",
		Role:      "admin",
		Status:    "active",
		AddedBy:   "system",
		DateAdded: "2024-01-01",
	}, entries[0])
	assert.Equal(t, "inactive", entries[1].Status)
}

func TestDecodeSettingsDedupesFirstSeen(t *testing.T) {
	values := [][]string{
		{"", "النوع", "الصفة", "", "", "", "الأسلوب"},
		{"", "جديد", "معالي الوزير", "", "", "", "رسمي"},
		{"", "رد", "سعادة المدير", "", "", "", "رسمي"},
		{"", "جديد", "", "", "", "", "ودي"},
	}

	s := DecodeSettings(values)
	assert.Equal(t, []string{"جديد", "رد"}, s.LetterTypes)
	assert.Equal(t, []string{"معالي الوزير", "سعادة المدير"}, s.RecipientTitles)
	assert.Equal(t, []string{"رسمي", "ودي"}, s.Styles)
}
