package sheetclient

import "maktub/internal/model"

// Sheet names served by the store.
const (
	SheetSubmissions = "Submissions"
	SheetWhitelist   = "Whitelist"
	SheetSettings    = "Settings"
)

// Submissions columns (A through O). Rows travel positionally, so these
// indices are the schema; an upstream column reorder is a change here and
// nowhere else.
const (
	subColID           = 0
	subColDate         = 1
	subColType         = 3
	subColRecipient    = 4
	subColSubject      = 5
	subColContent      = 6
	subColLetterLink   = 8
	subColReviewStatus = 9
	subColSendStatus   = 10
	subColReviewerName = 12
	subColReviewNotes  = 13
	subColWriter       = 14
)

// Whitelist columns (A through E).
const (
	wlColEmail     = 0
	wlColRole      = 1
	wlColStatus    = 2
	wlColAddedBy   = 3
	wlColDateAdded = 4
)

// Settings columns: letter types in B, recipient titles in C, styles in G.
const (
	setColLetterType     = 1
	setColRecipientTitle = 2
	setColStyle          = 6
)

// cell reads a column defensively: short rows read as empty strings.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// DecodeSubmissions turns raw sheet values into letter records. The first
// row is the header and any row with an empty id is skipped. Missing review
// and send statuses default to waiting.
func DecodeSubmissions(values [][]string) []model.LetterRecord {
	if len(values) < 2 {
		return []model.LetterRecord{}
	}

	records := make([]model.LetterRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		id := cell(row, subColID)
		if id == "" {
			continue
		}

		record := model.LetterRecord{
			ID:           id,
			Date:         cell(row, subColDate),
			Type:         cell(row, subColType),
			Recipient:    cell(row, subColRecipient),
			Subject:      cell(row, subColSubject),
			Content:      cell(row, subColContent),
			LetterLink:   cell(row, subColLetterLink),
			ReviewStatus: cell(row, subColReviewStatus),
			SendStatus:   cell(row, subColSendStatus),
			ReviewerName: cell(row, subColReviewerName),
			ReviewNotes:  cell(row, subColReviewNotes),
			Writer:       cell(row, subColWriter),
		}
		if record.ReviewStatus == "" {
			record.ReviewStatus = model.StatusWaiting
		}
		if record.SendStatus == "" {
			record.SendStatus = model.StatusWaiting
		}

		records = append(records, record)
	}
	return records
}

// DecodeWhitelist turns raw sheet values into whitelist entries, skipping
// the header row and rows without an email.
func DecodeWhitelist(values [][]string) []model.WhitelistEntry {
	if len(values) < 2 {
		return []model.WhitelistEntry{}
	}

	entries := make([]model.WhitelistEntry, 0, len(values)-1)
	for _, row := range values[1:] {
		email := cell(row, wlColEmail)
		if email == "" {
			continue
		}
		entries = append(entries, model.WhitelistEntry{
			Email:     email,
			Role:      cell(row, wlColRole),
			Status:    cell(row, wlColStatus),
			AddedBy:   cell(row, wlColAddedBy),
			DateAdded: cell(row, wlColDateAdded),
		})
	}
	return entries
}

// DecodeSettings collects the dropdown vocabularies, deduplicated in first-
// seen order.
func DecodeSettings(values [][]string) model.Settings {
	settings := model.Settings{
		LetterTypes:     []string{},
		RecipientTitles: []string{},
		Styles:          []string{},
	}
	if len(values) < 2 {
		return settings
	}

	for _, row := range values[1:] {
		settings.LetterTypes = appendUnique(settings.LetterTypes, cell(row, setColLetterType))
		settings.RecipientTitles = appendUnique(settings.RecipientTitles, cell(row, setColRecipientTitle))
		settings.Styles = appendUnique(settings.Styles, cell(row, setColStyle))
	}
	return settings
}

func appendUnique(values []string, v string) []string {
	if v == "" {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
