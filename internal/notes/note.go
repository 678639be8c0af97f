package notes

import "time"

// DateLayout is the ISO-8601 form stored in Note.Date (UTC, millisecond precision).
const DateLayout = "2006-01-02T15:04:05.000Z"

// displayLayout renders dates like "Tue, Oct 17, 2026".
const displayLayout = "Mon, Jan 02, 2006"

// Note represents a single note.
type Note struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"-"`
	Date        string `json:"date" yaml:"date"`
}

// StampDate formats t the way Note.Date is stored.
func StampDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FormatDate renders a stored date for display in the local time zone.
// Unparseable dates are returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return date
		}
	}
	return t.Local().Format(displayLayout)
}
