package models

// NewsItem represents a single stored news row. The Date field preserves
// whatever string the source feed supplied (RFC-2822, ISO-8601 or other);
// parsing happens on the read side.
type NewsItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// NormalizedItem is a feed entry plus its deduplication keys. It only lives
// for the duration of a single ingest run.
type NormalizedItem struct {
	Title       string
	Link        string
	Description string
	Date        string

	// NormLink is the canonical link key (lowercase, tracking params
	// stripped, trailing slash trimmed). Empty when the entry has no link.
	NormLink string

	// TitleDateKey is the fallback identity (normalized title + raw date),
	// only consulted when NormLink is empty.
	TitleDateKey string
}

// SkippedCounts breaks down why ingest skipped entries.
//
// The accounting is intentionally asymmetric: DuplicateTitleDate only counts
// entries that had no link; entries skipped because their link was already
// known are counted solely under DuplicateLink, and entries with neither
// link nor title land in NoLinkNoTitle and nowhere else.
type SkippedCounts struct {
	DuplicateLink      int `json:"duplicateLink"`
	DuplicateTitleDate int `json:"duplicateTitleDate"`
	NoLinkNoTitle      int `json:"noLinkNoTitle"`
}

// IngestResult is the outcome of one ingest run.
type IngestResult struct {
	Message       string        `json:"message"`
	FetchedCount  int           `json:"fetchedCount"`
	InsertedCount int           `json:"insertedCount"`
	Inserted      []NewsItem    `json:"inserted,omitempty"`
	Skipped       SkippedCounts `json:"skipped"`
}

// NewsResponse is the read pipeline's answer: the selected day's items.
type NewsResponse struct {
	RequestedDay string     `json:"requested_day"` // "today" or "yesterday"
	DayDate      string     `json:"day_date"`      // YYYY-MM-DD in the target timezone
	Count        int        `json:"count"`
	News         []NewsItem `json:"news"`
}
