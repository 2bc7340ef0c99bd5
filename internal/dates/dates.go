package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DayFormat is the calendar-day bucket format used for filtering.
const DayFormat = "2006-01-02"

// Parser attempts to turn a stored date string into an absolute instant.
// Implementations return an error for input they do not understand so the
// chain can move on to the next strategy.
type Parser interface {
	Name() string
	Parse(value string) (time.Time, error)
}

// Chain tries a list of parsers left to right; the first success wins.
type Chain struct {
	parsers []Parser
}

// NewChain returns the default parsing chain: RFC-2822 feed publication
// dates, then ISO-8601, then a general-purpose flexible parser.
func NewChain() *Chain {
	return &Chain{
		parsers: []Parser{
			&feedDateParser{},
			&isoDateParser{},
			&flexibleDateParser{},
		},
	}
}

// NewChainWith builds a chain from explicit parsers, mostly for tests and
// future extension.
func NewChainWith(parsers ...Parser) *Chain {
	return &Chain{parsers: parsers}
}

// Parse runs the chain. Naive results are treated as UTC by the individual
// parsers, so the returned instant is always absolute.
func (c *Chain) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, p := range c.parsers {
		if t, err := p.Parse(value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("no parser accepted date string %q", value)
}

// DayString returns the calendar date of an instant in the given timezone.
func DayString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

// feedDateParser handles RFC-2822 style publication dates as they appear in
// RSS pubDate elements, with and without weekday or numeric zone.
type feedDateParser struct{}

var feedDateFormats = []string{
	time.RFC1123Z, // Mon, 02 Jan 2006 15:04:05 -0700
	time.RFC1123,  // Mon, 02 Jan 2006 15:04:05 GMT
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"02 Jan 2006 15:04:05 -0700",
	"02 Jan 2006 15:04:05 MST",
	time.RFC822Z, // 02 Jan 06 15:04 -0700
	time.RFC822,  // 02 Jan 06 15:04 MST
}

func (p *feedDateParser) Name() string { return "rfc2822" }

func (p *feedDateParser) Parse(value string) (time.Time, error) {
	for _, format := range feedDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an RFC-2822 date: %q", value)
}

// isoDateParser handles ISO-8601 timestamps. A trailing Z is an explicit
// zero offset; forms without any zone information are interpreted as UTC.
type isoDateParser struct{}

var isoDateFormats = []string{
	time.RFC3339, // 2006-01-02T15:04:05Z07:00
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (p *isoDateParser) Name() string { return "iso8601" }

func (p *isoDateParser) Parse(value string) (time.Time, error) {
	for _, format := range isoDateFormats {
		// time.Parse interprets zone-less formats in UTC
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 date: %q", value)
}

// flexibleDateParser is the last resort: a general-purpose parser that
// recognizes a wide range of formats. Naive values are anchored to UTC.
type flexibleDateParser struct{}

func (p *flexibleDateParser) Name() string { return "flexible" }

func (p *flexibleDateParser) Parse(value string) (time.Time, error) {
	return dateparse.ParseIn(value, time.UTC)
}
