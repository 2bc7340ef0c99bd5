package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// UpstreamError reports an unreachable feed or a non-success HTTP status.
// Handlers map it to a 502-style response.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch feed %s (%d)", e.URL, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Entry is one feed item reduced to the fields the ingest pipeline cares
// about. Date keeps the raw publication string exactly as the feed sent it.
type Entry struct {
	Title       string
	Link        string
	Description string
	Date        string
}

// Fetcher retrieves and parses the upstream RSS feed.
type Fetcher struct {
	url    string
	client *http.Client
	parser *gofeed.Parser
}

func NewFetcher(feedURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		url: feedURL,
		client: &http.Client{
			Timeout: timeout,
		},
		parser: gofeed.NewParser(),
	}
}

// Fetch downloads and parses the feed. Transport failures and non-2xx
// statuses come back as *UpstreamError; a feed that parses to zero entries
// is not an error and yields an empty slice.
func (f *Fetcher) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %v", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{URL: f.url, StatusCode: resp.StatusCode}
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %v", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, Entry{
			Title:       item.Title,
			Link:        item.Link,
			Description: extractDescription(item),
			Date:        extractDate(item),
		})
	}

	return entries, nil
}
