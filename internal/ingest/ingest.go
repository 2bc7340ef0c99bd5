package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pulsenews/internal/feed"
	"pulsenews/internal/models"
	"pulsenews/internal/normalize"
	"pulsenews/internal/storage"
)

// StoreWriteError marks a failed batch insert. The write is the only fatal
// store interaction on the ingest side; handlers map it to a 500 response
// carrying the underlying detail.
type StoreWriteError struct {
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to insert news rows: %v", e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// Fetcher is the upstream feed dependency, satisfied by *feed.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context) ([]feed.Entry, error)
}

// Pipeline implements the fetch-normalize-dedup-insert flow.
type Pipeline struct {
	fetcher  Fetcher
	store    storage.Store
	pageSize int
}

func New(fetcher Fetcher, store storage.Store, pageSize int) *Pipeline {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Pipeline{
		fetcher:  fetcher,
		store:    store,
		pageSize: pageSize,
	}
}

// Run executes one ingest pass. Feed fetch failures and store write
// failures are returned as errors; a failure to load existing rows only
// degrades deduplication and is logged, not surfaced.
func (p *Pipeline) Run(ctx context.Context) (*models.IngestResult, error) {
	entries, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.IngestResult{}

	items := p.normalizeEntries(entries, &result.Skipped)
	result.FetchedCount = len(items)

	if len(items) == 0 {
		result.Message = "No items parsed from feed"
		return result, nil
	}

	existingLinks, existingTitleDates := p.loadExistingKeys()
	log.Printf("Deduplication sets: %d unique links, %d unique title+date combinations",
		len(existingLinks), len(existingTitleDates))

	var toInsert []models.NewsItem
	for _, item := range items {
		switch {
		case item.NormLink != "":
			if _, seen := existingLinks[item.NormLink]; seen {
				result.Skipped.DuplicateLink++
				continue
			}
			// Mark immediately so repeats within this batch collapse
			existingLinks[item.NormLink] = struct{}{}
			toInsert = append(toInsert, models.NewsItem{
				Title:       item.Title,
				Link:        item.Link,
				Description: item.Description,
				Date:        item.Date,
			})
		case item.TitleDateKey != "":
			if _, seen := existingTitleDates[item.TitleDateKey]; seen {
				result.Skipped.DuplicateTitleDate++
				continue
			}
			existingTitleDates[item.TitleDateKey] = struct{}{}
			toInsert = append(toInsert, models.NewsItem{
				Title:       item.Title,
				Link:        item.Link,
				Description: item.Description,
				Date:        item.Date,
			})
		default:
			// No link and no usable title+date key: not counted anywhere
		}
	}

	log.Printf("Deduplication results: %d to insert, skipped %+v", len(toInsert), result.Skipped)

	if len(toInsert) == 0 {
		result.Message = "No new items to insert"
		return result, nil
	}

	inserted, err := p.store.InsertBatch(toInsert)
	if err != nil {
		return nil, &StoreWriteError{Err: err}
	}

	result.Message = "Fetched feed and stored new items"
	result.InsertedCount = len(inserted)
	result.Inserted = inserted
	return result, nil
}

// normalizeEntries trims entries, drops the ones with neither title nor
// link, and attaches dedup keys to the survivors.
func (p *Pipeline) normalizeEntries(entries []feed.Entry, skipped *models.SkippedCounts) []models.NormalizedItem {
	items := make([]models.NormalizedItem, 0, len(entries))

	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)

		if title == "" && link == "" {
			skipped.NoLinkNoTitle++
			continue
		}

		date := strings.TrimSpace(entry.Date)
		titleDateKey := ""
		if date != "" {
			titleDateKey = normalize.TitleDateKey(title, date)
		}

		items = append(items, models.NormalizedItem{
			Title:        title,
			Link:         link,
			Description:  strings.TrimSpace(entry.Description),
			Date:         date,
			NormLink:     normalize.NormalizeLink(link),
			TitleDateKey: titleDateKey,
		})
	}

	return items
}

// loadExistingKeys walks the whole news table page by page and builds the
// two dedup sets. Any failure degrades to empty sets: a duplicate insert is
// preferred over a failed ingest run.
func (p *Pipeline) loadExistingKeys() (map[string]struct{}, map[string]struct{}) {
	links := make(map[string]struct{})
	titleDates := make(map[string]struct{})

	offset := 0
	for {
		page, err := p.store.SelectPage(offset, p.pageSize)
		if err != nil {
			log.Printf("Warning: failed to load existing rows, continuing with empty dedup sets: %v", err)
			return make(map[string]struct{}), make(map[string]struct{})
		}
		if len(page) == 0 {
			break
		}

		for _, row := range page {
			if normLink := normalize.NormalizeLink(row.Link); normLink != "" {
				links[normLink] = struct{}{}
			}
			if normTitle := normalize.NormalizeTitle(row.Title); normTitle != "" || row.Date != "" {
				titleDates[normalize.TitleDateKey(row.Title, row.Date)] = struct{}{}
			}
		}

		if len(page) < p.pageSize {
			break
		}
		offset += p.pageSize
	}

	return links, titleDates
}

