package storage

import (
	"pulsenews/internal/models"
)

// Store defines the persistence operations both pipelines consume. Rows are
// append-only: nothing in this service mutates or deletes them.
type Store interface {
	// SelectPage returns a window of rows ordered by id ascending, used by
	// the ingest pipeline to walk the whole table page by page.
	SelectPage(offset, limit int) ([]models.NewsItem, error)

	// SelectRecent returns up to limit rows ordered by id descending.
	SelectRecent(limit int) ([]models.NewsItem, error)

	// InsertBatch writes all items in one transaction and returns them with
	// their assigned ids, in insert order.
	InsertBatch(items []models.NewsItem) ([]models.NewsItem, error)

	// Count returns the total number of stored rows.
	Count() (int, error)

	Close() error
}
