package reader

import (
	"fmt"
	"log"
	"time"

	"pulsenews/internal/dates"
	"pulsenews/internal/models"
	"pulsenews/internal/storage"
)

// Pipeline implements the fetch-parse-bucket-filter-paginate flow: it loads
// the most recent rows, buckets each by its local calendar day and serves
// today's items, falling back to yesterday's when today is still empty.
type Pipeline struct {
	store     storage.Store
	chain     *dates.Chain
	location  *time.Location
	fetchRows int

	// now is swappable for tests
	now func() time.Time
}

func New(store storage.Store, location *time.Location, fetchRows int) *Pipeline {
	if fetchRows <= 0 {
		fetchRows = 1000
	}
	return &Pipeline{
		store:     store,
		chain:     dates.NewChain(),
		location:  location,
		fetchRows: fetchRows,
		now:       time.Now,
	}
}

// Run selects the rows for today's (or yesterday's) local calendar day and
// applies offset then limit. A limit of zero means unlimited. Store read
// failures are fatal.
func (p *Pipeline) Run(limit, offset int) (*models.NewsResponse, error) {
	rows, err := p.store.SelectRecent(p.fetchRows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news from store: %v", err)
	}

	now := p.now().In(p.location)
	todayStr := now.Format(dates.DayFormat)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.location)
	yesterdayStr := midnight.AddDate(0, 0, -1).Format(dates.DayFormat)

	// Bucket each row by its local calendar day; rows whose date cannot be
	// parsed stay unbucketed and never match a day filter.
	days := make([]string, len(rows))
	for i, row := range rows {
		instant, err := p.chain.Parse(row.Date)
		if err != nil {
			log.Printf("Skipping row %d from day filter, unparseable date %q", row.ID, row.Date)
			continue
		}
		days[i] = dates.DayString(instant, p.location)
	}

	selected := filterByDay(rows, days, todayStr)
	usedDay := "today"
	dayDate := todayStr
	if len(selected) == 0 {
		selected = filterByDay(rows, days, yesterdayStr)
		usedDay = "yesterday"
		dayDate = yesterdayStr
	}

	selected = paginate(selected, limit, offset)

	return &models.NewsResponse{
		RequestedDay: usedDay,
		DayDate:      dayDate,
		Count:        len(selected),
		News:         selected,
	}, nil
}

// filterByDay keeps rows whose bucket equals day, preserving order.
func filterByDay(rows []models.NewsItem, days []string, day string) []models.NewsItem {
	selected := make([]models.NewsItem, 0)
	for i, row := range rows {
		if days[i] == day {
			selected = append(selected, row)
		}
	}
	return selected
}

// paginate applies offset before limit; zero values disable each.
func paginate(rows []models.NewsItem, limit, offset int) []models.NewsItem {
	if offset > 0 {
		if offset >= len(rows) {
			return []models.NewsItem{}
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
