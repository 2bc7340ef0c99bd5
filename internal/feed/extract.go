package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// descriptionSource is one strategy for pulling a description out of a feed
// item. Sources are tried in order; the first non-empty value wins.
type descriptionSource func(*gofeed.Item) string

// Ordered to match how feeds commonly carry body text: the RSS
// description / Atom summary (gofeed merges both into Item.Description),
// then Atom content, then content carried in item extensions, then a
// subtitle if the feed supplies one.
var descriptionSources = []descriptionSource{
	fromDescription,
	fromContent,
	fromExtensionContent,
	fromSubtitle,
}

func extractDescription(item *gofeed.Item) string {
	for _, source := range descriptionSources {
		if value := strings.TrimSpace(source(item)); value != "" {
			return value
		}
	}
	return ""
}

func fromDescription(item *gofeed.Item) string {
	return item.Description
}

func fromContent(item *gofeed.Item) string {
	return item.Content
}

// fromExtensionContent looks for a content element stashed in namespace
// extensions, taking the first value present.
func fromExtensionContent(item *gofeed.Item) string {
	for _, namespace := range item.Extensions {
		if elements, ok := namespace["content"]; ok {
			for _, element := range elements {
				if element.Value != "" {
					return element.Value
				}
			}
		}
	}
	return ""
}

func fromSubtitle(item *gofeed.Item) string {
	return item.Custom["subtitle"]
}

// extractDate prefers the published date and falls back to updated, keeping
// the raw string so the stored row preserves the feed's own format.
func extractDate(item *gofeed.Item) string {
	if item.Published != "" {
		return item.Published
	}
	return item.Updated
}
