package normalize

import (
	"net/url"
	"strings"
)

// tracker keys stripped from query strings, matched case-insensitively
var trackerKeys = map[string]bool{
	"fbclid": true,
	"gclid":  true,
}

// NormalizeLink converts a raw URL into its canonical comparison form:
// hostname + path + filtered query, lowercased, with no scheme so the http
// and https variants of the same resource collide. Tracking parameters
// (utm_*, fbclid, gclid) are removed, every other query parameter is kept,
// including blank-valued and repeated ones. Trailing slashes are stripped
// unless the whole result is a single "/".
//
// NormalizeLink never fails: unparseable input degrades to a trimmed,
// slash-stripped, lowercased copy of itself.
func NormalizeLink(raw string) string {
	if raw == "" {
		return ""
	}

	urlStr := strings.TrimSpace(raw)
	if urlStr == "" {
		return ""
	}

	// Protocol-relative links like //example.com/path
	if strings.HasPrefix(urlStr, "//") {
		urlStr = "https:" + urlStr
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		// Fallback: strip trailing slashes and lowercase, never fail
		return strings.ToLower(strings.TrimRight(urlStr, "/"))
	}

	norm := parsed.Hostname() + parsed.Path

	// Keep a lone "/" as-is, otherwise remove all trailing slashes
	if strings.HasSuffix(norm, "/") && len(norm) > 1 {
		norm = strings.TrimRight(norm, "/")
	}

	if query := filterQuery(parsed.RawQuery); query != "" {
		norm += "?" + query
	}

	return strings.ToLower(norm)
}

// filterQuery removes tracking parameters from a raw query string while
// preserving the order and encoding of everything else.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	pairs := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(pairs))

	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key := pair
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
		}
		key = strings.ToLower(key)
		if strings.HasPrefix(key, "utm_") || trackerKeys[key] {
			continue
		}
		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}

// NormalizeTitle collapses whitespace runs to single spaces, trims and
// lowercases a title. Used as the fallback dedup key when an entry has
// no link.
func NormalizeTitle(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// TitleDateKey builds the composite fallback identity from a title and the
// raw date string the feed supplied. Callers decide when the key applies
// (ingest only uses it for entries without a usable link).
func TitleDateKey(title, date string) string {
	return NormalizeTitle(title) + "||" + strings.TrimSpace(date)
}
