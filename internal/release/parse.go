package release

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var releaseIDPattern = regexp.MustCompile(`release/(\d+)`)

// ParseID extracts the numeric release ID from a Discogs release URL,
// e.g. "https://www.discogs.com/release/123456-Artist-Title" -> 123456.
func ParseID(url string) (int, error) {
	m := releaseIDPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, fmt.Errorf("no release ID in %q", url)
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parsing release ID from %q: %w", url, err)
	}
	return id, nil
}

// ParseYear converts a spreadsheet year cell to an int, returning 0 for
// anything that is not a plain integer (empty cells, "?", "n/a", ...).
func ParseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return year
}

// URL returns the canonical Discogs page for a release ID.
func URL(id int) string {
	return fmt.Sprintf("https://www.discogs.com/release/%d", id)
}
