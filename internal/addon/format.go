// SPDX-License-Identifier: MIT

package addon

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/arteloo/internal/arte"
)

// maxAvailabilityDays is the horizon within which the remaining availability is shown.
const maxAvailabilityDays = 30

// formatRuntime renders seconds as "1h20min" or "45min".
func formatRuntime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dmin", hours, minutes)
	}
	return fmt.Sprintf("%dmin", minutes)
}

// releaseInfo appends the remaining availability when the rights window
// closes within the next 30 days.
func releaseInfo(runtime string, rights *arte.Rights, now time.Time) string {
	days, ok := rights.DaysUntil(now)
	if !ok || days <= 0 || days > maxAvailabilityDays {
		return runtime
	}
	return fmt.Sprintf("%s | Dispo %dj", runtime, days)
}

// seriesName is the part of a collection title before the episode suffix.
func seriesName(title string) string {
	name, _, _ := strings.Cut(title, " - ")
	return name
}

func joinDescription(subtitle, description string) string {
	if subtitle == "" {
		return description
	}
	return subtitle + "\n\n" + description
}

// isoTimestamp renders t in the UTC millisecond form Stremio clients expect.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func stremioID(programID string) string {
	return IDPrefix + programID
}

// CatalogExtra holds the parsed extra arguments of a catalog request.
type CatalogExtra struct {
	Skip   int
	Search string
}

// ParseExtra parses the "skip=50&search=..." path segment of a catalog
// request. Unknown keys are ignored; an invalid or negative skip is zero.
func ParseExtra(raw string) CatalogExtra {
	var extra CatalogExtra
	values, err := url.ParseQuery(raw)
	if err != nil {
		return extra
	}
	if n, err := strconv.Atoi(values.Get(ExtraSkip)); err == nil && n > 0 {
		extra.Skip = n
	}
	extra.Search = strings.TrimSpace(values.Get(ExtraSearch))
	return extra
}
