// SPDX-License-Identifier: MIT

package addon

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"github.com/ManuGH/arteloo/internal/arte"
)

// FilterSearch keeps the videos whose title or subtitle fuzzily contains
// query, ignoring case and diacritics. An empty query keeps everything.
func FilterSearch(videos []arte.VideoSummary, query string) []arte.VideoSummary {
	if query == "" {
		return videos
	}
	return lo.Filter(videos, func(v arte.VideoSummary, _ int) bool {
		return fuzzy.MatchNormalizedFold(query, v.Title) ||
			(v.Subtitle != "" && fuzzy.MatchNormalizedFold(query, v.Subtitle))
	})
}
