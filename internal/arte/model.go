// SPDX-License-Identifier: MIT

package arte

import (
	"time"

	"github.com/samber/mo"
)

// Genre is the upstream genre tag of a catalog item.
type Genre struct {
	Label string
	Code  string
}

// Availability is passed through from the catalog item. HasVideoStreams is
// nil when the upstream omitted the flag.
type Availability struct {
	HasVideoStreams *bool
	Type            string
	Start           string
	End             string
	Label           string
}

// Playable reports whether the item may have streams. An absent flag counts as true.
func (a Availability) Playable() bool {
	return a.HasVideoStreams == nil || *a.HasVideoStreams
}

// StartTime parses Start as RFC 3339.
func (a Availability) StartTime() mo.Option[time.Time] {
	return parseTime(a.Start)
}

// VideoSummary is the normalized form of a catalog listing item.
type VideoSummary struct {
	ProgramID       string
	Title           string
	Subtitle        string
	Description     string
	DurationSeconds int
	DurationLabel   string
	Genre           Genre
	ImageSmall      string
	ImageLarge      string
	Availability    Availability
	PageURL         string
}

// CollectionEpisode is one entry of a collection. It has the shape of a VideoSummary.
type CollectionEpisode VideoSummary

// Image is one picture of a program.
type Image struct {
	URL     string
	Caption string
}

// Rights is the availability window of a program. Zero times mean unknown.
type Rights struct {
	Begin time.Time
	End   time.Time
}

// Version is a language version offered by a stream.
type Version struct {
	Code       string
	Label      string
	ShortLabel string
}

// StreamOption is one playable rendition of a program.
type StreamOption struct {
	Protocol string
	URL      string
	Versions []Version
}

// VideoDetail is the normalized player configuration of a program.
type VideoDetail struct {
	ProgramID       string
	Title           string
	Subtitle        string
	Description     string
	DurationSeconds int
	Images          []Image
	Rights          *Rights
	Streams         []StreamOption
	PageURL         string
}

// FirstImage returns the URL of the first image.
func (d VideoDetail) FirstImage() mo.Option[string] {
	for _, img := range d.Images {
		if img.URL != "" {
			return mo.Some(img.URL)
		}
	}
	return mo.None[string]()
}

// LiveChannel describes what is currently on air.
type LiveChannel struct {
	Title             string
	Subtitle          string
	Description       string
	StreamURL         mo.Option[string]
	CurrentProgramURL string
}

func parseTime(s string) mo.Option[time.Time] {
	if s == "" {
		return mo.None[time.Time]()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return mo.None[time.Time]()
	}
	return mo.Some(t)
}
