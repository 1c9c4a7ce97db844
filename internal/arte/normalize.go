// SPDX-License-Identifier: MIT

package arte

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	imageSizeToken = "__SIZE__"

	ImageSizeSmall = "400x225"
	ImageSizeLarge = "940x530"
)

// textField is one candidate source of a text value.
type textField struct {
	name string
	get  func(item) string
}

// descriptionFields is evaluated in order; the first non-empty value wins and
// the default is the empty string.
var descriptionFields = []textField{
	{name: "shortDescription", get: func(it item) string { return it.ShortDescription }},
	{name: "teaserText", get: func(it item) string { return it.TeaserText }},
	// Long description; present on some items that carry no teaser copy.
	{name: "description", get: func(it item) string { return it.Description }},
}

func firstText(it item, fields []textField) string {
	for _, f := range fields {
		if v := f.get(it); v != "" {
			return v
		}
	}
	return ""
}

// sizedImage substitutes the size placeholder of an image template.
func sizedImage(template, size string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, imageSizeToken, size)
}

func (it item) imageTemplate() string {
	if it.MainImage == nil {
		return ""
	}
	return it.MainImage.URL
}

func (it item) availability() Availability {
	if it.Availability == nil {
		return Availability{}
	}
	a := it.Availability
	return Availability{
		HasVideoStreams: a.HasVideoStreams,
		Type:            a.Type,
		Start:           a.Start,
		End:             a.End,
		Label:           a.Label,
	}
}

// listable reports whether a catalog item belongs in a listing: it needs an
// identifier, an image and must not be flagged as having no streams.
func (it item) listable() bool {
	return it.ProgramID != "" && it.imageTemplate() != "" && it.availability().Playable()
}

func summarize(it item) VideoSummary {
	v := VideoSummary{
		ProgramID:       it.ProgramID,
		Title:           it.Title,
		Subtitle:        it.Subtitle,
		Description:     firstText(it, descriptionFields),
		DurationSeconds: int(it.Duration),
		DurationLabel:   it.DurationLabel,
		ImageSmall:      sizedImage(it.imageTemplate(), ImageSizeSmall),
		ImageLarge:      sizedImage(it.imageTemplate(), ImageSizeLarge),
		Availability:    it.availability(),
		PageURL:         it.URL,
	}
	if it.Genre != nil {
		v.Genre = Genre{Label: it.Genre.Label, Code: it.Genre.ID}
	}
	return v
}

// listableSummaries filters items for a listing and normalizes the survivors.
func listableSummaries(items []item) []VideoSummary {
	return lo.FilterMap(items, func(it item, _ int) (VideoSummary, bool) {
		if !it.listable() {
			return VideoSummary{}, false
		}
		return summarize(it), true
	})
}

func streamOptions(in []configStream) []StreamOption {
	return lo.Map(in, func(s configStream, _ int) StreamOption {
		return StreamOption{
			Protocol: s.Protocol,
			URL:      s.URL,
			Versions: lo.Map(s.Versions, func(v configVersion, _ int) Version {
				return Version{Code: v.Code, Label: v.Label, ShortLabel: v.ShortLabel}
			}),
		}
	})
}

func detailFromConfig(programID string, attrs *configAttributes) VideoDetail {
	md := attrs.Metadata
	d := VideoDetail{
		ProgramID:   programID,
		Title:       md.Title,
		Subtitle:    md.Subtitle,
		Description: md.Description,
		Images: lo.Map(md.Images, func(img image, _ int) Image {
			return Image{URL: img.URL, Caption: img.Caption}
		}),
		Streams: streamOptions(attrs.Streams),
	}
	if md.Duration != nil {
		d.DurationSeconds = int(md.Duration.Seconds)
	}
	if md.Link != nil {
		d.PageURL = md.Link.URL
	}
	if attrs.Rights != nil {
		d.Rights = &Rights{
			Begin: parseTime(attrs.Rights.Begin).OrEmpty(),
			End:   parseTime(attrs.Rights.End).OrEmpty(),
		}
	}
	return d
}

// DaysUntil returns the whole days left before the rights window closes,
// rounded up. ok is false when the end is unknown.
func (r *Rights) DaysUntil(now time.Time) (days int, ok bool) {
	if r == nil || r.End.IsZero() {
		return 0, false
	}
	left := r.End.Sub(now)
	days = int(left / (24 * time.Hour))
	if left%(24*time.Hour) > 0 {
		days++
	}
	return days, true
}
