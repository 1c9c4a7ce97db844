// SPDX-License-Identifier: MIT

package addon

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/arteloo/internal/arte"
)

type fakeCatalog struct {
	home       []arte.VideoSummary
	categories map[string][]arte.VideoSummary
	details    map[string]arte.VideoDetail
	episodes   map[string][]arte.CollectionEpisode
	streams    map[string]string
	live       mo.Option[arte.LiveChannel]

	detailCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: map[string][]arte.VideoSummary{},
		details:    map[string]arte.VideoDetail{},
		episodes:   map[string][]arte.CollectionEpisode{},
		streams:    map[string]string{},
		live:       mo.None[arte.LiveChannel](),
	}
}

func (f *fakeCatalog) Homepage(context.Context) []arte.VideoSummary { return f.home }

func (f *fakeCatalog) Category(_ context.Context, code string) []arte.VideoSummary {
	return f.categories[code]
}

func (f *fakeCatalog) ProgramDetail(_ context.Context, id string) mo.Option[arte.VideoDetail] {
	f.detailCalls++
	if d, ok := f.details[id]; ok {
		return mo.Some(d)
	}
	return mo.None[arte.VideoDetail]()
}

func (f *fakeCatalog) CollectionEpisodes(_ context.Context, id string) []arte.CollectionEpisode {
	return f.episodes[id]
}

func (f *fakeCatalog) StreamURL(_ context.Context, id string) mo.Option[string] {
	if u, ok := f.streams[id]; ok {
		return mo.Some(u)
	}
	return mo.None[string]()
}

func (f *fakeCatalog) LiveChannel(context.Context) mo.Option[arte.LiveChannel] { return f.live }

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(f *fakeCatalog) *Service {
	return NewService(f, WithClock(func() time.Time { return testNow }), WithLogger(zerolog.Nop()))
}

func summaries(n int) []arte.VideoSummary {
	return lo.Times(n, func(i int) arte.VideoSummary {
		return arte.VideoSummary{ProgramID: fmt.Sprintf("%06d-000-A", i), Title: fmt.Sprintf("Video %d", i)}
	})
}

func TestManifest(t *testing.T) {
	m := newTestService(newFakeCatalog()).Manifest()

	assert.Equal(t, "community.stremio.arte", m.ID)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, []string{"catalog", "meta", "stream"}, m.Resources)
	assert.Equal(t, []string{"movie", "series", "tv"}, m.Types)
	assert.Equal(t, []string{"arte:"}, m.IDPrefixes)
	assert.Equal(t, []string{CatalogHome, CatalogCinema, CatalogDocs, CatalogSeries, CatalogLive},
		lo.Map(m.Catalogs, func(c CatalogDef, _ int) string { return c.ID }))
	assert.Equal(t, TypeSeries, m.Catalogs[3].Type)
	assert.Empty(t, m.Catalogs[4].Extra)
}

func TestCatalog_Preview(t *testing.T) {
	f := newFakeCatalog()
	f.categories["CIN"] = []arte.VideoSummary{{
		ProgramID:     "120387-000-A",
		Title:         "Le Mépris",
		Description:   "Capri, 1963.",
		DurationLabel: "103 min",
		Genre:         arte.Genre{Label: "Cinéma"},
		ImageSmall:    "https://img/400x225",
		ImageLarge:    "https://img/940x530",
	}, {
		ProgramID:  "120388-000-A",
		Title:      "Sans genre",
		ImageSmall: "https://img/small-only",
	}}

	got := newTestService(f).Catalog(context.Background(), TypeMovie, CatalogCinema, CatalogExtra{})

	want := []Meta{
		{
			ID:          "arte:120387-000-A",
			Type:        TypeMovie,
			Name:        "Le Mépris",
			Poster:      "https://img/940x530",
			PosterShape: "regular",
			Description: "Capri, 1963.",
			ReleaseInfo: "103 min",
			Genres:      []string{"Cinéma"},
		},
		{
			ID:          "arte:120388-000-A",
			Type:        TypeMovie,
			Name:        "Sans genre",
			Poster:      "https://img/small-only",
			PosterShape: "regular",
			Genres:      []string{},
		},
	}
	if diff := cmp.Diff(want, got.Metas); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_Pagination(t *testing.T) {
	f := newFakeCatalog()
	f.home = summaries(120)
	s := newTestService(f)
	ctx := context.Background()

	first := s.Catalog(ctx, TypeMovie, CatalogHome, CatalogExtra{})
	require.Len(t, first.Metas, PageSize)
	assert.Equal(t, "arte:000000-000-A", first.Metas[0].ID)

	last := s.Catalog(ctx, TypeMovie, CatalogHome, CatalogExtra{Skip: 100})
	require.Len(t, last.Metas, 20)
	assert.Equal(t, "arte:000100-000-A", last.Metas[0].ID)

	past := s.Catalog(ctx, TypeMovie, CatalogHome, CatalogExtra{Skip: 500})
	assert.NotNil(t, past.Metas)
	assert.Empty(t, past.Metas)
}

func TestCatalog_Search(t *testing.T) {
	f := newFakeCatalog()
	f.categories["DOR"] = []arte.VideoSummary{
		{ProgramID: "1", Title: "L'Écologie des océans"},
		{ProgramID: "2", Title: "Berlin 1989", Subtitle: "La chute du mur"},
		{ProgramID: "3", Title: "Cuisine française"},
	}
	s := newTestService(f)
	ctx := context.Background()

	got := s.Catalog(ctx, TypeMovie, CatalogDocs, CatalogExtra{Search: "ecologie"})
	assert.Equal(t, []string{"arte:1"}, lo.Map(got.Metas, func(m Meta, _ int) string { return m.ID }))

	got = s.Catalog(ctx, TypeMovie, CatalogDocs, CatalogExtra{Search: "MUR"})
	assert.Equal(t, []string{"arte:2"}, lo.Map(got.Metas, func(m Meta, _ int) string { return m.ID }))
}

func TestCatalog_UnknownID(t *testing.T) {
	got := newTestService(newFakeCatalog()).Catalog(context.Background(), TypeMovie, "arte-nope", CatalogExtra{})
	assert.NotNil(t, got.Metas)
	assert.Empty(t, got.Metas)
}

func TestCatalog_Live(t *testing.T) {
	f := newFakeCatalog()
	s := newTestService(f)
	ctx := context.Background()

	assert.Empty(t, s.Catalog(ctx, TypeTV, CatalogLive, CatalogExtra{}).Metas)

	f.live = mo.Some(arte.LiveChannel{Title: "ARTE Journal", StreamURL: mo.None[string]()})
	assert.Empty(t, s.Catalog(ctx, TypeTV, CatalogLive, CatalogExtra{}).Metas, "no stream, no entry")

	f.live = mo.Some(arte.LiveChannel{Title: "ARTE Journal", Subtitle: "Soir", StreamURL: mo.Some("https://live/fr.m3u8")})
	got := s.Catalog(ctx, TypeTV, CatalogLive, CatalogExtra{}).Metas
	require.Len(t, got, 1)
	assert.Equal(t, "arte:LIVE", got[0].ID)
	assert.Equal(t, TypeTV, got[0].Type)
	assert.Equal(t, "ARTE Journal - Soir", got[0].Description)
	assert.Equal(t, "square", got[0].PosterShape)
}

func TestMeta_Program(t *testing.T) {
	f := newFakeCatalog()
	f.details["120387-000-A"] = arte.VideoDetail{
		ProgramID:       "120387-000-A",
		Title:           "Le Mépris",
		Subtitle:        "Jean-Luc Godard",
		Description:     "Capri, 1963.",
		DurationSeconds: 4800,
		Images:          []arte.Image{{URL: "https://img/mepris.jpg"}},
		Rights:          &arte.Rights{End: testNow.Add(5*24*time.Hour - time.Hour)},
	}

	got := newTestService(f).Meta(context.Background(), TypeMovie, "arte:120387-000-A")
	require.NotNil(t, got.Meta)

	want := &Meta{
		ID:          "arte:120387-000-A",
		Type:        TypeMovie,
		Name:        "Le Mépris",
		Poster:      "https://img/mepris.jpg",
		PosterShape: "regular",
		Background:  "https://img/mepris.jpg",
		Description: "Jean-Luc Godard\n\nCapri, 1963.",
		Runtime:     "1h20min",
		ReleaseInfo: "1h20min | Dispo 5j",
		Genres:      []string{"Arte", "Culture"},
	}
	if diff := cmp.Diff(want, got.Meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestMeta_ProgramAbsent(t *testing.T) {
	got := newTestService(newFakeCatalog()).Meta(context.Background(), TypeMovie, "arte:missing")
	assert.Nil(t, got.Meta)
}

func TestMeta_Series(t *testing.T) {
	f := newFakeCatalog()
	f.details["RC-014095"] = arte.VideoDetail{
		Title:       "Twin Peaks - Saison 1",
		Description: "Qui a tué Laura Palmer ?",
	}
	f.episodes["RC-014095"] = []arte.CollectionEpisode{
		{ProgramID: "ep-1", Title: "Twin Peaks", Subtitle: "Épisode 1", ImageSmall: "https://img/ep1", Description: "Pilote",
			Availability: arte.Availability{Start: "2025-03-01T05:00:00Z"}},
		{ProgramID: "ep-2", Title: "Twin Peaks (2)"},
	}

	got := newTestService(f).Meta(context.Background(), TypeSeries, "arte:RC-014095")
	require.NotNil(t, got.Meta)

	m := got.Meta
	assert.Equal(t, "Twin Peaks", m.Name)
	assert.Equal(t, "https://img/ep1", m.Poster, "falls back to the first episode image")
	assert.Equal(t, "Qui a tué Laura Palmer ?", m.Description)

	want := []Video{
		{ID: "arte:ep-1", Title: "Épisode 1", Season: 1, Episode: 1, Thumbnail: "https://img/ep1", Overview: "Pilote", Released: "2025-03-01T05:00:00.000Z"},
		{ID: "arte:ep-2", Title: "Twin Peaks (2)", Season: 1, Episode: 2},
	}
	if diff := cmp.Diff(want, m.Videos); diff != "" {
		t.Errorf("videos mismatch (-want +got):\n%s", diff)
	}
}

func TestMeta_SeriesWithoutDetailOrEpisodes(t *testing.T) {
	got := newTestService(newFakeCatalog()).Meta(context.Background(), TypeSeries, "arte:RC-000001")
	assert.Nil(t, got.Meta)
}

func TestMeta_SeriesFallbackName(t *testing.T) {
	f := newFakeCatalog()
	f.episodes["RC-2"] = []arte.CollectionEpisode{{ProgramID: "ep", Title: "Karambolage - Le mot"}}

	got := newTestService(f).Meta(context.Background(), TypeSeries, "arte:RC-2")
	require.NotNil(t, got.Meta)
	assert.Equal(t, "Karambolage", got.Meta.Name)
}

func TestMeta_CollectionAsMovieUsesProgramDetail(t *testing.T) {
	f := newFakeCatalog()
	f.details["RC-3"] = arte.VideoDetail{Title: "Collection", DurationSeconds: 600}

	got := newTestService(f).Meta(context.Background(), TypeMovie, "arte:RC-3")
	require.NotNil(t, got.Meta)
	assert.Empty(t, got.Meta.Videos)
	assert.Equal(t, "10min", got.Meta.Runtime)
}

func TestMeta_Live(t *testing.T) {
	f := newFakeCatalog()
	s := newTestService(f)

	assert.Nil(t, s.Meta(context.Background(), TypeTV, "arte:LIVE").Meta)

	f.live = mo.Some(arte.LiveChannel{Title: "ARTE Journal"})
	got := s.Meta(context.Background(), TypeTV, "arte:LIVE").Meta
	require.NotNil(t, got)
	assert.Equal(t, "En direct", got.Runtime)
	assert.Equal(t, "Arte en direct - La chaîne culturelle européenne", got.Description)
}

func TestStream_Program(t *testing.T) {
	f := newFakeCatalog()
	f.streams["120387-000-A"] = "https://hls/vf.m3u8"
	f.details["120387-000-A"] = arte.VideoDetail{Title: "Le Mépris"}

	got := newTestService(f).Stream(context.Background(), TypeMovie, "arte:120387-000-A")

	want := []Stream{{
		Name:  "Arte.tv",
		Title: "Le Mépris\n🇫🇷 Français - HD",
		URL:   "https://hls/vf.m3u8",
	}}
	if diff := cmp.Diff(want, got.Streams); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}
}

func TestStream_ProgramWithoutDetail(t *testing.T) {
	f := newFakeCatalog()
	f.streams["p"] = "https://hls/p.m3u8"

	got := newTestService(f).Stream(context.Background(), TypeMovie, "arte:p")
	require.Len(t, got.Streams, 1)
	assert.Equal(t, "Arte\n🇫🇷 Français - HD", got.Streams[0].Title)
}

func TestStream_Missing(t *testing.T) {
	f := newFakeCatalog()
	got := newTestService(f).Stream(context.Background(), TypeMovie, "arte:none")
	assert.NotNil(t, got.Streams)
	assert.Empty(t, got.Streams)
	assert.Zero(t, f.detailCalls, "detail is only fetched once a stream is known")
}

func TestStream_Live(t *testing.T) {
	f := newFakeCatalog()
	f.live = mo.Some(arte.LiveChannel{Title: "x", StreamURL: mo.Some("https://live/fr.m3u8")})

	got := newTestService(f).Stream(context.Background(), TypeTV, "arte:LIVE")
	require.Len(t, got.Streams, 1)
	assert.Equal(t, "https://live/fr.m3u8", got.Streams[0].URL)
	assert.Equal(t, "Arte Direct\n🇫🇷 Français - HD", got.Streams[0].Title)
}
