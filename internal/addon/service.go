// SPDX-License-Identifier: MIT

// Package addon turns catalog records into Stremio addon payloads.
package addon

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/ManuGH/arteloo/internal/arte"
	xglog "github.com/ManuGH/arteloo/internal/log"
)

// PageSize is the number of catalog entries per response.
const PageSize = 50

// Catalog is the subset of the Arte client the addon needs.
type Catalog interface {
	Homepage(ctx context.Context) []arte.VideoSummary
	Category(ctx context.Context, code string) []arte.VideoSummary
	ProgramDetail(ctx context.Context, programID string) mo.Option[arte.VideoDetail]
	CollectionEpisodes(ctx context.Context, collectionID string) []arte.CollectionEpisode
	StreamURL(ctx context.Context, programID string) mo.Option[string]
	LiveChannel(ctx context.Context) mo.Option[arte.LiveChannel]
}

// Service answers manifest, catalog, meta and stream requests. Upstream
// failures never surface; they yield empty or null payloads.
type Service struct {
	catalog  Catalog
	manifest Manifest
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for availability computations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(c Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:  c,
		manifest: NewManifest(),
		logger:   xglog.WithComponent("addon"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Manifest() Manifest {
	return s.manifest
}

// Catalog returns one page of the catalog id. Unknown ids yield no entries.
func (s *Service) Catalog(ctx context.Context, typ, id string, extra CatalogExtra) CatalogResponse {
	logger := xglog.WithContext(ctx, s.logger).With().
		Str("catalog", id).
		Str("type", typ).
		Logger()

	src, ok := lookupCatalog(id)
	if !ok {
		logger.Debug().Str(xglog.FieldEvent, "addon.catalog_unknown").Msg("unknown catalog")
		return CatalogResponse{Metas: []Meta{}}
	}
	if src.list == nil {
		return CatalogResponse{Metas: s.liveCatalog(ctx)}
	}

	videos := FilterSearch(src.list(ctx, s.catalog), extra.Search)
	page := paginate(videos, extra.Skip, PageSize)
	metas := lo.Map(page, func(v arte.VideoSummary, _ int) Meta {
		return previewMeta(typ, v)
	})

	logger.Info().
		Str(xglog.FieldEvent, "addon.catalog_served").
		Int(xglog.FieldCount, len(metas)).
		Int("skip", extra.Skip).
		Bool("search", extra.Search != "").
		Msg("catalog served")
	return CatalogResponse{Metas: metas}
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := min(skip+limit, len(items))
	return items[skip:end]
}

func previewMeta(typ string, v arte.VideoSummary) Meta {
	m := Meta{
		ID:          stremioID(v.ProgramID),
		Type:        typ,
		Name:        v.Title,
		Poster:      lo.CoalesceOrEmpty(v.ImageLarge, v.ImageSmall),
		PosterShape: "regular",
		Description: v.Description,
		ReleaseInfo: v.DurationLabel,
		Genres:      []string{},
	}
	if v.Genre.Label != "" {
		m.Genres = []string{v.Genre.Label}
	}
	return m
}

func (s *Service) liveCatalog(ctx context.Context) []Meta {
	live, ok := s.catalog.LiveChannel(ctx).Get()
	if !ok || live.StreamURL.IsAbsent() {
		return []Meta{}
	}

	description := live.Title
	switch {
	case live.Subtitle != "":
		description = live.Title + " - " + live.Subtitle
	case description == "":
		description = "Arte en direct"
	}
	return []Meta{{
		ID:          stremioID(arte.LiveProgramID),
		Type:        TypeTV,
		Name:        "Arte - Direct",
		Poster:      livePosterURL,
		PosterShape: "square",
		Background:  backgroundURL,
		Description: description,
	}}
}

// Meta returns the full meta object for a Stremio id.
func (s *Service) Meta(ctx context.Context, typ, metaID string) MetaResponse {
	id := arte.ParseID(strings.TrimPrefix(metaID, IDPrefix))

	switch {
	case id.IsZero():
		return MetaResponse{}
	case id.IsLive():
		return MetaResponse{Meta: s.liveMeta(ctx, metaID)}
	case id.IsCollection() && typ == TypeSeries:
		return MetaResponse{Meta: s.seriesMeta(ctx, metaID, id)}
	default:
		return MetaResponse{Meta: s.programMeta(ctx, typ, metaID, id)}
	}
}

func (s *Service) liveMeta(ctx context.Context, metaID string) *Meta {
	live, ok := s.catalog.LiveChannel(ctx).Get()
	if !ok {
		return nil
	}
	return &Meta{
		ID:          metaID,
		Type:        TypeTV,
		Name:        "Arte - Direct",
		Poster:      livePosterURL,
		PosterShape: "square",
		Background:  backgroundURL,
		Description: lo.CoalesceOrEmpty(live.Description, "Arte en direct - La chaîne culturelle européenne"),
		Runtime:     "En direct",
		Genres:      []string{"Direct", "Culture"},
	}
}

func (s *Service) seriesMeta(ctx context.Context, metaID string, id arte.ID) *Meta {
	episodes := s.catalog.CollectionEpisodes(ctx, id.String())
	detail := s.catalog.ProgramDetail(ctx, id.String())

	if detail.IsAbsent() && len(episodes) == 0 {
		return nil
	}

	videos := lo.Map(episodes, func(ep arte.CollectionEpisode, i int) Video {
		v := Video{
			ID:        stremioID(ep.ProgramID),
			Title:     lo.CoalesceOrEmpty(ep.Subtitle, ep.Title),
			Season:    1,
			Episode:   i + 1,
			Thumbnail: ep.ImageSmall,
			Overview:  ep.Description,
		}
		if start, ok := ep.Availability.StartTime().Get(); ok {
			v.Released = isoTimestamp(start)
		}
		return v
	})

	var first arte.CollectionEpisode
	if len(episodes) > 0 {
		first = episodes[0]
	}
	d := detail.OrEmpty()
	poster := lo.CoalesceOrEmpty(d.FirstImage().OrEmpty(), first.ImageSmall)

	return &Meta{
		ID:          metaID,
		Type:        TypeSeries,
		Name:        lo.CoalesceOrEmpty(seriesName(d.Title), seriesName(first.Title), "Série Arte"),
		Poster:      poster,
		PosterShape: "regular",
		Background:  poster,
		Description: lo.CoalesceOrEmpty(d.Description, first.Description),
		Genres:      []string{"Arte", "Culture"},
		Videos:      videos,
	}
}

func (s *Service) programMeta(ctx context.Context, typ, metaID string, id arte.ID) *Meta {
	detail, ok := s.catalog.ProgramDetail(ctx, id.String()).Get()
	if !ok {
		return nil
	}

	runtime := formatRuntime(detail.DurationSeconds)
	poster := detail.FirstImage().OrEmpty()
	return &Meta{
		ID:          metaID,
		Type:        typ,
		Name:        detail.Title,
		Poster:      poster,
		PosterShape: "regular",
		Background:  poster,
		Description: joinDescription(detail.Subtitle, detail.Description),
		Runtime:     runtime,
		ReleaseInfo: releaseInfo(runtime, detail.Rights, s.now()),
		Genres:      []string{"Arte", "Culture"},
	}
}

// Stream returns the playable source of a Stremio id, if any.
func (s *Service) Stream(ctx context.Context, typ, streamID string) StreamResponse {
	id := arte.ParseID(strings.TrimPrefix(streamID, IDPrefix))
	logger := xglog.WithContext(ctx, s.logger).With().
		Str(xglog.FieldProgramID, id.String()).
		Str("type", typ).
		Logger()

	var url, title string
	switch {
	case id.IsZero():
		return StreamResponse{Streams: []Stream{}}
	case id.IsLive():
		live, ok := s.catalog.LiveChannel(ctx).Get()
		if !ok || live.StreamURL.IsAbsent() {
			logger.Info().Str(xglog.FieldEvent, "addon.stream_missing").Msg("no live stream available")
			return StreamResponse{Streams: []Stream{}}
		}
		url, title = live.StreamURL.MustGet(), "Arte Direct"
	default:
		resolved, ok := s.catalog.StreamURL(ctx, id.String()).Get()
		if !ok {
			logger.Info().Str(xglog.FieldEvent, "addon.stream_missing").Msg("no stream for program")
			return StreamResponse{Streams: []Stream{}}
		}
		url = resolved
		title = "Arte"
		if d, ok := s.catalog.ProgramDetail(ctx, id.String()).Get(); ok && d.Title != "" {
			title = d.Title
		}
	}

	logger.Info().Str(xglog.FieldEvent, "addon.stream_served").Msg("stream found")
	return StreamResponse{Streams: []Stream{{
		Name:          AddonName,
		Title:         title + "\n🇫🇷 Français - HD",
		URL:           url,
		BehaviorHints: BehaviorHints{NotWebReady: false},
	}}}
}
