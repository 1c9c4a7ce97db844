// SPDX-License-Identifier: MIT

package arte

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/arteloo/internal/cache"
	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/metrics"
	"github.com/ManuGH/arteloo/internal/telemetry"
)

// Homepage returns the deduplicated, playable items of the homepage. Zones
// are paginated exactly like Category, up to MaxZonePages pages each. On
// upstream failure it returns an empty list, which is not cached.
func (c *Client) Homepage(ctx context.Context) []VideoSummary {
	return c.listing(ctx, HomePageID, keyHomepage)
}

// Category returns the deduplicated, playable items of the category page
// identified by code (e.g. "CIN", "DOR", "SER").
func (c *Client) Category(ctx context.Context, code string) []VideoSummary {
	code = strings.TrimSpace(code)
	if code == "" {
		return []VideoSummary{}
	}
	return c.listing(ctx, code, keyCategoryPrefix+code)
}

func (c *Client) listing(ctx context.Context, pageID, key string) []VideoSummary {
	videos, err := cache.GetOrCompute(ctx, c.memo, key, c.ttl, func(ctx context.Context) ([]VideoSummary, error) {
		return c.aggregatePage(ctx, pageID)
	})
	if err != nil {
		logger := xglog.WithContext(ctx, c.logger)
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "catalog.page_failed").
			Str(xglog.FieldPageID, pageID).
			Msg("catalog page unavailable")
		return []VideoSummary{}
	}
	return videos
}

// aggregatePage fetches a catalog page, follows zone pagination and returns
// the listable items deduplicated by program identifier in first-seen order.
func (c *Client) aggregatePage(ctx context.Context, pageID string) ([]VideoSummary, error) {
	ctx, span := c.tracer.Start(ctx, "arte.aggregatePage", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	logger := xglog.WithContext(ctx, c.logger).With().Str(xglog.FieldPageID, pageID).Logger()

	var page pageResponse
	if err := c.getJSON(ctx, metrics.EndpointPage, c.pageURL(pageID), &page); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "page fetch failed")
		return nil, err
	}

	var (
		collected   []VideoSummary
		zones       int
		extraPages  int
		failedPages int
		interrupted bool
	)
	for _, z := range page.zones() {
		data, ok := z.inlineItems()
		if !ok {
			continue
		}
		zones++
		collected = append(collected, listableSummaries(data)...)

		last := z.Content.Pagination.lastPage(c.maxPages)
		if last <= 1 {
			continue
		}
		code := string(z.Code)
		if code == "" {
			logger.Warn().
				Str(xglog.FieldEvent, "catalog.zone_without_code").
				Str("zone_title", z.Title).
				Msg("zone is paginated but has no code, skipping continuation pages")
			continue
		}
		for p := 2; p <= last; p++ {
			extraPages++
			items, err := c.zonePage(ctx, code, pageID, p)
			if err != nil {
				if ctx.Err() != nil {
					interrupted = true
				}
				failedPages++
				metrics.IncZonePageFailed()
				logger.Warn().Err(err).
					Str(xglog.FieldEvent, "catalog.zone_page_failed").
					Str(xglog.FieldZone, code).
					Int(xglog.FieldPage, p).
					Msg("skipping zone page")
				continue
			}
			collected = append(collected, listableSummaries(items)...)
		}
	}

	// A walk cut short by the deadline is truncated and must not be cached.
	if interrupted {
		err := ctx.Err()
		span.RecordError(err)
		return nil, transportError(ctx, metrics.EndpointZone, err)
	}

	videos := lo.UniqBy(collected, func(v VideoSummary) string { return v.ProgramID })
	if videos == nil {
		videos = []VideoSummary{}
	}

	span.SetAttributes(telemetry.CatalogAttributes(pageID, zones, len(videos), extraPages, failedPages)...)
	logger.Info().
		Str(xglog.FieldEvent, "catalog.page_aggregated").
		Int(xglog.FieldCount, len(videos)).
		Int("zones", zones).
		Int("continuation_pages", extraPages).
		Int("failed_pages", failedPages).
		Msg("catalog page aggregated")
	return videos, nil
}

func (c *Client) zonePage(ctx context.Context, zoneCode, pageID string, page int) ([]item, error) {
	var resp zoneResponse
	if err := c.getJSON(ctx, metrics.EndpointZone, c.zoneURL(zoneCode, pageID, page), &resp); err != nil {
		return nil, err
	}
	if resp.Value == nil {
		return nil, nil
	}
	return resp.Value.Data, nil
}
