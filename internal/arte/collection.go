// SPDX-License-Identifier: MIT

package arte

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ManuGH/arteloo/internal/cache"
	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/metrics"
	"github.com/ManuGH/arteloo/internal/telemetry"
)

// CollectionEpisodes returns the episodes listed on a collection page, in
// upstream order. Nested collections are skipped. Only the first page of each
// zone is read.
func (c *Client) CollectionEpisodes(ctx context.Context, collectionID string) []CollectionEpisode {
	id := ParseID(collectionID)
	if id.IsZero() {
		return []CollectionEpisode{}
	}

	episodes, err := cache.GetOrCompute(ctx, c.memo, keyCollectionPrefix+id.String(), c.ttl,
		func(ctx context.Context) ([]CollectionEpisode, error) {
			return c.fetchEpisodes(ctx, id)
		})
	if err != nil {
		logger := xglog.WithContext(ctx, c.logger)
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "collection.failed").
			Str(xglog.FieldCollectionID, id.String()).
			Msg("collection unavailable")
		return []CollectionEpisode{}
	}
	return episodes
}

func (c *Client) fetchEpisodes(ctx context.Context, id ID) ([]CollectionEpisode, error) {
	ctx, span := c.tracer.Start(ctx, "arte.collectionEpisodes")
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.CollectionIDKey, id.String()))

	var page pageResponse
	if err := c.getJSON(ctx, metrics.EndpointCollection, c.collectionURL(id.String()), &page); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collection fetch failed")
		return nil, err
	}

	episodes := []CollectionEpisode{}
	for _, z := range page.zones() {
		data, ok := z.inlineItems()
		if !ok {
			continue
		}
		for _, it := range data {
			pid := ParseID(it.ProgramID)
			if pid.IsZero() || pid.IsCollection() {
				continue
			}
			episodes = append(episodes, CollectionEpisode(summarize(it)))
		}
	}

	span.SetAttributes(attribute.Int(telemetry.CatalogItemsKey, len(episodes)))
	logger := xglog.WithContext(ctx, c.logger)
	logger.Debug().
		Str(xglog.FieldEvent, "collection.loaded").
		Str(xglog.FieldCollectionID, id.String()).
		Int(xglog.FieldCount, len(episodes)).
		Msg("collection loaded")
	return episodes, nil
}
