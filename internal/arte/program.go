// SPDX-License-Identifier: MIT

package arte

import (
	"context"
	"errors"

	"github.com/samber/mo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ManuGH/arteloo/internal/cache"
	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/metrics"
	"github.com/ManuGH/arteloo/internal/telemetry"
)

// ProgramDetail returns the player configuration of a program. It is absent
// when the upstream has no metadata for it or the request failed; only the
// former is cached.
func (c *Client) ProgramDetail(ctx context.Context, programID string) mo.Option[VideoDetail] {
	id := ParseID(programID)
	if id.IsZero() {
		return mo.None[VideoDetail]()
	}

	detail, err := cache.GetOrCompute(ctx, c.memo, keyMetaPrefix+id.String(), c.ttl,
		func(ctx context.Context) (mo.Option[VideoDetail], error) {
			return c.fetchDetail(ctx, id)
		})
	if err != nil {
		logger := xglog.WithContext(ctx, c.logger)
		ev := logger.Warn()
		if errors.Is(err, ErrNotFound) {
			ev = logger.Debug()
		}
		ev.Err(err).
			Str(xglog.FieldEvent, "program.detail_failed").
			Str(xglog.FieldProgramID, id.String()).
			Msg("program detail unavailable")
		return mo.None[VideoDetail]()
	}
	return detail
}

func (c *Client) fetchDetail(ctx context.Context, id ID) (mo.Option[VideoDetail], error) {
	attrs, err := c.playerConfig(ctx, id)
	if err != nil {
		return mo.None[VideoDetail](), err
	}
	if attrs == nil || attrs.Metadata == nil {
		return mo.None[VideoDetail](), nil
	}
	return mo.Some(detailFromConfig(id.String(), attrs)), nil
}

// playerConfig fetches the player configuration of id. A nil result means
// the upstream answered without attributes.
func (c *Client) playerConfig(ctx context.Context, id ID) (*configAttributes, error) {
	ctx, span := c.tracer.Start(ctx, "arte.playerConfig")
	defer span.End()
	span.SetAttributes(
		attribute.String(telemetry.ProgramIDKey, id.String()),
		attribute.String("arte.id_kind", id.Kind().String()),
	)

	var resp configResponse
	if err := c.getJSON(ctx, metrics.EndpointConfig, c.configURL(id.String()), &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "config fetch failed")
		return nil, err
	}
	return resp.attributes(), nil
}
