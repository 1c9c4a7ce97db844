// SPDX-License-Identifier: MIT

package arte

import (
	"context"

	"github.com/samber/mo"

	"github.com/ManuGH/arteloo/internal/cache"
	xglog "github.com/ManuGH/arteloo/internal/log"
)

// LiveChannel returns what is on air on the live channel, with its stream URL
// when one could be selected.
func (c *Client) LiveChannel(ctx context.Context) mo.Option[LiveChannel] {
	live, err := cache.GetOrCompute(ctx, c.memo, keyLive, c.ttl, c.fetchLive)
	if err != nil {
		logger := xglog.WithContext(ctx, c.logger)
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "live.failed").
			Msg("live channel unavailable")
		return mo.None[LiveChannel]()
	}
	return live
}

func (c *Client) fetchLive(ctx context.Context) (mo.Option[LiveChannel], error) {
	id := LiveID()
	attrs, err := c.playerConfig(ctx, id)
	if err != nil {
		return mo.None[LiveChannel](), err
	}
	if attrs == nil || attrs.Metadata == nil {
		return mo.None[LiveChannel](), nil
	}

	md := attrs.Metadata
	ch := LiveChannel{
		Title:       md.Title,
		Subtitle:    md.Subtitle,
		Description: md.Description,
		StreamURL:   mo.None[string](),
	}
	if md.Link != nil {
		ch.CurrentProgramURL = md.Link.URL
	}
	if sel := c.selectStream(ctx, LiveSelector, id, streamOptions(attrs.Streams)); sel.Found() {
		ch.StreamURL = mo.Some(sel.URL)
	}
	return mo.Some(ch), nil
}
