// SPDX-License-Identifier: MIT

package arte

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	xglog "github.com/ManuGH/arteloo/internal/log"
	"github.com/ManuGH/arteloo/internal/metrics"
	"github.com/ManuGH/arteloo/internal/telemetry"
)

const (
	ProtocolHLS = "HLS"

	RuleHLSVersioned    = "hls-versioned"
	RuleHLSFrenchStrict = "hls-french-strict"
	RuleFirstStream     = "first-stream"
	RuleNone            = "none"
)

// Rule picks a stream from the list, returning its index.
type Rule struct {
	Name string
	Pick func(streams []StreamOption) (int, bool)
}

// Selector evaluates its rules top to bottom. The first rule that picks a
// stream wins; when none does the selection is RuleNone.
type Selector struct {
	Name  string
	Rules []Rule
}

// Selection is the outcome of a Selector.
type Selection struct {
	Rule  string
	Index int
	URL   string
}

// Found reports whether a stream was selected.
func (s Selection) Found() bool {
	return s.Rule != RuleNone
}

// Select applies the rules to streams.
func (s Selector) Select(streams []StreamOption) Selection {
	for _, r := range s.Rules {
		if i, ok := r.Pick(streams); ok {
			return Selection{Rule: r.Name, Index: i, URL: streams[i].URL}
		}
	}
	return Selection{Rule: RuleNone, Index: -1}
}

// VODSelector picks the first HLS stream that has a French version or any
// version at all, then falls back to the first stream.
var VODSelector = Selector{
	Name: "vod",
	Rules: []Rule{
		firstHLS(RuleHLSVersioned, func(vs []Version) bool {
			return lo.ContainsBy(vs, FrenchVersion) || len(vs) > 0
		}),
		firstStream(),
	},
}

// LiveSelector picks the first HLS stream with a strictly French version,
// then falls back to the first stream.
var LiveSelector = Selector{
	Name: "live",
	Rules: []Rule{
		firstHLS(RuleHLSFrenchStrict, func(vs []Version) bool {
			return lo.ContainsBy(vs, FrenchVersionStrict)
		}),
		firstStream(),
	},
}

func firstHLS(name string, accept func([]Version) bool) Rule {
	return Rule{Name: name, Pick: func(streams []StreamOption) (int, bool) {
		for i, s := range streams {
			if s.Protocol == ProtocolHLS && s.URL != "" && accept(s.Versions) {
				return i, true
			}
		}
		return -1, false
	}}
}

func firstStream() Rule {
	return Rule{Name: RuleFirstStream, Pick: func(streams []StreamOption) (int, bool) {
		if len(streams) == 0 || streams[0].URL == "" {
			return -1, false
		}
		return 0, true
	}}
}

var frenchLabel = foldLabel("français")

func foldLabel(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// FrenchVersion is the lenient French match used for on-demand programs:
// the code contains "FR", the label contains "français" in any case, or the
// short label is "VF".
func FrenchVersion(v Version) bool {
	return strings.Contains(v.Code, "FR") ||
		strings.Contains(foldLabel(v.Label), frenchLabel) ||
		v.ShortLabel == "VF"
}

// FrenchVersionStrict is the live-channel match: the code contains "FR" or the
// label contains "Français" with that exact casing.
func FrenchVersionStrict(v Version) bool {
	return strings.Contains(v.Code, "FR") ||
		strings.Contains(norm.NFC.String(v.Label), "Français")
}

// StreamURL resolves a playable URL for a program. The result is not cached.
func (c *Client) StreamURL(ctx context.Context, programID string) mo.Option[string] {
	id := ParseID(programID)
	if id.IsZero() {
		return mo.None[string]()
	}

	ctx, span := c.tracer.Start(ctx, "arte.streamURL", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	logger := xglog.WithContext(ctx, c.logger).With().Str(xglog.FieldProgramID, id.String()).Logger()

	attrs, err := c.playerConfig(ctx, id)
	if err != nil {
		logger.Warn().Err(err).
			Str(xglog.FieldEvent, "stream.config_failed").
			Msg("stream resolution failed")
		return mo.None[string]()
	}
	if attrs == nil || attrs.Streams == nil {
		logger.Debug().Str(xglog.FieldEvent, "stream.no_streams").Msg("program has no stream list")
		return mo.None[string]()
	}

	streams := streamOptions(attrs.Streams)
	sel := c.selectStream(ctx, VODSelector, id, streams)
	span.SetAttributes(telemetry.StreamAttributes(id.String(), sel.Rule, len(streams))...)
	if !sel.Found() {
		return mo.None[string]()
	}
	return mo.Some(sel.URL)
}

func (c *Client) selectStream(ctx context.Context, s Selector, id ID, streams []StreamOption) Selection {
	sel := s.Select(streams)
	metrics.IncStreamSelection(s.Name, sel.Rule)

	logger := xglog.WithContext(ctx, c.logger)
	logger.Debug().
		Str(xglog.FieldEvent, "stream.selected").
		Str(xglog.FieldProgramID, id.String()).
		Str(xglog.FieldSelector, s.Name).
		Str(xglog.FieldRule, sel.Rule).
		Int("candidates", len(streams)).
		Msg("stream selection")
	return sel
}
