// SPDX-License-Identifier: MIT

package arte

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func episodeIDs(eps []CollectionEpisode) []string {
	return lo.Map(eps, func(e CollectionEpisode, _ int) string { return e.ProgramID })
}

func TestCollectionEpisodes(t *testing.T) {
	m := startMock(t)

	noImage := fixtureItem("ep-3")
	noImage.Image = ""
	m.SetCollection("RC-014095",
		FixtureZone{Code: "header", Items: fixtureItems("RC-014095")},
		FixtureZone{Code: "episodes", Pages: 3, Items: []FixtureItem{
			fixtureItem("ep-1"), fixtureItem("RC-099999"), fixtureItem(""), fixtureItem("ep-2"), noImage,
		}},
	)

	c := newTestClient(t, m)
	got := c.CollectionEpisodes(context.Background(), "RC-014095")

	assert.Equal(t, []string{"ep-1", "ep-2", "ep-3"}, episodeIDs(got))
	assert.Zero(t, m.Requests(ZoneKey("episodes", 2)), "collections are read from the first page only")
}

func TestCollectionEpisodes_Cached(t *testing.T) {
	m := startMock(t)
	m.SetCollection("RC-1", FixtureZone{Code: "z", Items: fixtureItems("ep-1")})

	c := newTestClient(t, m)
	ctx := context.Background()
	c.CollectionEpisodes(ctx, "RC-1")
	got := c.CollectionEpisodes(ctx, "RC-1")

	require.Len(t, got, 1)
	assert.Equal(t, "Title ep-1", got[0].Title)
	assert.Equal(t, 1, m.Requests(CollectionKey("RC-1")))
}

func TestCollectionEpisodes_FailureIsEmptyAndNotCached(t *testing.T) {
	m := startMock(t)
	c := newTestClient(t, m)
	ctx := context.Background()

	got := c.CollectionEpisodes(ctx, "RC-404")
	require.NotNil(t, got)
	assert.Empty(t, got)

	m.SetCollection("RC-404", FixtureZone{Code: "z", Items: fixtureItems("ep-1")})
	assert.Len(t, c.CollectionEpisodes(ctx, "RC-404"), 1)
	assert.Equal(t, 2, m.Requests(CollectionKey("RC-404")))
}
