// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/arteloo/internal/arte"
	"github.com/ManuGH/arteloo/internal/cache"
	"github.com/ManuGH/arteloo/internal/config"
	"github.com/ManuGH/arteloo/internal/version"
)

func startUpstream(t *testing.T) *arte.MockServer {
	t.Helper()
	m := arte.NewMockServer()
	t.Cleanup(m.Close)
	t.Setenv(config.EnvEMACBaseURL, m.EMACBaseURL())
	t.Setenv(config.EnvPlayerBaseURL, m.PlayerBaseURL())
	return m
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func fixture(id, title string) arte.FixtureItem {
	return arte.FixtureItem{
		ProgramID:        id,
		Title:            title,
		ShortDescription: "À propos de " + title,
		Image:            "https://api-cdn.arte.tv/img/v2/image/" + id + "/__SIZE__",
		DurationLabel:    "52 min",
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Version)
	assert.Contains(t, out, "community.stremio.arte")
}

func TestCatalogCmd_JSON(t *testing.T) {
	m := startUpstream(t)
	m.SetPage("DOR", arte.FixtureZone{Code: "docs", Items: []arte.FixtureItem{
		fixture("100001-000-A", "Les océans"),
		fixture("100002-000-A", "Berlin 1989"),
		fixture("100003-000-A", "Le climat"),
	}})

	out, err := run(t, "catalog", "dor", "--json", "--limit", "2")
	require.NoError(t, err)

	var got []arte.VideoSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "100001-000-A", got[0].ProgramID)
	assert.Equal(t, "À propos de Les océans", got[0].Description)
}

func TestCatalogCmd_SearchText(t *testing.T) {
	m := startUpstream(t)
	m.SetPage(arte.HomePageID, arte.FixtureZone{Code: "home", Items: []arte.FixtureItem{
		fixture("100001-000-A", "Les océans"),
		fixture("100002-000-A", "Berlin 1989"),
	}})

	out, err := run(t, "catalog", "--search", "berlin")
	require.NoError(t, err)

	assert.Contains(t, out, "1 of 2 entries")
	assert.Contains(t, out, "Berlin 1989")
	assert.Contains(t, out, "100002-000-A · 52 min")
	assert.NotContains(t, out, "Les océans")
}

func TestMetaCmd(t *testing.T) {
	m := startUpstream(t)
	m.SetConfig("100001-000-A", arte.FixtureProgram{
		Title:           "Le Mépris",
		Subtitle:        "Jean-Luc Godard",
		Description:     "Capri, 1963.",
		DurationSeconds: 6240,
	})

	out, err := run(t, "meta", "arte:100001-000-A")
	require.NoError(t, err)
	assert.Contains(t, out, "Le Mépris")
	assert.Contains(t, out, "104 min")
	assert.Contains(t, out, "Capri, 1963.")

	_, err = run(t, "meta", "999999-000-A")
	assert.ErrorContains(t, err, "no metadata for 999999-000-A")
}

func TestMetaCmd_CollectionJSON(t *testing.T) {
	m := startUpstream(t)
	m.SetCollection("RC-014095", arte.FixtureZone{Code: "episodes", Items: []arte.FixtureItem{
		fixture("100010-001-A", "Épisode 1"),
		fixture("100010-002-A", "Épisode 2"),
	}})

	out, err := run(t, "meta", "RC-014095", "--json")
	require.NoError(t, err)

	var got metaResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Nil(t, got.Detail)
	require.Len(t, got.Episodes, 2)
	assert.Equal(t, "100010-002-A", got.Episodes[1].ProgramID)
}

func TestStreamCmd(t *testing.T) {
	m := startUpstream(t)
	m.SetConfig("100001-000-A", arte.FixtureProgram{
		Title: "Le Mépris",
		Streams: []arte.FixtureStream{{
			Protocol: "HLS",
			URL:      "https://hls.example/vf.m3u8",
			Versions: []arte.Version{{Code: "VF", Label: "Français"}},
		}},
	})

	out, err := run(t, "stream", "100001-000-A")
	require.NoError(t, err)
	assert.Contains(t, out, "https://hls.example/vf.m3u8")

	_, err = run(t, "stream", "LIVE")
	assert.ErrorContains(t, err, "no stream for LIVE")
}

func TestLiveCmd(t *testing.T) {
	m := startUpstream(t)

	_, err := run(t, "live")
	assert.ErrorContains(t, err, "live channel unavailable")

	m.SetConfig(arte.LiveProgramID, arte.FixtureProgram{
		Title:    "ARTE Journal",
		Subtitle: "Édition du soir",
		Streams: []arte.FixtureStream{{
			Protocol: "HLS",
			URL:      "https://live.example/fr.m3u8",
			Versions: []arte.Version{{Code: "FR", Label: "Français"}},
		}},
	})

	out, err := run(t, "live")
	require.NoError(t, err)
	assert.Contains(t, out, "ARTE Journal")
	assert.Contains(t, out, "https://live.example/fr.m3u8")
}

func TestUnknownConfigFile(t *testing.T) {
	_, err := run(t, "live", "--config", "/nonexistent/arteloo.yaml")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load configuration:"))
}

func TestClientOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Upstream.RateLimitRPS = 0
	cfg.Cache.TTL = 5 * time.Minute

	opts := clientOptions(cfg)
	assert.Equal(t, float64(-1), opts.RateLimit, "zero rate disables limiting")
	assert.Equal(t, 5*time.Minute, opts.CacheTTL)
	assert.NotNil(t, opts.Breaker)

	cfg.Upstream.RateLimitRPS = 4
	assert.Equal(t, float64(4), clientOptions(cfg).RateLimit)
}

func TestNewStore(t *testing.T) {
	store, stop := newStore(config.CacheConfig{Disabled: true})
	stop()
	store.Set("k", 1, time.Minute)
	_, ok := store.Get("k")
	assert.False(t, ok)

	store, stop = newStore(config.CacheConfig{SweepInterval: time.Hour})
	defer stop()
	assert.IsType(t, &cache.MemoryCache{}, store)
}
