// SPDX-License-Identifier: MIT

package addon

import (
	"context"

	"github.com/ManuGH/arteloo/internal/arte"
)

const (
	AddonID      = "community.stremio.arte"
	AddonVersion = "1.0.0"
	AddonName    = "Arte.tv"
	// IDPrefix namespaces every Stremio id emitted by the addon.
	IDPrefix = "arte:"

	TypeMovie  = "movie"
	TypeSeries = "series"
	TypeTV     = "tv"

	ExtraSkip   = "skip"
	ExtraSearch = "search"

	logoURL       = "https://raw.githubusercontent.com/Loo-stick/stremio-arteloo-addon/main/logo.png"
	backgroundURL = "https://api-cdn.arte.tv/img/v2/image/3JuyT2qo2eFCkPakJL1j3P/1920x1080"
	livePosterURL = "https://static-cdn.arte.tv/guide/favicons/apple-touch-icon.png"
)

// Catalog ids.
const (
	CatalogHome   = "arte-home"
	CatalogCinema = "arte-cinema"
	CatalogDocs   = "arte-docs"
	CatalogSeries = "arte-series"
	CatalogLive   = "arte-live"
)

// catalogSource binds a manifest catalog to the client call that fills it.
// A nil list marks the live catalog.
type catalogSource struct {
	def  CatalogDef
	list func(ctx context.Context, c Catalog) []arte.VideoSummary
}

var vodExtras = []ExtraField{
	{Name: ExtraSkip},
	{Name: ExtraSearch},
}

func category(code string) func(context.Context, Catalog) []arte.VideoSummary {
	return func(ctx context.Context, c Catalog) []arte.VideoSummary { return c.Category(ctx, code) }
}

var catalogSources = []catalogSource{
	{
		def: CatalogDef{Type: TypeMovie, ID: CatalogHome, Name: "Arte - À la une", Extra: vodExtras},
		list: func(ctx context.Context, c Catalog) []arte.VideoSummary {
			return c.Homepage(ctx)
		},
	},
	{def: CatalogDef{Type: TypeMovie, ID: CatalogCinema, Name: "Arte - Cinéma", Extra: vodExtras}, list: category("CIN")},
	{def: CatalogDef{Type: TypeMovie, ID: CatalogDocs, Name: "Arte - Documentaires", Extra: vodExtras}, list: category("DOR")},
	{def: CatalogDef{Type: TypeSeries, ID: CatalogSeries, Name: "Arte - Séries", Extra: vodExtras}, list: category("SER")},
	{def: CatalogDef{Type: TypeTV, ID: CatalogLive, Name: "Arte - Direct", Extra: []ExtraField{}}},
}

func lookupCatalog(id string) (catalogSource, bool) {
	for _, src := range catalogSources {
		if src.def.ID == id {
			return src, true
		}
	}
	return catalogSource{}, false
}

// CatalogIDs lists the catalog ids in manifest order.
func CatalogIDs() []string {
	ids := make([]string, len(catalogSources))
	for i, src := range catalogSources {
		ids[i] = src.def.ID
	}
	return ids
}

// NewManifest returns the addon manifest.
func NewManifest() Manifest {
	defs := make([]CatalogDef, len(catalogSources))
	for i, src := range catalogSources {
		defs[i] = src.def
	}
	return Manifest{
		ID:          AddonID,
		Version:     AddonVersion,
		Name:        AddonName,
		Description: "Streaming légal et gratuit depuis Arte.tv - Documentaires, films, séries et direct",
		Logo:        logoURL,
		Background:  backgroundURL,
		Resources:   []string{"catalog", "meta", "stream"},
		Types:       []string{TypeMovie, TypeSeries, TypeTV},
		Catalogs:    defs,
		IDPrefixes:  []string{IDPrefix},
	}
}
