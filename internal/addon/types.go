// SPDX-License-Identifier: MIT

package addon

// Manifest describes the addon to Stremio clients.
type Manifest struct {
	ID           string       `json:"id"`
	Version      string       `json:"version"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Logo         string       `json:"logo,omitempty"`
	Background   string       `json:"background,omitempty"`
	ContactEmail string       `json:"contactEmail"`
	Resources    []string     `json:"resources"`
	Types        []string     `json:"types"`
	Catalogs     []CatalogDef `json:"catalogs"`
	IDPrefixes   []string     `json:"idPrefixes"`
}

// CatalogDef is one catalog entry of the manifest.
type CatalogDef struct {
	Type  string       `json:"type"`
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Extra []ExtraField `json:"extra"`
}

// ExtraField declares an optional catalog argument.
type ExtraField struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

// Meta is both the catalog preview and the full meta object; unset fields are omitted.
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster,omitempty"`
	PosterShape string   `json:"posterShape,omitempty"`
	Background  string   `json:"background,omitempty"`
	Description string   `json:"description,omitempty"`
	ReleaseInfo string   `json:"releaseInfo,omitempty"`
	Runtime     string   `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Videos      []Video  `json:"videos,omitempty"`
}

// Video is an episode of a series meta.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Overview  string `json:"overview,omitempty"`
	Released  string `json:"released,omitempty"`
}

// Stream is a playable source.
type Stream struct {
	Name          string        `json:"name"`
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	BehaviorHints BehaviorHints `json:"behaviorHints"`
}

type BehaviorHints struct {
	NotWebReady bool `json:"notWebReady"`
}

type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// MetaResponse carries a nil Meta when nothing is known about the id.
type MetaResponse struct {
	Meta *Meta `json:"meta"`
}

type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
