// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/arteloo/internal/addon"
	xglog "github.com/ManuGH/arteloo/internal/log"
)

// cacheMaxAge is advertised on addon resources; Stremio clients honor it.
const cacheMaxAge = "public, max-age=3600"

// pathParam returns a route parameter with the Stremio ".json" suffix removed.
func pathParam(r *http.Request, name string) string {
	v := strings.TrimSuffix(chi.URLParam(r, name), ".json")
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.addon.Manifest())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	id := pathParam(r, "id")
	// The extra segment is a query string; ParseExtra does its own unescaping.
	extra := addon.ParseExtra(strings.TrimSuffix(chi.URLParam(r, "extra"), ".json"))

	w.Header().Set("Cache-Control", cacheMaxAge)
	writeJSON(w, r, http.StatusOK, s.addon.Catalog(r.Context(), typ, id, extra))
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	resp := s.addon.Meta(r.Context(), chi.URLParam(r, "type"), pathParam(r, "id"))
	if resp.Meta != nil {
		w.Header().Set("Cache-Control", cacheMaxAge)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.addon.Stream(r.Context(), chi.URLParam(r, "type"), pathParam(r, "id")))
}

type cacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Sets      int64 `json:"sets"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

type statsResponse struct {
	Addon    string     `json:"addon"`
	Version  string     `json:"version"`
	Catalogs []string   `json:"catalogs"`
	Cache    cacheStats `json:"cache"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.store.Stats()
	writeJSON(w, r, http.StatusOK, statsResponse{
		Addon:    addon.AddonName,
		Version:  addon.AddonVersion,
		Catalogs: addon.CatalogIDs(),
		Cache: cacheStats{
			Hits:      st.Hits,
			Misses:    st.Misses,
			Sets:      st.Sets,
			Evictions: st.Evictions,
			Size:      st.CurrentSize,
		},
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).Str(xglog.FieldEvent, "api.encode_failed").Msg("failed to write response")
	}
}
