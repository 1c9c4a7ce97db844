// SPDX-License-Identifier: MIT

package arte

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// FixtureItem is a catalog item served by MockServer. Image is an image
// template and may contain the size placeholder.
type FixtureItem struct {
	ProgramID        string
	Title            string
	Subtitle         string
	ShortDescription string
	TeaserText       string
	Duration         int
	DurationLabel    string
	Genre            string
	Image            string
	HasVideoStreams  *bool
	Start            string
	End              string
}

// FixtureZone is a zone of a catalog or collection page. Pages > 1 announces
// continuation pages; NoContent omits the content block.
type FixtureZone struct {
	Code      string
	Title     string
	Items     []FixtureItem
	Pages     int
	NoContent bool
}

// FixtureStream is one stream of a FixtureProgram.
type FixtureStream struct {
	Protocol string
	URL      string
	Versions []Version
}

// FixtureProgram is a player configuration served by MockServer.
type FixtureProgram struct {
	Title           string
	Subtitle        string
	Description     string
	DurationSeconds int
	Images          []string
	Link            string
	RightsBegin     string
	RightsEnd       string
	Streams         []FixtureStream
	// NoStreams omits the streams array; NoMetadata omits the metadata block.
	NoStreams  bool
	NoMetadata bool
}

// MockServer is a fake Arte upstream serving both the EMAC and Player APIs.
// Unknown resources answer 404.
type MockServer struct {
	*httptest.Server
	mu          sync.RWMutex
	pages       map[string][]FixtureZone
	zonePages   map[string][]FixtureItem
	collections map[string][]FixtureZone
	configs     map[string]FixtureProgram
	statuses    map[string]int
	requests    map[string]int
	lastHeaders http.Header
	delay       time.Duration
}

// Request keys used by Fail and Requests.
func PageKey(id string) string             { return "page:" + id }
func ZoneKey(code string, page int) string { return fmt.Sprintf("zone:%s:%d", code, page) }
func CollectionKey(id string) string       { return "collection:" + id }
func ConfigKey(programID string) string    { return "config:" + programID }

// NewMockServer starts an empty fake upstream.
func NewMockServer() *MockServer {
	m := &MockServer{
		pages:       make(map[string][]FixtureZone),
		zonePages:   make(map[string][]FixtureItem),
		collections: make(map[string][]FixtureZone),
		configs:     make(map[string]FixtureProgram),
		statuses:    make(map[string]int),
		requests:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /emac/{lang}/web/pages/{id}/{$}", m.handlePage)
	mux.HandleFunc("GET /emac/{lang}/web/zones/{code}/content", m.handleZone)
	mux.HandleFunc("GET /emac/{lang}/web/collections/{id}/{$}", m.handleCollection)
	mux.HandleFunc("GET /player/config/{lang}/{id}", m.handleConfig)

	m.Server = httptest.NewServer(mux)
	return m
}

// EMACBaseURL is the catalog API base to configure on a Client.
func (m *MockServer) EMACBaseURL() string { return m.URL + "/emac" }

// PlayerBaseURL is the player API base to configure on a Client.
func (m *MockServer) PlayerBaseURL() string { return m.URL + "/player" }

// SetPage serves zones for the catalog page id.
func (m *MockServer) SetPage(id string, zones ...FixtureZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[id] = zones
}

// SetZonePage serves items for a continuation page of a zone.
func (m *MockServer) SetZonePage(code string, page int, items ...FixtureItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zonePages[ZoneKey(code, page)] = items
}

// SetCollection serves zones for the collection id.
func (m *MockServer) SetCollection(id string, zones ...FixtureZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[id] = zones
}

// SetConfig serves a player configuration for programID.
func (m *MockServer) SetConfig(programID string, p FixtureProgram) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[programID] = p
}

// Fail makes the resource identified by key answer status. Zero clears it.
func (m *MockServer) Fail(key string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == 0 {
		delete(m.statuses, key)
		return
	}
	m.statuses[key] = status
}

// SetDelay delays every response.
func (m *MockServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Requests returns how many times key was requested.
func (m *MockServer) Requests(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[key]
}

// TotalRequests returns the number of requests served.
func (m *MockServer) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}

// LastHeaders returns the headers of the most recent request.
func (m *MockServer) LastHeaders() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeaders.Clone()
}

// begin records the request and reports whether a forced status was sent.
func (m *MockServer) begin(w http.ResponseWriter, r *http.Request, key string) bool {
	m.mu.Lock()
	m.requests[key]++
	m.lastHeaders = r.Header.Clone()
	status := m.statuses[key]
	delay := m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return true
		}
	}
	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return true
	}
	return false
}

func (m *MockServer) handlePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if m.begin(w, r, PageKey(id)) {
		return
	}
	m.mu.RLock()
	zones, ok := m.pages[id]
	m.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeFixture(w, map[string]any{"value": map[string]any{"zones": renderZones(zones)}})
}

func (m *MockServer) handleZone(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || r.URL.Query().Get("pageId") == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	key := ZoneKey(code, page)
	if m.begin(w, r, key) {
		return
	}
	m.mu.RLock()
	items, ok := m.zonePages[key]
	m.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeFixture(w, map[string]any{"value": map[string]any{"data": renderItems(items)}})
}

func (m *MockServer) handleCollection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if m.begin(w, r, CollectionKey(id)) {
		return
	}
	m.mu.RLock()
	zones, ok := m.collections[id]
	m.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeFixture(w, map[string]any{"value": map[string]any{"zones": renderZones(zones)}})
}

func (m *MockServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if m.begin(w, r, ConfigKey(id)) {
		return
	}
	m.mu.RLock()
	p, ok := m.configs[id]
	m.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeFixture(w, map[string]any{"data": map[string]any{
		"id":         id,
		"type":       "ConfigPlayer",
		"attributes": renderProgram(p),
	}})
}

func writeFixture(w http.ResponseWriter, doc any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

func renderZones(zones []FixtureZone) []map[string]any {
	out := make([]map[string]any, 0, len(zones))
	for _, z := range zones {
		doc := map[string]any{"code": z.Code, "title": z.Title}
		if !z.NoContent {
			content := map[string]any{"data": renderItems(z.Items)}
			if z.Pages > 0 {
				content["pagination"] = map[string]any{"page": 1, "pages": z.Pages}
			}
			doc["content"] = content
		}
		out = append(out, doc)
	}
	return out
}

func renderItems(items []FixtureItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		doc := map[string]any{
			"programId":        it.ProgramID,
			"title":            it.Title,
			"subtitle":         it.Subtitle,
			"shortDescription": it.ShortDescription,
			"teaserText":       it.TeaserText,
			"duration":         it.Duration,
			"durationLabel":    it.DurationLabel,
			"url":              "https://www.arte.tv/fr/videos/" + it.ProgramID + "/",
		}
		if it.ProgramID == "" {
			doc["programId"] = nil
		}
		if it.Genre != "" {
			doc["genre"] = map[string]any{"label": it.Genre, "id": it.Genre}
		}
		if it.Image != "" {
			doc["mainImage"] = map[string]any{"url": it.Image}
		}
		avail := map[string]any{"type": "VOD", "start": it.Start, "end": it.End}
		if it.HasVideoStreams != nil {
			avail["hasVideoStreams"] = *it.HasVideoStreams
		}
		doc["availability"] = avail
		out = append(out, doc)
	}
	return out
}

func renderProgram(p FixtureProgram) map[string]any {
	attrs := map[string]any{}
	if !p.NoMetadata {
		images := make([]map[string]any, 0, len(p.Images))
		for _, u := range p.Images {
			images = append(images, map[string]any{"url": u})
		}
		md := map[string]any{
			"title":       p.Title,
			"subtitle":    p.Subtitle,
			"description": p.Description,
			"duration":    map[string]any{"seconds": p.DurationSeconds},
			"images":      images,
		}
		if p.Link != "" {
			md["link"] = map[string]any{"url": p.Link}
		}
		attrs["metadata"] = md
	}
	if p.RightsBegin != "" || p.RightsEnd != "" {
		attrs["rights"] = map[string]any{"begin": p.RightsBegin, "end": p.RightsEnd}
	}
	if !p.NoStreams {
		streams := make([]map[string]any, 0, len(p.Streams))
		for _, s := range p.Streams {
			versions := make([]map[string]any, 0, len(s.Versions))
			for _, v := range s.Versions {
				versions = append(versions, map[string]any{"code": v.Code, "label": v.Label, "shortLabel": v.ShortLabel})
			}
			streams = append(streams, map[string]any{"url": s.URL, "protocol": s.Protocol, "versions": versions})
		}
		attrs["streams"] = streams
	}
	return attrs
}
