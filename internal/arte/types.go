// SPDX-License-Identifier: MIT

package arte

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// EMAC catalog documents. Only the fields the client reads are declared.

type pageResponse struct {
	Value *pageValue `json:"value"`
}

type pageValue struct {
	Zones []zone `json:"zones"`
}

func (p pageResponse) zones() []zone {
	if p.Value == nil {
		return nil
	}
	return p.Value.Zones
}

type zone struct {
	ID      string       `json:"id"`
	Code    zoneCode     `json:"code"`
	Title   string       `json:"title"`
	Content *zoneContent `json:"content"`
}

// inlineItems returns the zone's embedded items, or nil when the zone has no content block.
func (z zone) inlineItems() ([]item, bool) {
	if z.Content == nil || z.Content.Data == nil {
		return nil, false
	}
	return z.Content.Data, true
}

type zoneContent struct {
	Data       []item      `json:"data"`
	Pagination *pagination `json:"pagination"`
}

type zoneResponse struct {
	Value *zoneContent `json:"value"`
}

type pagination struct {
	Page       int `json:"page"`
	Pages      int `json:"pages"`
	TotalCount int `json:"totalCount"`
}

// lastPage returns the last page to fetch, capped at limit. A zone without
// pagination has one page.
func (p *pagination) lastPage(limit int) int {
	if p == nil || p.Pages <= 1 {
		return 1
	}
	if p.Pages > limit {
		return limit
	}
	return p.Pages
}

// zoneCode accepts the zone code as a string, a number or an object
// carrying "id" or "name".
type zoneCode string

func (c *zoneCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*c = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = zoneCode(s)
		return nil
	case b[0] == '{':
		var obj struct {
			ID   json.RawMessage `json:"id"`
			Name string          `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		var id zoneCode
		if len(obj.ID) > 0 {
			if err := id.UnmarshalJSON(obj.ID); err != nil {
				return err
			}
		}
		if id != "" {
			*c = id
		} else {
			*c = zoneCode(obj.Name)
		}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*c = zoneCode(n.String())
		return nil
	}
}

type item struct {
	ProgramID        string        `json:"programId"`
	Title            string        `json:"title"`
	Subtitle         string        `json:"subtitle"`
	ShortDescription string        `json:"shortDescription"`
	TeaserText       string        `json:"teaserText"`
	Description      string        `json:"description"`
	Duration         seconds       `json:"duration"`
	DurationLabel    string        `json:"durationLabel"`
	Genre            *genre        `json:"genre"`
	MainImage        *image        `json:"mainImage"`
	Availability     *availability `json:"availability"`
	URL              string        `json:"url"`
}

type genre struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

type image struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

type availability struct {
	HasVideoStreams *bool  `json:"hasVideoStreams"`
	Type            string `json:"type"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Label           string `json:"label"`
}

// seconds decodes a duration that may arrive as an integer, a float or a numeric string.
type seconds int

func (s *seconds) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		// Unreadable durations decode as zero.
		*s = 0
		return nil
	}
	*s = seconds(f)
	return nil
}

// Player v2 configuration document.

type configResponse struct {
	Data *configData `json:"data"`
}

type configData struct {
	ID         string            `json:"id"`
	Attributes *configAttributes `json:"attributes"`
}

func (r configResponse) attributes() *configAttributes {
	if r.Data == nil {
		return nil
	}
	return r.Data.Attributes
}

type configAttributes struct {
	Metadata *configMetadata `json:"metadata"`
	Rights   *configRights   `json:"rights"`
	Streams  []configStream  `json:"streams"`
}

type configMetadata struct {
	ProviderID  string `json:"providerId"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Duration    *struct {
		Seconds seconds `json:"seconds"`
	} `json:"duration"`
	Images []image `json:"images"`
	Link   *struct {
		URL string `json:"url"`
	} `json:"link"`
}

type configRights struct {
	Begin string `json:"begin"`
	End   string `json:"end"`
}

type configStream struct {
	URL      string          `json:"url"`
	Protocol string          `json:"protocol"`
	Versions []configVersion `json:"versions"`
}

type configVersion struct {
	Code       string `json:"code"`
	Label      string `json:"label"`
	ShortLabel string `json:"shortLabel"`
}
