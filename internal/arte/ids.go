// SPDX-License-Identifier: MIT

package arte

import "strings"

// Kind discriminates the identifier families used by the Arte API.
type Kind int

const (
	KindProgram    Kind = iota // a single playable program, e.g. 120387-000-A
	KindCollection             // a series or collection grouping, e.g. RC-019724
	KindLive                   // the reserved live channel identifier
)

const (
	// CollectionPrefix marks collection identifiers.
	CollectionPrefix = "RC-"
	// LiveProgramID is the reserved identifier of the live channel.
	LiveProgramID = "LIVE"
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindLive:
		return "live"
	default:
		return "program"
	}
}

// ID is a classified upstream identifier. The zero value is empty.
type ID struct {
	kind Kind
	raw  string
}

// ParseID classifies raw. Surrounding whitespace is ignored.
func ParseID(raw string) ID {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == LiveProgramID:
		return ID{kind: KindLive, raw: raw}
	case strings.HasPrefix(raw, CollectionPrefix):
		return ID{kind: KindCollection, raw: raw}
	default:
		return ID{kind: KindProgram, raw: raw}
	}
}

// LiveID returns the reserved live channel identifier.
func LiveID() ID {
	return ID{kind: KindLive, raw: LiveProgramID}
}

func (id ID) Kind() Kind         { return id.kind }
func (id ID) String() string     { return id.raw }
func (id ID) IsZero() bool       { return id.raw == "" }
func (id ID) IsLive() bool       { return id.kind == KindLive }
func (id ID) IsCollection() bool { return id.kind == KindCollection }
