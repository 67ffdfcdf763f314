// Package blocks defines the rich content block model: the canonical shape of
// every block variant, validation and defaulting of block payloads, and the
// lossless codec between in-memory documents and their JSON wire form.
//
// A Document is an ordered list of Blocks. Each Block is a tagged variant:
// Type selects the payload type stored in Data. Blocks whose type is not
// recognised, or whose payload failed validation, carry a Passthrough payload
// that keeps the original JSON bytes so nothing is lost on a round-trip.
package blocks

import (
	"github.com/goccy/go-json"
)

// Type is the variant tag of a block.
type Type string

const (
	TypeParagraph Type = "paragraph"
	TypeHeader    Type = "header"
	TypeImage     Type = "image"
	TypeList      Type = "list"
	TypeQuote     Type = "quote"
	TypeCode      Type = "code"
	TypeLink      Type = "link"
	TypeLinkTool  Type = "linkTool"
	TypeRaw       Type = "raw"
	TypeVideo     Type = "video"
	TypeEmbed     Type = "embed"
	TypeDelimiter Type = "delimiter"
	TypeTable     Type = "table"
	TypeColumns   Type = "columns"
	TypeSpacer    Type = "spacer"
)

// Known reports whether t is a variant this package models.
func (t Type) Known() bool {
	_, ok := variants[t]
	return ok
}

// Payload is the variant specific data of a block. The set of
// implementations is closed: the typed payloads in this package plus
// Passthrough.
type Payload interface {
	variant() Type
}

// Passthrough holds the untouched data of a block that is not modelled,
// either because its type is unknown or because its data failed validation.
type Passthrough struct {
	Data json.RawMessage
}

func (Passthrough) variant() Type { return "" }

// Block is one typed unit of content.
type Block struct {
	ID    string
	Type  Type
	Data  Payload
	Tunes Tunes

	// extra keeps data keys a typed payload does not model.
	extra map[string]json.RawMessage
	// outer keeps block-level keys other than id, type, data and tunes.
	outer map[string]json.RawMessage
	// raw is set when the wire element was not a block object at all.
	raw json.RawMessage
}

// NewBlock returns a block of the payload's own type with the defaults the
// decoder would apply already filled in.
func NewBlock(p Payload) Block {
	return Block{Type: p.variant(), Data: normalizePayload(p)}
}

// IsPassthrough reports whether the block carries untyped data.
func (b Block) IsPassthrough() bool {
	if b.Data == nil {
		return true
	}
	_, ok := b.Data.(Passthrough)
	return ok
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	out.Tunes = b.Tunes.clone()
	out.extra = cloneRawMap(b.extra)
	out.outer = cloneRawMap(b.outer)
	out.raw = cloneRaw(b.raw)
	out.Data = clonePayload(b.Data)
	return out
}

// Document is the ordered sequence of blocks forming an article body. Time
// and Version are carried through from the block editor when present.
type Document struct {
	Time    int64
	Blocks  []Block
	Version string
}

// Len returns the number of top-level blocks.
func (d Document) Len() int { return len(d.Blocks) }

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Time: d.Time, Version: d.Version}
	if d.Blocks != nil {
		out.Blocks = cloneBlocks(d.Blocks)
	}
	return out
}

func cloneBlocks(in []Block) []Block {
	out := make([]Block, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	out := make(json.RawMessage, len(r))
	copy(out, r)
	return out
}

func cloneRawMap(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = cloneRaw(v)
	}
	return out
}
