package blocks

import (
	"bytes"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds how deeply columns may nest.
const DefaultMaxDepth = 8

// Decoder turns wire documents into Documents. The zero value is usable and
// applies DefaultMaxDepth without logging.
type Decoder struct {
	// MaxDepth is the deepest columns nesting accepted. A columns block
	// nested deeper is kept as passthrough.
	MaxDepth int
	// Logger receives a warning for each unknown or degraded block.
	Logger zerolog.Logger
}

var defaultDecoder = Decoder{MaxDepth: DefaultMaxDepth, Logger: zerolog.Nop()}

type decoder struct {
	depth    int
	maxDepth int
	log      zerolog.Logger
	issues   ValidationErrors
}

func (dc Decoder) newDecoder() *decoder {
	limit := dc.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	return &decoder{maxDepth: limit, log: dc.Logger}
}

func (d *decoder) nested() *decoder {
	return &decoder{depth: d.depth + 1, maxDepth: d.maxDepth, log: d.log}
}

var emptyObject = json.RawMessage(`{}`)

// Serialize encodes doc in the canonical wire form. The blocks array is
// always present and keeps authoring order.
func Serialize(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// Deserialize decodes a wire document with the default decoder.
func Deserialize(data []byte) (Document, ValidationErrors, error) {
	return defaultDecoder.Deserialize(data)
}

// Deserialize decodes data into a Document. The returned error wraps
// ErrMalformedDocument when the top level is not an object holding a blocks
// array. Block-level problems never fail the call: they are returned as
// ValidationErrors and the offending blocks are kept as passthrough.
func (dc Decoder) Deserialize(data []byte) (Document, ValidationErrors, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, nil, ErrMalformedDocument
	}
	value, dataType, _, err := jsonparser.Get(trimmed, "blocks")
	if err != nil || dataType != jsonparser.Array {
		if err != nil && dataType != jsonparser.NotExist {
			return Document{}, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return Document{}, nil, ErrMalformedDocument
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(value, &elems); err != nil {
		return Document{}, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	doc := Document{}
	if t, err := jsonparser.GetInt(trimmed, "time"); err == nil {
		doc.Time = t
	}
	if v, err := jsonparser.GetString(trimmed, "version"); err == nil {
		doc.Version = v
	}

	d := dc.newDecoder()
	if len(elems) > 0 {
		doc.Blocks = make([]Block, len(elems))
		for i, raw := range elems {
			doc.Blocks[i] = d.block(raw, fmt.Sprintf("blocks[%d]", i))
		}
	}
	return doc, d.issues, nil
}

type wireBlock struct {
	ID    string          `json:"id,omitempty"`
	Type  Type            `json:"type"`
	Data  json.RawMessage `json:"data"`
	Tunes Tunes           `json:"tunes,omitempty"`
}

// block decodes one wire element. It never fails: anything it cannot model
// is kept verbatim.
func (d *decoder) block(raw json.RawMessage, path string) Block {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		d.issues = append(d.issues, &ValidationError{
			Path: path,
			Err:  fmt.Errorf("%w: block is not an object", ErrInvalidPayload),
		})
		d.log.Warn().Str("path", path).Msg("block is not an object, keeping it verbatim")
		return Block{raw: cloneRaw(raw)}
	}

	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		d.issues = append(d.issues, &ValidationError{
			Path: path,
			Err:  fmt.Errorf("%w: %v", ErrInvalidPayload, err),
		})
		d.log.Warn().Err(err).Str("path", path).Msg("unreadable block envelope, keeping it verbatim")
		return Block{raw: cloneRaw(raw)}
	}

	var outer map[string]json.RawMessage
	for k, v := range obj {
		switch k {
		case "id", "type", "data", "tunes":
		default:
			if outer == nil {
				outer = make(map[string]json.RawMessage)
			}
			outer[k] = cloneRaw(v)
		}
	}
	tunes := w.Tunes
	if len(tunes) == 0 {
		tunes = nil
	}

	if !w.Type.Known() {
		d.log.Warn().Str("type", string(w.Type)).Str("path", path).Msg("unknown block variant, passing through")
		return Block{ID: w.ID, Type: w.Type, Data: Passthrough{Data: cloneRaw(w.Data)}, Tunes: tunes, outer: outer}
	}

	b, verr := d.typed(w.Type, w.Data, path)
	if verr != nil {
		d.issues = append(d.issues, verr)
		d.log.Warn().Err(verr).Str("type", string(w.Type)).Str("path", path).Msg("invalid block data, passing through")
		b = Block{Data: Passthrough{Data: cloneRaw(w.Data)}}
	}
	b.ID = w.ID
	b.Type = w.Type
	b.Tunes = tunes
	b.outer = outer

	if err := ValidateTunes(tunes); err != nil {
		verr := asValidationError(path, w.Type, err)
		d.issues = append(d.issues, verr)
		d.log.Warn().Err(err).Str("type", string(w.Type)).Str("path", path).Msg("invalid block tune ignored")
	}
	return b
}

// typed decodes data as the payload of a known variant.
func (d *decoder) typed(t Type, data json.RawMessage, path string) (Block, *ValidationError) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		data = emptyObject
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return Block{}, &ValidationError{
			Path: path,
			Type: t,
			Err:  fmt.Errorf("%w: data is not an object", ErrInvalidPayload),
		}
	}
	p, err := variants[t](data, d, path)
	if err != nil {
		return Block{}, asValidationError(path, t, err)
	}
	return Block{Type: t, Data: p, extra: splitExtra(p, obj)}, nil
}

// dataJSON returns the wire form of the block's data object.
func (b Block) dataJSON() (json.RawMessage, error) {
	switch p := b.Data.(type) {
	case nil:
		return emptyObject, nil
	case Passthrough:
		if len(p.Data) == 0 {
			return emptyObject, nil
		}
		return p.Data, nil
	}
	out, err := json.Marshal(normalizePayload(b.Data))
	if err != nil {
		return nil, err
	}
	if len(b.extra) == 0 {
		return out, nil
	}
	merged := make(map[string]json.RawMessage, len(b.extra)+8)
	for k, v := range b.extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (b Block) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	data, err := b.dataJSON()
	if err != nil {
		return nil, fmt.Errorf("encode %s block: %w", b.Type, err)
	}
	w := wireBlock{ID: b.ID, Type: b.Type, Data: data, Tunes: b.Tunes}
	if len(b.outer) == 0 {
		return json.Marshal(w)
	}
	enc, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(enc, &fields); err != nil {
		return nil, err
	}
	for k, v := range b.outer {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a single block. Invalid data degrades the block to
// passthrough instead of failing.
func (b *Block) UnmarshalJSON(data []byte) error {
	*b = defaultDecoder.newDecoder().block(cloneRaw(data), "")
	return nil
}

type wireDocument struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

func (d Document) MarshalJSON() ([]byte, error) {
	blocks := d.Blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return json.Marshal(wireDocument{Time: d.Time, Blocks: blocks, Version: d.Version})
}

// UnmarshalJSON decodes a document, dropping block-level validation errors.
// Use Deserialize to inspect them.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, _, err := Deserialize(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func (c Column) MarshalJSON() ([]byte, error) {
	blocks := c.Blocks
	if blocks == nil {
		blocks = []Block{}
	}
	return json.Marshal(struct {
		Blocks  []Block `json:"blocks"`
		Time    int64   `json:"time,omitempty"`
		Version string  `json:"version,omitempty"`
	}{blocks, c.Time, c.Version})
}
