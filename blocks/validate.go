package blocks

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/go-playground/validator.v9"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(imageSourceRequired, Image{})
	v.RegisterStructValidation(embedSourceRequired, Embed{})
	return v
}

func imageSourceRequired(sl validator.StructLevel) {
	img := sl.Current().Interface().(Image)
	if img.Source() == "" {
		sl.ReportError(img.URL, "url", "URL", "required", "")
	}
}

func embedSourceRequired(sl validator.StructLevel) {
	e := sl.Current().Interface().(Embed)
	if e.Player() == "" {
		sl.ReportError(e.Embed, "embed", "Embed", "required_without", "url")
	}
}

type decodeFunc func(raw []byte, d *decoder, path string) (Payload, error)

var variants = map[Type]decodeFunc{
	TypeParagraph: decodeAs[Paragraph],
	TypeHeader:    decodeAs[Header],
	TypeList:      decodeAs[List],
	TypeQuote:     decodeAs[Quote],
	TypeCode:      decodeAs[Code],
	TypeRaw:       decodeAs[Raw],
	TypeImage:     decodeAs[Image],
	TypeVideo:     decodeAs[Video],
	TypeEmbed:     decodeAs[Embed],
	TypeLink:      decodeAs[Link],
	TypeLinkTool:  decodeAs[Link],
	TypeTable:     decodeAs[Table],
	TypeDelimiter: decodeAs[Delimiter],
	TypeSpacer:    decodeAs[Spacer],
}

func init() {
	// columns recurse through the decoder.
	variants[TypeColumns] = decodeColumns
}

func decodeAs[T Payload](raw []byte, _ *decoder, _ string) (Payload, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if d, ok := any(&v).(defaulter); ok {
		d.applyDefaults()
	}
	if err := validate.Struct(v); err != nil {
		return nil, err
	}
	return v, nil
}

type columnWire struct {
	Blocks  []json.RawMessage `json:"blocks"`
	Time    int64             `json:"time,omitempty"`
	Version string            `json:"version,omitempty"`
}

func decodeColumns(raw []byte, d *decoder, path string) (Payload, error) {
	var wire struct {
		Cols []columnWire `json:"cols"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	if wire.Cols == nil {
		return nil, fieldError("cols", "required")
	}
	if d.depth+1 > d.maxDepth {
		return nil, ErrTooDeep
	}
	child := d.nested()
	cols := make([]Column, len(wire.Cols))
	for i, c := range wire.Cols {
		cols[i] = Column{Time: c.Time, Version: c.Version}
		if len(c.Blocks) == 0 {
			continue
		}
		cols[i].Blocks = make([]Block, len(c.Blocks))
		for j, rb := range c.Blocks {
			cols[i].Blocks[j] = child.block(rb, fmt.Sprintf("%s.cols[%d].blocks[%d]", path, i, j))
		}
	}
	d.issues = append(d.issues, child.issues...)
	return Columns{Cols: cols}, nil
}

func fieldError(field, tag string) error {
	return fmt.Errorf("%w: %s is %s", ErrInvalidPayload, field, tag)
}

// asValidationError turns a decode or validator error into a ValidationError.
func asValidationError(path string, t Type, err error) *ValidationError {
	ve := &ValidationError{Path: path, Type: t}
	var fes validator.ValidationErrors
	switch {
	case errors.As(err, &fes) && len(fes) > 0:
		ve.Field = fes[0].Field()
		ve.Err = fmt.Errorf("%w: failed on %q", ErrInvalidPayload, fes[0].Tag())
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrTooDeep), errors.Is(err, ErrInvalidTune):
		ve.Err = err
	default:
		ve.Err = fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return ve
}

var knownKeys sync.Map // reflect.Type -> map[string]struct{}

func jsonKeys(t reflect.Type) map[string]struct{} {
	if cached, ok := knownKeys.Load(t); ok {
		return cached.(map[string]struct{})
	}
	keys := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	knownKeys.Store(t, keys)
	return keys
}

// splitExtra returns the keys of obj that the payload type does not model.
func splitExtra(p Payload, obj map[string]json.RawMessage) map[string]json.RawMessage {
	known := jsonKeys(reflect.TypeOf(p))
	var extra map[string]json.RawMessage
	for k, v := range obj {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = v
	}
	return extra
}

// ValidateTunes checks the settings of the tunes this package understands.
// Other tunes are not inspected.
func ValidateTunes(t Tunes) error {
	if raw, ok := t[TuneImage]; ok {
		var it ImageTune
		if err := json.Unmarshal(raw, &it); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidTune, TuneImage, err)
		}
	}
	if raw, ok := t[TuneAlignment]; ok {
		var at AlignmentTune
		if err := json.Unmarshal(raw, &at); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidTune, TuneAlignment, err)
		}
		if err := validate.Struct(at); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidTune, TuneAlignment, err)
		}
	}
	return nil
}

// Validate checks a block against its variant's shape and returns the
// normalized block with optional fields defaulted. Blocks of unknown type are
// returned unchanged. A known block carrying passthrough data is re-decoded,
// so Validate also upgrades raw data into its typed payload.
func Validate(b Block) (Block, error) {
	return defaultDecoder.Validate(b)
}

// Validate is like the package level Validate but honours the decoder's
// nesting limit.
func (dc Decoder) Validate(b Block) (Block, error) {
	if !b.Type.Known() {
		return b, nil
	}
	raw, err := b.dataJSON()
	if err != nil {
		return b, asValidationError("", b.Type, err)
	}
	d := dc.newDecoder()
	out, verr := d.typed(b.Type, raw, "")
	if verr != nil {
		return b, verr
	}
	if len(d.issues) > 0 {
		return b, d.issues[0]
	}
	if err := ValidateTunes(b.Tunes); err != nil {
		return b, asValidationError("", b.Type, err)
	}
	out.ID = b.ID
	out.Type = b.Type
	out.Tunes = b.Tunes.clone()
	return out, nil
}
