package blocks

import (
	"github.com/goccy/go-json"
)

// Tune names understood by the renderer. Any other tune is kept verbatim.
const (
	TuneImage     = "imageTune"
	TuneAlignment = "alignment"
)

// Tunes maps a tune name to its settings. Tunes only change presentation.
type Tunes map[string]json.RawMessage

// ImageTune overrides the layout size of an image block.
type ImageTune struct {
	Width  *Length `json:"width,omitempty"`
	Height *Length `json:"height,omitempty"`
}

// AlignmentTune sets the text alignment of text-like blocks.
type AlignmentTune struct {
	Alignment string `json:"alignment" validate:"omitempty,oneof=left center right justify"`
}

// Image returns the image tune, or a zero value when absent or unreadable.
func (t Tunes) Image() ImageTune {
	var it ImageTune
	if raw, ok := t[TuneImage]; ok {
		if err := json.Unmarshal(raw, &it); err != nil {
			return ImageTune{}
		}
	}
	return it
}

// Alignment returns the alignment tune value, or "".
func (t Tunes) Alignment() string {
	var at AlignmentTune
	if raw, ok := t[TuneAlignment]; ok {
		if err := json.Unmarshal(raw, &at); err != nil {
			return ""
		}
		if validate.Struct(at) != nil {
			return ""
		}
	}
	return at.Alignment
}

// With returns a copy of t with name set to the JSON encoding of v.
func (t Tunes) With(name string, v any) (Tunes, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := t.clone()
	if out == nil {
		out = Tunes{}
	}
	out[name] = raw
	return out, nil
}

// Without returns a copy of t with name removed.
func (t Tunes) Without(name string) Tunes {
	out := t.clone()
	delete(out, name)
	if len(out) == 0 {
		return nil
	}
	return out
}

func (t Tunes) clone() Tunes {
	if t == nil {
		return nil
	}
	out := make(Tunes, len(t))
	for k, v := range t {
		out[k] = cloneRaw(v)
	}
	return out
}
