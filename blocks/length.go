package blocks

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Length is a presentation size as authored: either a CSS length string
// ("50%", "auto", "320px") or a bare number meaning pixels. The authored form
// is kept so encoding reproduces the input.
type Length struct {
	value   string
	numeric bool
}

// CSS returns a length from a string value.
func CSS(v string) Length { return Length{value: v} }

// Px returns a numeric pixel length.
func Px(n float64) Length {
	return Length{value: strconv.FormatFloat(n, 'f', -1, 64), numeric: true}
}

// String returns the authored value without normalization.
func (l Length) String() string { return l.value }

// IsZero reports whether the length is unset.
func (l Length) IsZero() bool { return strings.TrimSpace(l.value) == "" }

// Normalize returns the CSS form of the length, or "" when unset.
func (l Length) Normalize() string {
	if l.numeric {
		return l.value + "px"
	}
	return NormalizeLength(l.value)
}

func (l *Length) clone() *Length {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// Resolve is Normalize for an optional length: nil means unset.
func (l *Length) Resolve() string {
	if l == nil {
		return ""
	}
	return l.Normalize()
}

// NormalizeLength canonicalizes a width/height value. A bare number becomes
// "<n>px", any other non-empty value passes through unchanged and an empty
// value returns "" meaning intrinsic sizing.
func NormalizeLength(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return v + "px"
	}
	return v
}

func (l Length) MarshalJSON() ([]byte, error) {
	if l.numeric {
		return []byte(l.value), nil
	}
	return json.Marshal(l.value)
}

func (l *Length) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*l = Length{}
		return nil
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = Length{value: v}
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("blocks: length must be a string or number, got %s", s)
	}
	*l = Length{value: s, numeric: true}
	return nil
}
