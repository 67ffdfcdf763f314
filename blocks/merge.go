package blocks

import (
	"fmt"

	"github.com/goccy/go-json"
)

// MergeData returns b with patch merged into its data object. Keys map to
// their new values; a nil value removes the key. Known variants are
// validated again after the merge, unknown ones keep the merged data as
// passthrough.
func MergeData(b Block, patch map[string]any) (Block, error) {
	return defaultDecoder.MergeData(b, patch)
}

// MergeData is like the package level MergeData but honours the decoder's
// nesting limit.
func (dc Decoder) MergeData(b Block, patch map[string]any) (Block, error) {
	current, err := b.dataJSON()
	if err != nil {
		return b, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(current, &fields); err != nil || fields == nil {
		// data that is not an object is replaced wholesale by the patch.
		fields = map[string]json.RawMessage{}
	}
	for k, v := range patch {
		if v == nil {
			delete(fields, k)
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return b, fmt.Errorf("patch key %q: %w", k, err)
		}
		fields[k] = raw
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return b, err
	}

	out := b.Clone()
	out.Data = Passthrough{Data: merged}
	out.extra = nil
	out.raw = nil
	if !out.Type.Known() {
		return out, nil
	}
	validated, err := dc.Validate(out)
	if err != nil {
		return b, err
	}
	return validated, nil
}
