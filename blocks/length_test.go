package blocks

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLength(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", "50px"},
		{"50%", "50%"},
		{"", ""},
		{"   ", ""},
		{" 12.5 ", "12.5px"},
		{"auto", "auto"},
		{"320px", "320px"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLength(tt.in))
		})
	}
}

func TestLength_JSON(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		var l Length
		require.NoError(t, json.Unmarshal([]byte(`320`), &l))
		assert.Equal(t, Px(320), l)
		assert.Equal(t, "320px", l.Normalize())

		out, err := json.Marshal(l)
		require.NoError(t, err)
		assert.Equal(t, `320`, string(out))
	})

	t.Run("string", func(t *testing.T) {
		var l Length
		require.NoError(t, json.Unmarshal([]byte(`"320"`), &l))
		assert.Equal(t, CSS("320"), l)
		assert.Equal(t, "320px", l.Normalize())

		out, err := json.Marshal(l)
		require.NoError(t, err)
		assert.Equal(t, `"320"`, string(out))
	})

	t.Run("null", func(t *testing.T) {
		l := CSS("10%")
		require.NoError(t, json.Unmarshal([]byte(`null`), &l))
		assert.True(t, l.IsZero())
	})

	t.Run("rejects other kinds", func(t *testing.T) {
		var l Length
		assert.Error(t, json.Unmarshal([]byte(`true`), &l))
		assert.Error(t, json.Unmarshal([]byte(`{"w":1}`), &l))
	})
}

func TestLength_NilIsUnset(t *testing.T) {
	var l *Length
	assert.Equal(t, "", l.Resolve())
	assert.Nil(t, l.clone())
}
