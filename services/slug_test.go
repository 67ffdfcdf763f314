package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":          "hello-world",
		"Café Culture: Vol. 2": "cafe-culture-vol-2",
		"  spaced   out  ":     "spaced-out",
		"already-a-slug":       "already-a-slug",
		"snake_case stays":     "snake_case-stays",
		"--dash -- runs--":     "dash-runs",
		"!!!":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"post": true, "post-1": true}
	slug, err := uniqueSlug(context.Background(), "post", func(_ context.Context, s string) (bool, error) {
		return taken[s], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "post-2", slug)
}

func TestUniqueSlug_LookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := uniqueSlug(context.Background(), "post", func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}
