package editor

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectormag-cms/blocks"
)

func TestApply(t *testing.T) {
	s := newSession("a", "b", "c")
	header := blocks.NewBlock(blocks.Header{Text: "Title", Level: 1})

	err := s.Apply([]Op{
		{Op: OpInsert, Index: 0, Block: &header},
		{Op: OpRemove, Index: 2},
		{Op: OpMove, From: 2, To: 1},
		{Op: OpUpdate, Index: 2, Patch: map[string]any{"text": "A"}},
	})
	require.NoError(t, err)
	assert.True(t, s.Dirty())

	doc := s.ToSerializable()
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, blocks.Header{Text: "Title", Level: 1}, doc.Blocks[0].Data)
	assert.Equal(t, blocks.Paragraph{Text: "c"}, doc.Blocks[1].Data)
	assert.Equal(t, blocks.Paragraph{Text: "A"}, doc.Blocks[2].Data)
}

func TestApply_AllOrNothing(t *testing.T) {
	s := newSession("a", "b")
	before := s.ToSerializable()

	err := s.Apply([]Op{
		{Op: OpRemove, Index: 0},
		{Op: OpTune, Index: 0, Tune: blocks.TuneAlignment, Value: json.RawMessage(`{"alignment":"center"}`)},
		{Op: OpMove, From: 0, To: 5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, 2, opErr.Position)
	assert.Equal(t, OpMove, opErr.Op)

	assert.Equal(t, before, s.ToSerializable())
	assert.False(t, s.Dirty())
}

func TestApply_TuneOps(t *testing.T) {
	s := newSession("a")

	require.NoError(t, s.Apply([]Op{
		{Op: OpTune, Index: 0, Tune: blocks.TuneAlignment, Value: json.RawMessage(`{"alignment":"right"}`)},
	}))
	b, _ := s.Block(0)
	assert.Equal(t, "right", b.Tunes.Alignment())

	require.NoError(t, s.Apply([]Op{{Op: OpTune, Index: 0, Tune: blocks.TuneAlignment, Value: json.RawMessage(`null`)}}))
	b, _ = s.Block(0)
	assert.Nil(t, b.Tunes)
}

func TestApply_BadOps(t *testing.T) {
	tests := []struct {
		name string
		op   Op
	}{
		{"unknown kind", Op{Op: "explode"}},
		{"insert without block", Op{Op: OpInsert}},
		{"tune without name", Op{Op: OpTune, Index: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession("a")
			err := s.Apply([]Op{tt.op})
			assert.ErrorIs(t, err, ErrUnknownOp)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestOp_DecodesFromJSON(t *testing.T) {
	var ops []Op
	require.NoError(t, json.Unmarshal([]byte(`[
		{"op":"insert","index":1,"block":{"type":"list","data":{"items":["x"]}}},
		{"op":"update","index":0,"patch":{"text":"hello"}}
	]`), &ops))

	s := newSession("a")
	require.NoError(t, s.Apply(ops))
	doc := s.ToSerializable()
	assert.Equal(t, blocks.Paragraph{Text: "hello"}, doc.Blocks[0].Data)
	assert.Equal(t, blocks.List{Style: blocks.ListUnordered, Items: []string{"x"}}, doc.Blocks[1].Data)
}
