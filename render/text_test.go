package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkup(t *testing.T) {
	tests := map[string]string{
		"plain":                         "plain",
		"a <b>bold</b> move":            "a bold move",
		"fish &amp; chips":              "fish & chips",
		"line<br>break":                 "line\nbreak",
		`<a href="https://x">link</a>!`: "link!",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripMarkup(in), in)
	}
}

func TestPlainText(t *testing.T) {
	doc := decode(t, `{"blocks":[
		{"type":"header","data":{"text":"Title","level":1}},
		{"type":"paragraph","data":{"text":"Some <b>bold</b> text"}},
		{"type":"list","data":{"style":"ordered","items":["one","two"]}},
		{"type":"quote","data":{"text":"q","caption":"me"}},
		{"type":"image","data":{"url":"a.png","caption":"Pic"}},
		{"type":"spacer","data":{"height":10}},
		{"type":"delimiter","data":{}}
	]}`)

	assert.Equal(t,
		"Title\n\nSome bold text\n\n1. one\n2. two\n\n> q\n> -- me\n\nPic [a.png]\n\n* * *",
		PlainText(Render(doc)))
}

func TestPlainText_TableAlignsByDisplayWidth(t *testing.T) {
	doc := decode(t, `{"blocks":[{"type":"table","data":{"content":[["名前","x"],["ab"]]}}]}`)

	out := PlainText(Render(doc))
	assert.Equal(t, "| 名前 | x |\n| ab   |   |", out)
}

func TestAlignTable(t *testing.T) {
	lines := alignTable([][]string{{"h1", "header2"}, {"a"}}, true)
	require.Len(t, lines, 3)
	assert.Equal(t, "| h1  | header2 |", lines[0])
	assert.Equal(t, "| --- | ------- |", lines[1])
	assert.Equal(t, "| a   |         |", lines[2])

	assert.Nil(t, alignTable(nil, true))
}
