package blocks

import (
	"strings"

	"golang.org/x/net/html"
)

// walkLimit caps recursion when walking documents that were built in memory
// and never went through a Decoder.
const walkLimit = 64

// Walk calls fn for every block in reading order, descending into columns.
// depth is 0 for top-level blocks. Walking stops early when fn returns false.
func Walk(blocks []Block, fn func(b Block, depth int) bool) {
	walk(blocks, 0, fn)
}

func walk(blocks []Block, depth int, fn func(Block, int) bool) bool {
	if depth > walkLimit {
		return true
	}
	for _, b := range blocks {
		if !fn(b, depth) {
			return false
		}
		cols, ok := b.Data.(Columns)
		if !ok {
			continue
		}
		for _, c := range cols.Cols {
			if !walk(c.Blocks, depth+1, fn) {
				return false
			}
		}
	}
	return true
}

// WordCount counts whitespace separated words in the text of every paragraph
// and header block, including those nested in columns. Markup is stripped
// first.
func WordCount(blocks []Block) int {
	n := 0
	Walk(blocks, func(b Block, _ int) bool {
		switch p := b.Data.(type) {
		case Paragraph:
			n += countWords(p.Text)
		case Header:
			n += countWords(p.Text)
		}
		return true
	})
	return n
}

// inlineTags do not separate words: "<b>qu</b>ick" is one word.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "em": true, "i": true,
	"kbd": true, "mark": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "u": true,
}

func countWords(markup string) int {
	if !strings.ContainsAny(markup, "<&") {
		return len(strings.Fields(markup))
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return len(strings.Fields(b.String()))
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); !inlineTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// ReadTime estimates reading minutes at wpm words per minute. Any non-empty
// text takes at least a minute.
func ReadTime(words, wpm int) int {
	if words <= 0 {
		return 0
	}
	if wpm <= 0 {
		wpm = 200
	}
	return (words + wpm - 1) / wpm
}
