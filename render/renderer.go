package render

import (
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"vectormag-cms/blocks"
)

// Renderer maps documents to nodes. The zero value renders with
// blocks.DefaultMaxDepth and does not log.
type Renderer struct {
	// MaxDepth is the deepest columns nesting rendered. Deeper groups are
	// skipped.
	MaxDepth int
	Logger   zerolog.Logger
}

// Render renders doc with a zero Renderer.
func Render(doc blocks.Document) []Node {
	return Renderer{}.Render(doc)
}

// Render maps each block of doc, in order, to its node. Unknown and
// passthrough blocks produce nothing and never affect their siblings.
func (r Renderer) Render(doc blocks.Document) []Node {
	return r.blocks(doc.Blocks, 0)
}

func (r Renderer) maxDepth() int {
	if r.MaxDepth <= 0 {
		return blocks.DefaultMaxDepth
	}
	return r.MaxDepth
}

func (r Renderer) blocks(list []blocks.Block, depth int) []Node {
	nodes := make([]Node, 0, len(list))
	for i, b := range list {
		if n, ok := r.block(b, i, depth); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (r Renderer) block(b blocks.Block, index, depth int) (Node, bool) {
	if b.IsPassthrough() {
		msg := "unknown block variant skipped"
		if b.Type.Known() {
			msg = "invalid block skipped"
		}
		r.Logger.Warn().Str("type", string(b.Type)).Int("index", index).Int("depth", depth).Msg(msg)
		return Node{}, false
	}

	align := b.Tunes.Alignment()

	switch p := b.Data.(type) {
	case blocks.Paragraph:
		return Node{Kind: KindParagraph, Markup: p.Text, Align: align}, true

	case blocks.Header:
		return Node{Kind: KindHeading, Level: headingLevel(p.Level), Markup: p.Text, Align: align}, true

	case blocks.Image:
		n := Node{
			Kind:    KindFigure,
			Src:     p.Source(),
			Caption: p.Caption,
			Size:    ImageSize(p, b.Tunes),
		}
		if p.WithBorder {
			n.Classes = append(n.Classes, "with-border")
		}
		if p.WithBackground {
			n.Classes = append(n.Classes, "with-background")
		}
		if p.Stretched {
			n.Classes = append(n.Classes, "stretched")
		}
		return n, true

	case blocks.List:
		n := Node{Kind: KindList, Ordered: p.Style == blocks.ListOrdered, Align: align}
		n.Children = make([]Node, len(p.Items))
		for i, item := range p.Items {
			n.Children[i] = Node{Kind: KindItem, Markup: item}
		}
		return n, true

	case blocks.Quote:
		if align == "" {
			align = p.Alignment
		}
		return Node{Kind: KindQuote, Markup: p.Text, Caption: p.Caption, Align: align}, true

	case blocks.Code:
		return Node{Kind: KindCode, Text: p.Code}, true

	case blocks.Raw:
		return Node{Kind: KindRaw, Markup: p.HTML}, true

	case blocks.Table:
		n := Node{Kind: KindTable, Header: p.WithHeadings}
		n.Children = make([]Node, len(p.Content))
		for i, row := range p.Content {
			cells := make([]Node, len(row))
			for j, cell := range row {
				cells[j] = Node{Kind: KindCell, Markup: cell, Header: p.WithHeadings && i == 0}
			}
			n.Children[i] = Node{Kind: KindRow, Header: p.WithHeadings && i == 0, Children: cells}
		}
		return n, true

	case blocks.Delimiter:
		return Node{Kind: KindBreak}, true

	case blocks.Embed:
		n := Node{Kind: KindFrame, Src: EmbedURL(p.Player()), Caption: p.Caption}
		if p.Width > 0 {
			n.Size.Width = strconv.Itoa(p.Width) + "px"
		}
		if p.Height > 0 {
			n.Size.Height = strconv.Itoa(p.Height) + "px"
		}
		return n, true

	case blocks.Video:
		if player := EmbedURL(p.URL); player != p.URL {
			return Node{Kind: KindFrame, Src: player, Caption: p.Caption}, true
		}
		return Node{
			Kind:     KindVideo,
			Src:      p.URL,
			Caption:  p.Caption,
			Playback: Playback{Autoplay: p.Autoplay, Muted: p.Muted, Controls: p.ShowControls()},
		}, true

	case blocks.Link:
		n := Node{Kind: KindLink, Src: p.Link, Text: p.Link}
		if p.Meta != nil {
			if p.Meta.Title != "" {
				n.Text = p.Meta.Title
			}
			n.Caption = p.Meta.Description
		}
		return n, true

	case blocks.Spacer:
		h := p.Height
		if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			h = blocks.DefaultSpacerHeight
		}
		return Node{Kind: KindSpacer, Size: Size{Height: strconv.FormatFloat(h, 'f', -1, 64) + "px"}}, true

	case blocks.Columns:
		if depth+1 > r.maxDepth() {
			r.Logger.Warn().Int("index", index).Int("depth", depth).Msg("columns nested too deeply, skipped")
			return Node{}, false
		}
		n := Node{Kind: KindGroup, Children: make([]Node, len(p.Cols))}
		for i, col := range p.Cols {
			n.Children[i] = Node{Kind: KindColumn, Children: r.blocks(col.Blocks, depth+1)}
		}
		return n, true
	}

	r.Logger.Warn().Str("type", string(b.Type)).Int("index", index).Msg("block without renderer skipped")
	return Node{}, false
}

func headingLevel(level int) int {
	switch {
	case level == 0:
		return 2
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}
