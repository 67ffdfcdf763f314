package render

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

// PlainText writes nodes as readable text for feeds and excerpts. Inline
// markup is reduced to its text and tables are aligned by display width.
func PlainText(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := plain(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func plain(n Node) string {
	switch n.Kind {
	case KindParagraph, KindHeading, KindRaw:
		return StripMarkup(n.Markup)
	case KindFigure, KindFrame, KindVideo:
		if n.Caption != "" {
			return n.Caption + " [" + n.Src + "]"
		}
		return "[" + n.Src + "]"
	case KindList:
		lines := make([]string, len(n.Children))
		for i, item := range n.Children {
			lines[i] = listMarker(n.Ordered, i) + StripMarkup(item.Markup)
		}
		return strings.Join(lines, "\n")
	case KindQuote:
		s := "> " + StripMarkup(n.Markup)
		if n.Caption != "" {
			s += "\n> -- " + n.Caption
		}
		return s
	case KindCode:
		return n.Text
	case KindTable:
		return strings.Join(alignTable(cellText(n, StripMarkup), false), "\n")
	case KindBreak:
		return "* * *"
	case KindLink:
		return n.Text + " <" + n.Src + ">"
	case KindGroup:
		var parts []string
		for _, col := range n.Children {
			if s := PlainText(col.Children); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return ""
}

func listMarker(ordered bool, i int) string {
	if ordered {
		return strconv.Itoa(i+1) + ". "
	}
	return "- "
}

// StripMarkup returns the text content of inline markup with entities
// decoded. Line breaks become newlines.
func StripMarkup(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return markup
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

func cellText(table Node, conv func(string) string) [][]string {
	rows := make([][]string, len(table.Children))
	for i, row := range table.Children {
		rows[i] = make([]string, len(row.Children))
		for j, cell := range row.Children {
			rows[i][j] = strings.ReplaceAll(conv(cell.Markup), "\n", " ")
		}
	}
	return rows
}

// alignTable pads ragged rows to the widest row and pads each column to its
// widest cell by display width. With separator set a markdown header rule is
// written after the first row.
func alignTable(rows [][]string, separator bool) []string {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	for _, row := range rows {
		for j, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}
	if separator {
		for j := range widths {
			if widths[j] < 3 {
				widths[j] = 3
			}
		}
	}

	out := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		var sb strings.Builder
		sb.WriteString("|")
		for j := 0; j < cols; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}
			sb.WriteString(" " + content)
			if pad := widths[j] - runewidth.StringWidth(content); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
			sb.WriteString(" |")
		}
		out = append(out, sb.String())
		if separator && i == 0 {
			var rule strings.Builder
			rule.WriteString("|")
			for j := 0; j < cols; j++ {
				rule.WriteString(" " + strings.Repeat("-", widths[j]) + " |")
			}
			out = append(out, rule.String())
		}
	}
	return out
}
