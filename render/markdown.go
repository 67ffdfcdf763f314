package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/net/html"
)

// Markdown writes nodes as Markdown. Bold, italic, code and links in inline
// markup are converted, other tags are dropped. Raw blocks are kept as HTML.
func Markdown(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := markdown(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func markdown(n Node) string {
	switch n.Kind {
	case KindParagraph:
		return InlineMarkdown(n.Markup)
	case KindHeading:
		return strings.Repeat("#", n.Level) + " " + InlineMarkdown(n.Markup)
	case KindFigure:
		return "![" + n.Caption + "](" + n.Src + ")"
	case KindList:
		lines := make([]string, len(n.Children))
		for i, item := range n.Children {
			lines[i] = listMarker(n.Ordered, i) + InlineMarkdown(item.Markup)
		}
		return strings.Join(lines, "\n")
	case KindQuote:
		lines := strings.Split(InlineMarkdown(n.Markup), "\n")
		for i := range lines {
			lines[i] = "> " + lines[i]
		}
		if n.Caption != "" {
			lines = append(lines, ">", "> -- "+n.Caption)
		}
		return strings.Join(lines, "\n")
	case KindCode:
		fence := "```"
		for strings.Contains(n.Text, fence) {
			fence += "`"
		}
		return fence + "\n" + n.Text + "\n" + fence
	case KindRaw:
		return n.Markup
	case KindTable:
		rows := cellText(n, func(s string) string {
			return strings.ReplaceAll(InlineMarkdown(s), "|", `\|`)
		})
		if len(rows) == 0 {
			return ""
		}
		if !n.Header {
			// markdown tables always have a header row.
			rows = append([][]string{make([]string, len(rows[0]))}, rows...)
		}
		return strings.Join(alignTable(rows, true), "\n")
	case KindBreak:
		return "---"
	case KindFrame, KindVideo:
		label := n.Caption
		if label == "" {
			label = n.Src
		}
		return "[" + label + "](" + n.Src + ")"
	case KindLink:
		s := "[" + n.Text + "](" + n.Src + ")"
		if n.Caption != "" {
			s += "  \n" + n.Caption
		}
		return s
	case KindGroup:
		var parts []string
		for _, col := range n.Children {
			if s := Markdown(col.Children); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n\n")
	}
	return ""
}

// InlineMarkdown converts editor inline markup to Markdown.
func InlineMarkdown(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return markup
	}
	var b strings.Builder
	var hrefs []string
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "b", "strong":
				b.WriteString("**")
			case "i", "em":
				b.WriteString("_")
			case "code":
				b.WriteString("`")
			case "br":
				b.WriteString("  \n")
			case "a":
				if tt == html.EndTagToken {
					if len(hrefs) > 0 {
						b.WriteString("](" + hrefs[len(hrefs)-1] + ")")
						hrefs = hrefs[:len(hrefs)-1]
					}
					continue
				}
				href := ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
				b.WriteString("[")
				hrefs = append(hrefs, href)
			}
		}
	}
}

// FrontMatter is the metadata written ahead of an exported article.
type FrontMatter struct {
	Title       string     `toml:"title"`
	Slug        string     `toml:"slug"`
	Description string     `toml:"description,omitempty"`
	Date        *time.Time `toml:"date,omitempty"`
	Draft       bool       `toml:"draft"`
	Author      string     `toml:"author,omitempty"`
	Categories  []string   `toml:"categories,omitempty"`
	Tags        []string   `toml:"tags,omitempty"`
	Cover       string     `toml:"cover,omitempty"`
	ReadTime    int        `toml:"readTime,omitempty"`
}

// MarkdownExport writes a static-site page: TOML front matter between +++
// fences followed by the Markdown body.
func MarkdownExport(meta FrontMatter, nodes []Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("+++\n")
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString("+++\n")

	if body := Markdown(nodes); body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// ParseExport splits an exported page back into front matter and body.
func ParseExport(page []byte) (FrontMatter, string, error) {
	var meta FrontMatter
	parts := strings.SplitN(string(page), "+++", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) != "" {
		return meta, "", fmt.Errorf("missing front matter fences")
	}
	if err := toml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return meta, "", fmt.Errorf("decode front matter: %w", err)
	}
	return meta, strings.TrimSpace(parts[2]), nil
}
