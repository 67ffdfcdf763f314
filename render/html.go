package render

import (
	"html"
	"strconv"
	"strings"
)

// HTML writes nodes as an HTML fragment. Markup fields are emitted verbatim,
// everything else is escaped.
func HTML(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		writeHTML(&b, n)
	}
	return b.String()
}

type style []string

func (s style) add(prop, value string) style {
	if value == "" {
		return s
	}
	return append(s, prop+":"+value)
}

func (s style) attr() string {
	if len(s) == 0 {
		return ""
	}
	return ` style="` + html.EscapeString(strings.Join(s, ";")) + `"`
}

func classAttr(classes ...string) string {
	var kept []string
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return ` class="` + html.EscapeString(strings.Join(kept, " ")) + `"`
}

func alignStyle(align string) string {
	return style(nil).add("text-align", align).attr()
}

func writeHTML(b *strings.Builder, n Node) {
	switch n.Kind {
	case KindParagraph:
		b.WriteString("<p" + alignStyle(n.Align) + ">" + n.Markup + "</p>")

	case KindHeading:
		tag := "h" + strconv.Itoa(n.Level)
		b.WriteString("<" + tag + alignStyle(n.Align) + ">" + n.Markup + "</" + tag + ">")

	case KindFigure:
		box := style(nil).
			add("width", n.Size.Width).
			add("height", orAuto(n.Size.Height)).
			add("margin-left", "auto").
			add("margin-right", "auto").
			add("display", "block").
			add("max-width", "100%")
		img := style(nil).add("width", "100%")
		if n.Size.Cover {
			img = img.add("height", "100%").add("object-fit", "cover")
		} else {
			img = img.add("height", "auto")
		}
		b.WriteString("<figure" + classAttr(n.Classes...) + box.attr() + ">")
		b.WriteString(`<img src="` + html.EscapeString(n.Src) + `" alt="` + html.EscapeString(n.Caption) + `"` + img.attr() + ">")
		writeCaption(b, n.Caption)
		b.WriteString("</figure>")

	case KindList:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		b.WriteString("<" + tag + alignStyle(n.Align) + ">")
		for _, item := range n.Children {
			b.WriteString("<li>" + item.Markup + "</li>")
		}
		b.WriteString("</" + tag + ">")

	case KindQuote:
		b.WriteString("<blockquote" + alignStyle(n.Align) + "><p>" + n.Markup + "</p>")
		if n.Caption != "" {
			b.WriteString("<cite>" + html.EscapeString(n.Caption) + "</cite>")
		}
		b.WriteString("</blockquote>")

	case KindCode:
		b.WriteString("<pre><code>" + html.EscapeString(n.Text) + "</code></pre>")

	case KindRaw:
		b.WriteString("<div" + classAttr("raw") + ">" + n.Markup + "</div>")

	case KindTable:
		b.WriteString("<table>")
		rows := n.Children
		if len(rows) > 0 && rows[0].Header {
			b.WriteString("<thead>")
			writeRow(b, rows[0])
			b.WriteString("</thead>")
			rows = rows[1:]
		}
		b.WriteString("<tbody>")
		for _, row := range rows {
			writeRow(b, row)
		}
		b.WriteString("</tbody></table>")

	case KindBreak:
		b.WriteString(`<div class="delimiter" role="separator">* * *</div>`)

	case KindFrame:
		b.WriteString("<figure" + classAttr("embed") + ">")
		b.WriteString(`<iframe src="` + html.EscapeString(n.Src) + `"`)
		if w := strings.TrimSuffix(n.Size.Width, "px"); w != "" {
			b.WriteString(` width="` + html.EscapeString(w) + `"`)
		}
		if h := strings.TrimSuffix(n.Size.Height, "px"); h != "" {
			b.WriteString(` height="` + html.EscapeString(h) + `"`)
		}
		b.WriteString(` frameborder="0" allowfullscreen></iframe>`)
		writeCaption(b, n.Caption)
		b.WriteString("</figure>")

	case KindVideo:
		b.WriteString("<figure" + classAttr("video") + ">")
		b.WriteString(`<video src="` + html.EscapeString(n.Src) + `"`)
		if n.Playback.Controls {
			b.WriteString(" controls")
		}
		if n.Playback.Autoplay {
			b.WriteString(" autoplay")
		}
		if n.Playback.Muted {
			b.WriteString(" muted")
		}
		b.WriteString("></video>")
		writeCaption(b, n.Caption)
		b.WriteString("</figure>")

	case KindLink:
		b.WriteString(`<a class="link-card" href="` + html.EscapeString(n.Src) + `" rel="noopener noreferrer" target="_blank">`)
		b.WriteString("<strong>" + html.EscapeString(n.Text) + "</strong>")
		if n.Caption != "" {
			b.WriteString("<span>" + html.EscapeString(n.Caption) + "</span>")
		}
		b.WriteString("</a>")

	case KindGroup:
		grid := style(nil).
			add("display", "grid").
			add("grid-template-columns", "repeat("+strconv.Itoa(len(n.Children))+", minmax(0, 1fr))").
			add("gap", "2rem")
		b.WriteString("<div" + classAttr("columns") + grid.attr() + ">")
		for _, col := range n.Children {
			b.WriteString(`<div class="column">`)
			for _, child := range col.Children {
				writeHTML(b, child)
			}
			b.WriteString("</div>")
		}
		b.WriteString("</div>")

	case KindSpacer:
		b.WriteString("<div" + style(nil).add("height", n.Size.Height).attr() + ` aria-hidden="true"></div>`)
	}
}

func writeRow(b *strings.Builder, row Node) {
	b.WriteString("<tr>")
	for _, cell := range row.Children {
		tag := "td"
		if cell.Header {
			tag = "th"
		}
		b.WriteString("<" + tag + ">" + cell.Markup + "</" + tag + ">")
	}
	b.WriteString("</tr>")
}

func writeCaption(b *strings.Builder, caption string) {
	if caption != "" {
		b.WriteString("<figcaption>" + html.EscapeString(caption) + "</figcaption>")
	}
}

func orAuto(v string) string {
	if v == "" {
		return "auto"
	}
	return v
}
