// Package render turns block documents into a tree of presentational nodes
// and writes that tree out as HTML, plain text or Markdown. Rendering holds
// no state between calls, so one Renderer may serve any number of callers.
package render

type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindFigure    Kind = "figure"
	KindList      Kind = "list"
	KindItem      Kind = "item"
	KindQuote     Kind = "quote"
	KindCode      Kind = "code"
	KindRaw       Kind = "raw"
	KindTable     Kind = "table"
	KindRow       Kind = "row"
	KindCell      Kind = "cell"
	KindBreak     Kind = "break"
	KindFrame     Kind = "frame"
	KindVideo     Kind = "video"
	KindLink      Kind = "link"
	KindGroup     Kind = "group"
	KindColumn    Kind = "column"
	KindSpacer    Kind = "spacer"
)

// Size is a resolved layout size in CSS units. Empty means intrinsic.
type Size struct {
	Width  string
	Height string
	// Cover crops the media to the box instead of stretching it.
	Cover bool
}

// Playback holds the flags of a video node.
type Playback struct {
	Autoplay bool
	Muted    bool
	Controls bool
}

// Node is one presentational element.
//
// Markup is trusted inline markup written out as is. Text is plain text and
// always escaped by the writers.
type Node struct {
	Kind     Kind
	Level    int
	Ordered  bool
	Header   bool
	Markup   string
	Text     string
	Caption  string
	Src      string
	Size     Size
	Align    string
	Classes  []string
	Playback Playback
	Children []Node
}
