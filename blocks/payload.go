package blocks

// Paragraph text may contain inline markup produced by the editor.
type Paragraph struct {
	Text string `json:"text"`
}

// Header level is clamped into 1..6 when rendered.
type Header struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

const (
	ListOrdered   = "ordered"
	ListUnordered = "unordered"
)

type List struct {
	Style string   `json:"style" validate:"omitempty,oneof=ordered unordered"`
	Items []string `json:"items" validate:"required"`
}

type Quote struct {
	Text      string `json:"text"`
	Caption   string `json:"caption,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

type Code struct {
	Code string `json:"code"`
}

// Raw markup is trusted and rendered verbatim.
type Raw struct {
	HTML string `json:"html"`
}

// File is an uploaded asset reference.
type File struct {
	URL string `json:"url"`
}

type Image struct {
	URL            string  `json:"url,omitempty"`
	File           *File   `json:"file,omitempty"`
	Caption        string  `json:"caption,omitempty"`
	WithBorder     bool    `json:"withBorder"`
	Stretched      bool    `json:"stretched"`
	WithBackground bool    `json:"withBackground"`
	Width          *Length `json:"width,omitempty"`
	Height         *Length `json:"height,omitempty"`
}

// Source returns the uploaded file URL, falling back to the plain URL.
func (i Image) Source() string {
	if i.File != nil && i.File.URL != "" {
		return i.File.URL
	}
	return i.URL
}

type Video struct {
	URL      string `json:"url" validate:"required"`
	Caption  string `json:"caption,omitempty"`
	Autoplay bool   `json:"autoplay,omitempty"`
	Muted    bool   `json:"muted,omitempty"`
	// nil shows controls; only an explicit false hides them.
	Controls *bool `json:"controls,omitempty"`
}

// ShowControls reports whether the player should render its controls.
func (v Video) ShowControls() bool {
	return v.Controls == nil || *v.Controls
}

// Embed needs either a player URL in Embed or a page URL in URL.
type Embed struct {
	Service string `json:"service,omitempty"`
	Source  string `json:"source,omitempty"`
	Embed   string `json:"embed,omitempty"`
	URL     string `json:"url,omitempty"`
	Width   int    `json:"width,omitempty" validate:"min=0"`
	Height  int    `json:"height,omitempty" validate:"min=0"`
	Caption string `json:"caption,omitempty"`
}

// Player returns the player URL, falling back to the page URL.
func (e Embed) Player() string {
	if e.Embed != "" {
		return e.Embed
	}
	return e.URL
}

type LinkMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       *File  `json:"image,omitempty"`
}

type Link struct {
	Link string    `json:"link" validate:"required"`
	Meta *LinkMeta `json:"meta,omitempty"`
}

// Table rows are not required to have equal length.
type Table struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content" validate:"required"`
}

type Delimiter struct{}

// DefaultSpacerHeight is used when a spacer has no usable height.
const DefaultSpacerHeight = 20

// Spacer height is in pixels.
type Spacer struct {
	Height float64 `json:"height" validate:"min=0"`
}

// Column holds a nested block list.
type Column struct {
	Blocks  []Block `json:"blocks"`
	Time    int64   `json:"time,omitempty"`
	Version string  `json:"version,omitempty"`
}

type Columns struct {
	Cols []Column `json:"cols" validate:"required"`
}

func (Paragraph) variant() Type { return TypeParagraph }
func (Header) variant() Type    { return TypeHeader }
func (List) variant() Type      { return TypeList }
func (Quote) variant() Type     { return TypeQuote }
func (Code) variant() Type      { return TypeCode }
func (Raw) variant() Type       { return TypeRaw }
func (Image) variant() Type     { return TypeImage }
func (Video) variant() Type     { return TypeVideo }
func (Embed) variant() Type     { return TypeEmbed }
func (Link) variant() Type      { return TypeLink }
func (Table) variant() Type     { return TypeTable }
func (Delimiter) variant() Type { return TypeDelimiter }
func (Spacer) variant() Type    { return TypeSpacer }
func (Columns) variant() Type   { return TypeColumns }

type defaulter interface {
	applyDefaults()
}

func (h *Header) applyDefaults() {
	if h.Level == 0 {
		h.Level = 2
	}
}

func (l *List) applyDefaults() {
	if l.Style == "" {
		l.Style = ListUnordered
	}
}

func (s *Spacer) applyDefaults() {
	if s.Height == 0 {
		s.Height = DefaultSpacerHeight
	}
}

// normalizePayload fills defaults and replaces nil required lists with empty
// ones, so a payload built in memory equals the one decoded from its wire
// form.
func normalizePayload(p Payload) Payload {
	switch v := p.(type) {
	case Header:
		v.applyDefaults()
		return v
	case List:
		v.applyDefaults()
		if v.Items == nil {
			v.Items = []string{}
		}
		return v
	case Spacer:
		v.applyDefaults()
		return v
	case Table:
		if v.Content == nil {
			v.Content = [][]string{}
		}
		return v
	case Columns:
		if v.Cols == nil {
			v.Cols = []Column{}
		}
		return v
	}
	return p
}

func clonePayload(p Payload) Payload {
	switch v := p.(type) {
	case Passthrough:
		return Passthrough{Data: cloneRaw(v.Data)}
	case List:
		v.Items = cloneStrings(v.Items)
		return v
	case Table:
		if v.Content != nil {
			rows := make([][]string, len(v.Content))
			for i, row := range v.Content {
				rows[i] = cloneStrings(row)
			}
			v.Content = rows
		}
		return v
	case Image:
		if v.File != nil {
			f := *v.File
			v.File = &f
		}
		v.Width = v.Width.clone()
		v.Height = v.Height.clone()
		return v
	case Link:
		if v.Meta != nil {
			m := *v.Meta
			if m.Image != nil {
				img := *m.Image
				m.Image = &img
			}
			v.Meta = &m
		}
		return v
	case Video:
		if v.Controls != nil {
			c := *v.Controls
			v.Controls = &c
		}
		return v
	case Columns:
		if v.Cols != nil {
			cols := make([]Column, len(v.Cols))
			for i, c := range v.Cols {
				cols[i] = c
				if c.Blocks != nil {
					cols[i].Blocks = cloneBlocks(c.Blocks)
				}
			}
			v.Cols = cols
		}
		return v
	default:
		return p
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
