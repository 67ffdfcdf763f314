package render

import (
	"net/url"
	"strings"

	"vectormag-cms/blocks"
)

// fullWidth is the width of an image with no size set.
const fullWidth = "100%"

// ImageSize resolves the layout box of an image. A non-empty value in the
// image tune wins over the one in data. Without a width the image spans the
// full column; with a height it is cropped to cover the box.
func ImageSize(img blocks.Image, tunes blocks.Tunes) Size {
	tune := tunes.Image()

	width := pick(tune.Width, img.Width)
	if width == "" {
		width = fullWidth
	}
	height := pick(tune.Height, img.Height)
	return Size{Width: width, Height: height, Cover: height != ""}
}

func pick(override, base *blocks.Length) string {
	if v := override.Resolve(); v != "" {
		return v
	}
	return base.Resolve()
}

// EmbedURL converts YouTube and Vimeo page links into their player URLs.
// Anything else is returned unchanged.
func EmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtube.com":
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); id != "" {
				return "https://www.youtube.com/embed/" + id
			}
		}
		if strings.HasPrefix(u.Path, "/shorts/") {
			return "https://www.youtube.com/embed/" + strings.TrimPrefix(u.Path, "/shorts/")
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case "vimeo.com":
		if id := strings.Trim(u.Path, "/"); id != "" && isDigits(id) {
			return "https://player.vimeo.com/video/" + id
		}
	}
	return raw
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
