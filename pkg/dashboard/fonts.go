package dashboard

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// textStyle is one entry of the dashboard's type scale.
type textStyle struct {
	bold bool
	size float64
}

var (
	styleClock      = textStyle{true, 24}
	styleTitle      = textStyle{true, 32}
	styleHeading    = textStyle{true, 20}
	styleStat       = textStyle{true, 36}
	styleGreeting   = textStyle{false, 18}
	styleBody       = textStyle{false, 16}
	styleNavCaption = textStyle{false, 14}
)

// typeScale lists every style the dashboard draws with. All of them are
// loaded up front so a broken face fails NewGenerator, not a frame.
var typeScale = []textStyle{
	styleClock, styleTitle, styleHeading, styleStat,
	styleGreeting, styleBody, styleNavCaption,
}

// fontCache holds one face per style, parsed from the embedded Go fonts.
type fontCache struct {
	faces map[textStyle]font.Face
}

func newFontCache(styles []textStyle) (*fontCache, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	c := &fontCache{faces: make(map[textStyle]font.Face, len(styles))}
	for _, st := range styles {
		if _, ok := c.faces[st]; ok {
			continue
		}
		src := regular
		if st.bold {
			src = bold
		}
		f, err := newFace(src, st.size)
		if err != nil {
			c.close()
			return nil, err
		}
		c.faces[st] = f
	}
	return c, nil
}

func newFace(src *sfnt.Font, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font face: size %v", size)
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face %v: %w", size, err)
	}
	return f, nil
}

// face returns the loaded face for st. Asking for a style outside the
// cache is a programming error.
func (c *fontCache) face(st textStyle) font.Face {
	f, ok := c.faces[st]
	if !ok {
		panic(fmt.Sprintf("dashboard: no face loaded for %+v", st))
	}
	return f
}

func (c *fontCache) close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}
