// Package fonts provides the font faces used to draw collage text.
//
// The faces come from the Go font family bundled with golang.org/x/image,
// so rendering needs no font files on the host. The TrueType data is parsed
// once; faces are created per call because a face carries a glyph cache
// that is not safe for concurrent use.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	parseOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	parseErr  error
)

func load() error {
	parseOnce.Do(func() {
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse regular font: %w", parseErr)
			return
		}
		if bold, parseErr = truetype.Parse(gobold.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse bold font: %w", parseErr)
		}
	})
	return parseErr
}

// Regular returns a new regular face at size points.
func Regular(size float64) (font.Face, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return newFace(regular, size), nil
}

// Bold returns a new bold face at size points.
func Bold(size float64) (font.Face, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return newFace(bold, size), nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		Hinting: font.HintingFull,
	})
}
