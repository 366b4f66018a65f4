package httputil

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	// WebP covers are common on book storefronts.
	_ "golang.org/x/image/webp"
)

// DecodeRGB decodes raw image bytes into a fresh, fully opaque NRGBA image.
// EXIF orientation is applied. Alpha is dropped rather than composited, so a
// transparent pixel keeps its color channels.
func DecodeRGB(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return opaqueCopy(img), nil
}

func opaqueCopy(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
