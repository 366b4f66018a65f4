// Package sink encodes rendered collages.
//
// Both formats are lossless: PNG through imaging and WebP through the libwebp
// bindings in chai2010/webp.
package sink

import (
	"bytes"
	"image"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/tierlist/pkg/errors"
)

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// Formats lists the supported formats, default first.
var Formats = []Format{FormatPNG, FormatWebP}

// ParseFormat resolves a case-insensitive format name. An empty name selects PNG.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return Formats[0], nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q (want %s)", s, FormatNames())
}

// FormatNames returns the supported format names joined for help text.
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, " or ")
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string { return "." + string(f) }

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG, "":
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: true, Exact: true})
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", string(f))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode %s", string(f))
	}
	return nil
}

// EncodeBytes encodes img in format f and returns the bytes.
func EncodeBytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
