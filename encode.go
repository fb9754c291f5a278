package paperpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// Raster is a captured bitmap serialized as PNG.
type Raster struct {
	PNG    []byte
	Width  int // device pixels
	Height int // device pixels
}

// encodeRaster decodes a captured bitmap, flattens it onto an opaque
// background and re-encodes it as PNG. The result carries no alpha channel,
// so the PDF embeds exactly one image without a soft mask.
func encodeRaster(captured []byte, background color.RGBA) (*Raster, error) {
	if len(captured) == 0 {
		return nil, fmt.Errorf("%w: empty bitmap", ErrEncodingFailure)
	}

	src, _, err := image.Decode(bytes.NewReader(captured))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding bitmap: %v", ErrEncodingFailure, err)
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptySurface
	}

	background.A = 0xff
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("%w: encoding PNG: %v", ErrEncodingFailure, err)
	}

	return &Raster{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
