// Package watermark stamps the brand logo onto generated slides. The logo is
// rendered as a white silhouette so it reads on any background.
package watermark

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
)

// Position names a logo placement on the slide.
type Position string

const (
	PositionNone        Position = ""
	PositionTopLeft     Position = "top-left"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

const (
	logoWidthRatio = 0.20
	paddingRatio   = 0.05
	normalOpacity  = 0.80
	lightOpacity   = 0.45
)

// Stamper holds the decoded logo.
type Stamper struct {
	logo image.Image
}

// NewStamper loads the logo file once.
func NewStamper(logoPath string) (*Stamper, error) {
	f, err := os.Open(logoPath)
	if err != nil {
		return nil, fmt.Errorf("watermark: open logo: %w", err)
	}
	defer f.Close()

	logo, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("watermark: decode logo: %w", err)
	}
	return &Stamper{logo: logo}, nil
}

// Apply stamps the logo at pos and re-encodes as PNG. A failed stamp never
// loses the slide: the original bytes come back unchanged.
func (s *Stamper) Apply(imageBytes []byte, pos Position, light bool) []byte {
	if s == nil || s.logo == nil || pos == PositionNone {
		return imageBytes
	}

	src, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return imageBytes
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	opacity := normalOpacity
	if light {
		opacity = lightOpacity
	}

	targetW := int(float64(bounds.Dx()) * logoWidthRatio)
	if targetW < 1 {
		return imageBytes
	}
	stamp := whiteStamp(s.logo, targetW, opacity)

	pad := int(float64(bounds.Dx()) * paddingRatio)
	offset := placement(bounds, stamp.Bounds(), pad, pos)
	draw.Draw(canvas, stamp.Bounds().Add(offset), stamp, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return imageBytes
	}
	return buf.Bytes()
}

// whiteStamp scales the logo to targetW and replaces its color with white,
// keeping the alpha channel scaled by opacity.
func whiteStamp(logo image.Image, targetW int, opacity float64) *image.RGBA {
	lb := logo.Bounds()
	targetH := lb.Dy() * targetW / lb.Dx()
	if targetH < 1 {
		targetH = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	for y := 0; y < targetH; y++ {
		srcY := lb.Min.Y + y*lb.Dy()/targetH
		for x := 0; x < targetW; x++ {
			srcX := lb.Min.X + x*lb.Dx()/targetW
			_, _, _, a := logo.At(srcX, srcY).RGBA()
			alpha := uint8(float64(a>>8) * opacity)
			if alpha == 0 {
				continue
			}
			out.SetRGBA(x, y, color.RGBA{R: alpha, G: alpha, B: alpha, A: alpha})
		}
	}
	return out
}

func placement(canvas, stamp image.Rectangle, pad int, pos Position) image.Point {
	switch pos {
	case PositionTopLeft:
		return image.Pt(canvas.Min.X+pad, canvas.Min.Y+pad)
	case PositionBottomLeft:
		return image.Pt(canvas.Min.X+pad, canvas.Max.Y-stamp.Dy()-pad)
	default:
		return image.Pt(canvas.Max.X-stamp.Dx()-pad, canvas.Max.Y-stamp.Dy()-pad)
	}
}
