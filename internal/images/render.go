// Package images renders labeled placeholder swatches and writes them as PNG.
package images

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/gracestowel/storekit/internal/catalog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	textureStep = 20
	textureCell = 10
)

var (
	textureColor = color.NRGBA{R: 255, G: 255, B: 255, A: 25}
	// 30% opaque black
	textColor = color.NRGBA{A: 76}
)

// ParseHexColor converts "#RRGGBB" or "#RGB" (leading # optional) to an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Labels returns the product, variant and image-number lines for spec.
func Labels(spec catalog.ImageSpec) [3]string {
	return [3]string{
		displayName(spec.Product),
		displayName(spec.Variant),
		fmt.Sprintf("Image %d", spec.Index),
	}
}

func displayName(slug string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
}

// Render draws the swatch for spec: a solid fill, a faint dot grid and three
// centered labels.
func Render(spec catalog.ImageSpec, fonts *FontSet) (*image.RGBA, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", spec.Width, spec.Height)
	}
	fill, err := ParseHexColor(spec.Color)
	if err != nil {
		return nil, err
	}
	if fonts == nil {
		fonts = BitmapFonts()
	}

	img := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	drawTexture(img)
	drawLabels(img, Labels(spec), fonts)
	return img, nil
}

// drawTexture blends an 11x11 white square every 20px where (x+y)%40 == 0.
func drawTexture(img *image.RGBA) {
	b := img.Bounds()
	src := image.NewUniform(textureColor)
	for x := 0; x < b.Dx(); x += textureStep {
		for y := 0; y < b.Dy(); y += textureStep {
			if (x+y)%(2*textureStep) != 0 {
				continue
			}
			cell := image.Rect(x, y, x+textureCell+1, y+textureCell+1).Intersect(b)
			draw.Draw(img, cell, src, image.Point{}, draw.Over)
		}
	}
}

func drawLabels(img *image.RGBA, labels [3]string, fonts *FontSet) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	faces := [3]font.Face{fonts.Large, fonts.Medium, fonts.Small}

	for i, text := range labels {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: faces[i]}
		advance := d.MeasureString(text)
		metrics := faces[i].Metrics()
		x := (fixed.I(w) - advance) / 2

		var baseline fixed.Int26_6
		if fonts.Scalable {
			// top edge at h/2-60, h/2, h/2+60
			top := h/2 + (i-1)*60
			baseline = fixed.I(top) + metrics.Ascent
		} else {
			// vertically centered on h/2-30, h/2, h/2+30
			middle := h/2 + (i-1)*30
			baseline = fixed.I(middle) + (metrics.Ascent-metrics.Descent)/2
		}

		d.Dot = fixed.Point26_6{X: x, Y: baseline}
		d.DrawString(text)
	}
}

// Encode writes img as a maximally compressed PNG.
func Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
