package images

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Label sizes in pixels for the product, variant and image-number lines.
const (
	largeSize  = 48
	mediumSize = 36
	smallSize  = 24
)

// FontSet holds the three faces used to label a swatch.
type FontSet struct {
	Large    font.Face
	Medium   font.Face
	Small    font.Face
	Scalable bool
	Source   string
}

// LoadFonts prepares label faces. It tries the font file at path first (TTF,
// OTF or the first face of a TTC), then the bundled Go Regular font, and
// finally the 7x13 bitmap face. It never fails.
func LoadFonts(path string) *FontSet {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var fs *FontSet
			fs, err = scalableSet(data, path)
			if err == nil {
				return fs
			}
		}
		slog.Warn("Font unavailable, using bundled font", "path", path, "error", err)
	}

	fs, err := scalableSet(goregular.TTF, "goregular")
	if err == nil {
		return fs
	}
	slog.Warn("Bundled font unavailable, using bitmap font", "error", err)
	return BitmapFonts()
}

// BitmapFonts returns a set backed only by basicfont.Face7x13.
func BitmapFonts() *FontSet {
	return &FontSet{
		Large:  basicfont.Face7x13,
		Medium: basicfont.Face7x13,
		Small:  basicfont.Face7x13,
		Source: "basicfont",
	}
}

func scalableSet(data []byte, source string) (*FontSet, error) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", source, err)
	}
	if coll.NumFonts() == 0 {
		return nil, fmt.Errorf("parse font %s: no faces", source)
	}
	f, err := coll.Font(0)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", source, err)
	}

	faces := make([]font.Face, 0, 3)
	for _, size := range []float64{largeSize, mediumSize, smallSize} {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			for _, made := range faces {
				_ = made.Close()
			}
			return nil, fmt.Errorf("font %s at %vpx: %w", source, size, err)
		}
		faces = append(faces, face)
	}

	slog.Debug("Loaded label font", "source", source)
	return &FontSet{
		Large:    faces[0],
		Medium:   faces[1],
		Small:    faces[2],
		Scalable: true,
		Source:   source,
	}, nil
}

// Close releases the faces. Bitmap faces need no cleanup.
func (fs *FontSet) Close() error {
	if fs == nil || !fs.Scalable {
		return nil
	}
	var first error
	for _, face := range []font.Face{fs.Large, fs.Medium, fs.Small} {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
