package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gracestowel/storekit/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#F5F5F0", want: color.RGBA{0xF5, 0xF5, 0xF0, 0xFF}},
		{in: "001f3f", want: color.RGBA{0x00, 0x1F, 0x3F, 0xFF}},
		{in: "#abc", want: color.RGBA{0xAA, 0xBB, 0xCC, 0xFF}},
		{in: " #FF6B35 ", want: color.RGBA{0xFF, 0x6B, 0x35, 0xFF}},
		{in: "#GGGGGG", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		spec catalog.ImageSpec
		want [3]string
	}{
		{catalog.ImageSpec{Product: "nuzzle", Variant: "cloud-white", Index: 1}, [3]string{"Nuzzle", "Cloud White", "Image 1"}},
		{catalog.ImageSpec{Product: "chefs-mate", Variant: "checkered-red", Index: 2}, [3]string{"Chefs Mate", "Checkered Red", "Image 2"}},
		{catalog.ImageSpec{Product: "wool-dryer-balls", Variant: "natural", Index: 1}, [3]string{"Wool Dryer Balls", "Natural", "Image 1"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Labels(tt.spec))
	}
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRenderFillAndTexture(t *testing.T) {
	spec := catalog.ImageSpec{Product: "cradle", Variant: "navy", Color: "#001F3F", Index: 1, Width: 200, Height: 240}
	fonts := LoadFonts("")
	defer fonts.Close()

	img, err := Render(spec, fonts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 240), img.Bounds())

	base := color.RGBA{0x00, 0x1F, 0x3F, 0xFF}
	// outside every texture cell and far from the labels
	assert.Equal(t, base, rgbaAt(img, 25, 5))
	assert.Equal(t, base, rgbaAt(img, 15, 5))
	assert.Equal(t, base, rgbaAt(img, 5, 25))

	// texture cells at (0,0), (40,0) and (20,20) are lightened; edges are inclusive
	for _, p := range []image.Point{{0, 0}, {10, 10}, {40, 0}, {20, 20}, {30, 30}} {
		c := rgbaAt(img, p.X, p.Y)
		assert.Greater(t, c.R, base.R, "point %v", p)
		assert.Greater(t, c.B, base.B, "point %v", p)
		assert.Equal(t, uint8(0xFF), c.A)
	}
	// (20,0) is skipped by the (x+y)%40 rule
	assert.Equal(t, base, rgbaAt(img, 20, 0))
	assert.Equal(t, base, rgbaAt(img, 11, 0))
}

func TestRenderLabelsDarkenCenter(t *testing.T) {
	spec := catalog.ImageSpec{Product: "bearhug", Variant: "sand", Color: "#FFFFFF", Index: 2, Width: 400, Height: 400}

	for name, fonts := range map[string]*FontSet{"scalable": LoadFonts(""), "bitmap": BitmapFonts()} {
		t.Run(name, func(t *testing.T) {
			defer fonts.Close()
			img, err := Render(spec, fonts)
			require.NoError(t, err)

			darkened := 0
			for y := 100; y < 320; y++ {
				for x := 0; x < 400; x++ {
					c := rgbaAt(img, x, y)
					if c.R < 0xFF {
						darkened++
						// text is translucent, never solid black
						assert.Greater(t, c.R, uint8(0x80))
					}
				}
			}
			assert.Positive(t, darkened)

			// labels stay horizontally centered: left and right margins are untouched
			for y := 100; y < 320; y++ {
				assert.Equal(t, uint8(0xFF), rgbaAt(img, 1, y).R)
				assert.Equal(t, uint8(0xFF), rgbaAt(img, 398, y).R)
			}
		})
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := Render(catalog.ImageSpec{Color: "#FFFFFF", Width: 0, Height: 10}, nil)
	assert.Error(t, err)

	_, err = Render(catalog.ImageSpec{Color: "teal", Width: 10, Height: 10}, nil)
	assert.Error(t, err)
}

func TestEncodeProducesOpaquePNG(t *testing.T) {
	spec := catalog.ImageSpec{Product: "hearth", Variant: "slate", Color: "#708090", Index: 1, Width: 64, Height: 48}
	img, err := Render(spec, BitmapFonts())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), decoded.Bounds())
	r, g, b, _ := decoded.At(25, 5).RGBA()
	assert.Equal(t, [3]uint32{0x70, 0x80, 0x90}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestLoadFontsFallsBack(t *testing.T) {
	fonts := LoadFonts("/nonexistent/Helvetica.ttc")
	defer fonts.Close()
	assert.True(t, fonts.Scalable)
	assert.Equal(t, "goregular", fonts.Source)

	bad := t.TempDir() + "/garbage.ttf"
	require.NoError(t, writeFile(bad, []byte("not a font")))
	fonts = LoadFonts(bad)
	defer fonts.Close()
	assert.Equal(t, "goregular", fonts.Source)
}
