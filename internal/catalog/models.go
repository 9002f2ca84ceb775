package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ImageSpec describes one placeholder swatch to render.
type ImageSpec struct {
	Product string `yaml:"product" json:"product" parquet:"product" validate:"required,excludesall=/\\"`
	Variant string `yaml:"variant" json:"variant" parquet:"variant" validate:"required,excludesall=/\\"`
	Color   string `yaml:"color" json:"color" parquet:"color" validate:"required,swatchcolor"`
	Index   int    `yaml:"index" json:"index" parquet:"index" validate:"gte=1"`
	Width   int    `yaml:"width" json:"width" parquet:"width" validate:"gt=0"`
	Height  int    `yaml:"height" json:"height" parquet:"height" validate:"gt=0"`
}

// BaseName is the output name without extension, e.g. "nuzzle-sage-01".
// The index is always prefixed with a literal zero, so index 10 yields "010".
func (s ImageSpec) BaseName() string {
	return fmt.Sprintf("%s-%s-0%d", s.Product, s.Variant, s.Index)
}

// Filename is the PNG file name written for this spec.
func (s ImageSpec) Filename() string {
	return s.BaseName() + ".png"
}

// File is the on-disk YAML layout of a catalog.
type File struct {
	Images []ImageSpec `yaml:"images"`
}

// swatchColor matches the colors the renderer can parse: RGB or RRGGBB hex
// digits with an optional leading '#'.
var swatchColor = regexp.MustCompile(`^#?(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("swatchcolor", func(fl validator.FieldLevel) bool {
		return swatchColor.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks a spec before it is rendered.
func Validate(spec ImageSpec) error {
	if err := validate.Struct(spec); err != nil {
		return fmt.Errorf("invalid image spec %s: %w", spec.BaseName(), err)
	}
	return nil
}

// Filter keeps specs whose product is listed. An empty list keeps everything.
func Filter(specs []ImageSpec, products []string) []ImageSpec {
	if len(products) == 0 {
		return specs
	}
	keep := make(map[string]bool, len(products))
	for _, p := range products {
		keep[p] = true
	}
	var out []ImageSpec
	for _, s := range specs {
		if keep[s.Product] {
			out = append(out, s)
		}
	}
	return out
}
