package theme

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name     string         `toml:"name"`
	Base     thTOMLBase     `toml:"base"`
	Carousel thTOMLCarousel `toml:"carousel"`
	Help     thTOMLHelp     `toml:"help"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLCarousel struct {
	Border      string `toml:"border"`
	Header      string `toml:"header"`
	Date        string `toml:"date"`
	Clock       string `toml:"clock"`
	DotActive   string `toml:"dot_active"`
	DotInactive string `toml:"dot_inactive"`
	Placeholder string `toml:"placeholder"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Border:      tt.Carousel.Border,
		Header:      tt.Carousel.Header,
		Date:        tt.Carousel.Date,
		Clock:       tt.Carousel.Clock,
		DotActive:   tt.Carousel.DotActive,
		DotInactive: tt.Carousel.DotInactive,
		Placeholder: tt.Carousel.Placeholder,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a TOML theme file and registers it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	Register(t)
	return t, nil
}

// thValidateTheme checks that every color field is present and valid hex.
// All problems are reported together.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return errors.New(`theme: missing required field "name"`)
	}

	var errs []error
	for _, f := range thColorFields(t) {
		switch {
		case f.value == "":
			errs = append(errs, fmt.Errorf("theme: missing required field %q", f.name))
		case !thHexColorRegex.MatchString(f.value):
			errs = append(errs, fmt.Errorf("theme: field %q has invalid hex color %q", f.name, f.value))
		}
	}
	return errors.Join(errs...)
}

type thField struct {
	name  string
	value string
}

// thColorFields lists color fields in TOML order.
func thColorFields(t Theme) []thField {
	return []thField{
		{"base.background", t.Background},
		{"base.foreground", t.Foreground},
		{"base.dim", t.Dim},
		{"base.accent", t.Accent},
		{"carousel.border", t.Border},
		{"carousel.header", t.Header},
		{"carousel.date", t.Date},
		{"carousel.clock", t.Clock},
		{"carousel.dot_active", t.DotActive},
		{"carousel.dot_inactive", t.DotInactive},
		{"carousel.placeholder", t.Placeholder},
		{"help.key", t.HelpKey},
		{"help.desc", t.HelpDesc},
	}
}
