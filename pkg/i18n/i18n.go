// Package i18n provides translated UI strings. Catalogs are nested JSON
// objects; a string is addressed by joining the object keys leading to it with
// slashes, eg. "menus/common/ok".
package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/go-faster/jx"
	"github.com/golang/glog"
)

// DefaultLocale is used for any key missing from the selected locale.
const DefaultLocale = "en-US"

//go:embed catalogs/*.json
var catalogs embed.FS

// Catalog is a flattened set of translations with a fallback.
type Catalog struct {
	Locale   string
	strings  map[string]string
	fallback *Catalog
}

// Parse flattens a nested JSON catalog.
func Parse(data []byte) (map[string]string, error) {
	res := make(map[string]string)
	if err := flatten(jx.DecodeBytes(data), "", res); err != nil {
		return nil, err
	}
	return res, nil
}

func flatten(d *jx.Decoder, prefix string, res map[string]string) error {
	switch d.Next() {
	case jx.Object:
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			return flatten(d, path.Join(prefix, string(key)), res)
		})
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return err
		}
		res[prefix] = s
		return nil
	default:
		return fmt.Errorf("%s: catalog values must be strings or objects", prefix)
	}
}

func load(locale string) (*Catalog, error) {
	data, err := catalogs.ReadFile("catalogs/" + locale + ".json")
	if err != nil {
		return nil, fmt.Errorf("no catalog for locale %q", locale)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse catalog %q: %w", locale, err)
	}
	return &Catalog{Locale: locale, strings: s}, nil
}

// Load returns the catalog for locale, falling back to DefaultLocale for keys
// it lacks. An unknown locale yields the default catalog.
func Load(locale string) (*Catalog, error) {
	def, err := load(DefaultLocale)
	if err != nil {
		return nil, err
	}
	if locale == "" || locale == DefaultLocale {
		return def, nil
	}
	c, err := load(locale)
	if err != nil {
		glog.Warningf("Using %s strings: %v", DefaultLocale, err)
		return def, nil
	}
	c.fallback = def
	return c, nil
}

// Locales lists the embedded locales.
func Locales() []string {
	entries, _ := catalogs.ReadDir("catalogs")
	var res []string
	for _, e := range entries {
		res = append(res, strings.TrimSuffix(e.Name(), ".json"))
	}
	return res
}

// Tr returns the translation for key, or key itself if no catalog has it.
func (c *Catalog) Tr(key string) string {
	if c == nil {
		return key
	}
	if s, ok := c.strings[key]; ok {
		return s
	}
	if c.fallback != nil {
		return c.fallback.Tr(key)
	}
	return key
}

// Trf is Tr with every "{}" placeholder replaced, in order, by args.
func (c *Catalog) Trf(key string, args ...any) string {
	s := c.Tr(key)
	for _, a := range args {
		s = strings.Replace(s, "{}", fmt.Sprint(a), 1)
	}
	return s
}
