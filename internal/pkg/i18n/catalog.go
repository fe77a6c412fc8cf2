// Package i18n resolves message keys to localized text.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a message is missing in the requested locale.
const DefaultLocale = "en_US"

//go:embed locales/*.yaml
var locales embed.FS

type messages struct {
	Exceptions map[string]string `yaml:"exceptions"`
	Labels     map[string]string `yaml:"labels"`
}

// Catalog holds the messages of every locale.
type Catalog struct {
	byLocale map[string]*messages
}

// Load parses the embedded locale files.
func Load() (*Catalog, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}
	c := &Catalog{byLocale: make(map[string]*messages, len(entries))}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		m := &messages{}
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		c.byLocale[strings.TrimSuffix(e.Name(), ".yaml")] = m
	}
	if _, ok := c.byLocale[DefaultLocale]; !ok {
		return nil, fmt.Errorf("missing %s messages", DefaultLocale)
	}
	return c, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Locales returns the known locales, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.byLocale))
	for l := range c.byLocale {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Exception renders the exception message key in locale. Unknown keys render
// as the key itself.
func (c *Catalog) Exception(locale, key string, params map[string]any) string {
	return render(c.lookup(locale, key, func(m *messages) map[string]string { return m.Exceptions }), params)
}

// Label renders a UI label.
func (c *Catalog) Label(locale, key string) string {
	return c.lookup(locale, key, func(m *messages) map[string]string { return m.Labels })
}

func (c *Catalog) lookup(locale, key string, section func(*messages) map[string]string) string {
	for _, l := range []string{locale, DefaultLocale} {
		if m, ok := c.byLocale[l]; ok {
			if text, ok := section(m)[key]; ok {
				return text
			}
		}
	}
	return key
}

// render substitutes {name} placeholders.
func render(text string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
