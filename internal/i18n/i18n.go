// Package i18n loads the embedded locale catalogs and formats dates and
// labels for the single display locale of a rendering.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultLocale is used when a requested locale has no catalog.
	DefaultLocale = "tr-TR"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds every loaded locale catalog.
type Bundle struct {
	locales map[string]map[string]string
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default loads and registers the embedded catalogs once per process.
func Default() (*Bundle, error) {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = LoadFromFS(localeFS)
		if defaultErr == nil {
			defaultErr = defaultBundle.Register()
		}
	})
	return defaultBundle, defaultErr
}

// LoadFromFS parses every locales/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: make(map[string]map[string]string)}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, exists := b.locales[locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q defined twice", path, locale)
		}
		b.locales[locale] = file.Messages
	}
	if _, ok := b.locales[DefaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %s is not defined in catalogs", DefaultLocale)
	}
	return b, nil
}

// Register installs the catalogs into x/text/message under both the full tag
// and its base language.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag.String() != tag.String() {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale] {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s/%s: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// Locales returns the loaded locale identifiers in sorted order.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Keys returns the message keys of one locale in sorted order.
func (b *Bundle) Keys(locale string) []string {
	msgs := b.locales[locale]
	out := make([]string, 0, len(msgs))
	for k := range msgs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether the bundle carries locale.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// Localizer renders messages and dates for one locale.
type Localizer struct {
	locale  string
	printer *message.Printer
}

// New returns a Localizer for locale, falling back to DefaultLocale when the
// locale is unknown or the catalogs failed to load.
func New(locale string) *Localizer {
	locale = strings.TrimSpace(locale)
	b, err := Default()
	if err != nil || !b.Has(locale) {
		locale = DefaultLocale
	}
	return &Localizer{
		locale:  locale,
		printer: message.NewPrinter(language.MustParse(locale)),
	}
}

// Locale returns the locale identifier in use.
func (l *Localizer) Locale() string { return l.locale }

// T translates key. Unknown keys come back unchanged.
func (l *Localizer) T(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}

// MonthName returns the localized full month name.
func (l *Localizer) MonthName(m time.Month) string {
	return l.T("month." + strconv.Itoa(int(m)))
}

// WeekdayName returns the localized full weekday name.
func (l *Localizer) WeekdayName(d time.Weekday) string {
	return l.T("weekday." + strconv.Itoa(int(d)))
}

// LongDate formats t as "d MMMM yyyy", e.g. "15 Haziran 2025".
func (l *Localizer) LongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), l.MonthName(t.Month()), t.Year())
}

// ShortDate formats t with the locale's numeric date layout.
func (l *Localizer) ShortDate(t time.Time) string {
	return t.Format(l.T("date.short_layout"))
}

// Number formats n with the locale's digit grouping.
func (l *Localizer) Number(n int64) string {
	return l.printer.Sprint(n)
}
