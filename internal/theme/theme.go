// Package theme resolves invitation theme tokens into a concrete style bundle.
package theme

import (
	"sync"

	"github.com/aura-invites/backend/internal/models"
)

// StyleBundle is the ready-to-apply visual style consumed by every template.
type StyleBundle struct {
	Surface     string `json:"surface"`
	Text        string `json:"text"`
	Muted       string `json:"muted"`
	HeadingFont string `json:"heading_font"`
	BodyFont    string `json:"body_font"`
	Primary     string `json:"primary"`
	Dark        bool   `json:"dark"`
}

type palette struct {
	surface, text, muted string
}

type fontPair struct {
	heading, body string
}

// Both tables are closed and exhaustive over their enumerations.
var backgrounds = map[models.Background]palette{
	models.BackgroundIvory: {surface: "hsl(45, 50%, 96%)", text: "hsl(30, 30%, 20%)", muted: "hsl(30, 20%, 50%)"},
	models.BackgroundWhite: {surface: "hsl(0, 0%, 100%)", text: "hsl(0, 0%, 10%)", muted: "hsl(0, 0%, 45%)"},
	models.BackgroundBlush: {surface: "hsl(350, 30%, 95%)", text: "hsl(350, 20%, 25%)", muted: "hsl(350, 15%, 50%)"},
	models.BackgroundDark:  {surface: "hsl(0, 0%, 8%)", text: "hsl(0, 0%, 95%)", muted: "hsl(0, 0%, 60%)"},
}

var fonts = map[models.FontPreset]fontPair{
	models.FontSerif:       {heading: `"Playfair Display", Georgia, serif`, body: `"Cormorant Garamond", Georgia, serif`},
	models.FontModern:      {heading: `"Montserrat", system-ui, sans-serif`, body: `"Open Sans", system-ui, sans-serif`},
	models.FontHandwritten: {heading: `"Great Vibes", cursive`, body: `"Lora", Georgia, serif`},
}

// Resolve maps tokens to a StyleBundle. Missing fields take their defaults
// first, so Resolve never fails.
func Resolve(tokens models.ThemeTokens) StyleBundle {
	t := tokens.WithDefaults()
	bg := backgrounds[t.Background]
	font := fonts[t.FontPreset]
	return StyleBundle{
		Surface:     bg.surface,
		Text:        bg.text,
		Muted:       bg.muted,
		HeadingFont: font.heading,
		BodyFont:    font.body,
		Primary:     t.PrimaryColor,
		Dark:        t.Background == models.BackgroundDark,
	}
}

// Variable is one CSS custom property.
type Variable struct {
	Name  string
	Value string
}

// CSSVariables returns the --invite-* custom properties in a fixed order.
func (b StyleBundle) CSSVariables() []Variable {
	return []Variable{
		{Name: "--invite-primary", Value: b.Primary},
		{Name: "--invite-bg", Value: b.Surface},
		{Name: "--invite-text", Value: b.Text},
		{Name: "--invite-muted", Value: b.Muted},
		{Name: "--invite-font-heading", Value: b.HeadingFont},
		{Name: "--invite-font-body", Value: b.BodyFont},
	}
}

// Cache memoizes Resolve per normalized token triple. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	bundles map[models.ThemeTokens]StyleBundle
}

// NewCache creates an empty bundle cache.
func NewCache() *Cache {
	return &Cache{bundles: make(map[models.ThemeTokens]StyleBundle)}
}

// Resolve returns the cached bundle for tokens, resolving it on first use.
func (c *Cache) Resolve(tokens models.ThemeTokens) StyleBundle {
	key := tokens.WithDefaults()
	c.mu.RLock()
	b, ok := c.bundles[key]
	c.mu.RUnlock()
	if ok {
		return b
	}
	b = Resolve(key)
	c.mu.Lock()
	c.bundles[key] = b
	c.mu.Unlock()
	return b
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bundles)
}

// IsDark reports whether the bundle uses the dark surface.
func (b StyleBundle) IsDark() bool { return b.Dark }
