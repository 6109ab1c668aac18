package render

import (
	"strings"
	"sync"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
)

// PageMeta is the head metadata of one page.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
	Type        string `json:"type"`
}

// MetaTag is one <meta> element. Attr is "name" or "property".
type MetaTag struct {
	Attr    string
	Key     string
	Content string
}

// MetaFor builds the page metadata of an invitation.
func MetaFor(inv models.Invitation, baseURL string, loc *i18n.Localizer) PageMeta {
	date := ""
	if !inv.EventDate.IsZero() {
		date = loc.LongDate(inv.EventDate.Time)
	}
	m := PageMeta{
		Title:       inv.CoupleTitle(),
		Description: strings.TrimSpace(loc.T("meta.description", inv.CoupleTitle(), date)),
		Image:       inv.HeroImageURL,
		Type:        "website",
	}
	if baseURL != "" && inv.Slug != "" {
		m.URL = strings.TrimRight(baseURL, "/") + "/i/" + inv.Slug
	}
	return m
}

// Head is the mutable head state of a page. Metadata is only ever set through
// Acquire, whose restore function puts the defaults back.
type Head struct {
	mu           sync.Mutex
	defaultTitle string
	title        string
	tags         []MetaTag
}

// NewHead creates a head showing defaultTitle and no meta tags.
func NewHead(defaultTitle string) *Head {
	return &Head{defaultTitle: defaultTitle, title: defaultTitle}
}

// Acquire applies meta and returns the function restoring the defaults.
// Calling restore more than once is harmless.
func (h *Head) Acquire(meta PageMeta) (restore func()) {
	h.mu.Lock()
	h.title = meta.Title
	h.tags = metaTags(meta)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			h.title = h.defaultTitle
			h.tags = nil
			h.mu.Unlock()
		})
	}
}

// Title returns the current document title.
func (h *Head) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

// Tags returns a copy of the current meta tags.
func (h *Head) Tags() []MetaTag {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]MetaTag(nil), h.tags...)
}

func metaTags(m PageMeta) []MetaTag {
	typ := m.Type
	if typ == "" {
		typ = "website"
	}
	tags := []MetaTag{
		{Attr: "name", Key: "description", Content: m.Description},
		{Attr: "property", Key: "og:title", Content: m.Title},
		{Attr: "property", Key: "og:description", Content: m.Description},
		{Attr: "property", Key: "og:type", Content: typ},
	}
	if m.URL != "" {
		tags = append(tags, MetaTag{Attr: "property", Key: "og:url", Content: m.URL})
	}
	if m.Image != "" {
		tags = append(tags,
			MetaTag{Attr: "property", Key: "og:image", Content: m.Image},
			MetaTag{Attr: "property", Key: "og:image:width", Content: "1200"},
			MetaTag{Attr: "property", Key: "og:image:height", Content: "630"},
		)
	}
	tags = append(tags,
		MetaTag{Attr: "name", Key: "twitter:card", Content: "summary_large_image"},
		MetaTag{Attr: "name", Key: "twitter:title", Content: m.Title},
		MetaTag{Attr: "name", Key: "twitter:description", Content: m.Description},
	)
	if m.Image != "" {
		tags = append(tags, MetaTag{Attr: "name", Key: "twitter:image", Content: m.Image})
	}
	return tags
}
