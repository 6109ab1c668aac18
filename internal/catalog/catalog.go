// Package catalog is the fixed registry of invitation templates.
package catalog

import (
	"strings"

	"github.com/aura-invites/backend/internal/models"
)

// Tag groups templates in the gallery.
type Tag string

const (
	TagPopular  Tag = "popular"
	TagNew      Tag = "new"
	TagElegant  Tag = "elegant"
	TagRomantic Tag = "romantic"
	TagModern   Tag = "modern"
	TagClassic  Tag = "classic"
	TagNature   Tag = "nature"
	TagLuxury   Tag = "luxury"

	// TagAll disables filtering.
	TagAll Tag = "all"
)

var tagOrder = []Tag{TagPopular, TagNew, TagElegant, TagRomantic, TagModern, TagClassic, TagNature, TagLuxury}

// TagInfo is a tag with the message key of its display label.
type TagInfo struct {
	ID       Tag    `json:"id"`
	LabelKey string `json:"label_key"`
}

// TemplateInfo is one static registry entry.
type TemplateInfo struct {
	ID           models.TemplateID `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	PreviewImage string            `json:"preview_image"`
	PrimaryColor string            `json:"primary_color"`
	Tags         []Tag             `json:"tags"`
	Features     []string          `json:"features"`
}

// HasTag reports whether the entry carries tag.
func (t TemplateInfo) HasTag(tag Tag) bool {
	for _, own := range t.Tags {
		if own == tag {
			return true
		}
	}
	return false
}

func (t TemplateInfo) clone() TemplateInfo {
	out := t
	out.Tags = append([]Tag(nil), t.Tags...)
	out.Features = append([]string(nil), t.Features...)
	return out
}

var registry = []TemplateInfo{
	{
		ID:           models.TemplateClassic,
		Name:         "Klasik",
		Description:  "Geleneksel ve zarif, altın süslemelerle bezeli klasik düğün davetiyesi",
		PreviewImage: "/templates/classic-preview.jpg",
		PrimaryColor: "#B8860B",
		Tags:         []Tag{TagPopular, TagClassic, TagElegant},
		Features:     []string{"Altın süslemeler", "Serif tipografi", "Geleneksel düzen"},
	},
	{
		ID:           models.TemplateModern,
		Name:         "Modern",
		Description:  "Minimalist çizgiler ve çağdaş tipografi ile modern bir yaklaşım",
		PreviewImage: "/templates/modern-preview.jpg",
		PrimaryColor: "#1a1a1a",
		Tags:         []Tag{TagModern, TagPopular},
		Features:     []string{"Sans-serif font", "Asimetrik düzen", "Bold tipografi"},
	},
	{
		ID:           models.TemplateMinimal,
		Name:         "Minimal",
		Description:  "Ultra sade tasarım, tipografi odaklı temiz görünüm",
		PreviewImage: "/templates/minimal-preview.jpg",
		PrimaryColor: "#2c3e50",
		Tags:         []Tag{TagModern, TagElegant},
		Features:     []string{"Temiz çizgiler", "Bol boşluk", "Odaklı içerik"},
	},
	{
		ID:           models.TemplateFloral,
		Name:         "Çiçekli",
		Description:  "Romantik çiçek motifleri ve pastel tonlarla doğal güzellik",
		PreviewImage: "/templates/floral-preview.jpg",
		PrimaryColor: "#d4a574",
		Tags:         []Tag{TagRomantic, TagNature, TagPopular},
		Features:     []string{"Çiçek motifleri", "Pastel tonlar", "Romantik atmosfer"},
	},
	{
		ID:           models.TemplateVintage,
		Name:         "Vintage",
		Description:  "Nostaljik dokular ve retro estetikle zamansız bir his",
		PreviewImage: "/templates/vintage-preview.jpg",
		PrimaryColor: "#8B7355",
		Tags:         []Tag{TagClassic, TagElegant},
		Features:     []string{"Retro estetik", "Dokulu arkaplan", "Nostaljik detaylar"},
	},
	{
		ID:           models.TemplateEditorialLuxury,
		Name:         "Editorial Lüks",
		Description:  "Dergi kalitesinde premium tasarım, sofistike ve göz alıcı",
		PreviewImage: "/templates/editorial-preview.jpg",
		PrimaryColor: "#1a1a1a",
		Tags:         []Tag{TagLuxury, TagNew, TagElegant},
		Features:     []string{"Dergi düzeni", "Premium tipografi", "Lüks detaylar"},
	},
}

// All returns every entry in declaration order. The slice is a fresh copy.
func All() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(registry))
	for _, t := range registry {
		out = append(out, t.clone())
	}
	return out
}

// ByID looks up an entry; ok is false for ids outside the enumeration.
func ByID(id models.TemplateID) (TemplateInfo, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return TemplateInfo{}, false
}

// FilterByTag returns the entries carrying tag, or all of them for TagAll.
func FilterByTag(tag Tag) []TemplateInfo {
	if tag == TagAll {
		return All()
	}
	var out []TemplateInfo
	for _, t := range registry {
		if t.HasTag(tag) {
			out = append(out, t.clone())
		}
	}
	return out
}

// CoerceID returns raw as a TemplateID when it is a member of the
// enumeration and the default template otherwise.
func CoerceID(raw string) models.TemplateID {
	id := models.TemplateID(raw)
	if id.Valid() {
		return id
	}
	return models.DefaultTemplateID
}

// Known reports whether raw names a template without coercing it.
func Known(raw string) bool {
	return models.TemplateID(raw).Valid()
}

// Tags lists the closed tag set in gallery order.
func Tags() []TagInfo {
	out := make([]TagInfo, 0, len(tagOrder))
	for _, t := range tagOrder {
		out = append(out, TagInfo{ID: t, LabelKey: "tag." + string(t)})
	}
	return out
}

// ParseTag parses a query value; empty means TagAll.
func ParseTag(raw string) (Tag, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == string(TagAll) {
		return TagAll, true
	}
	for _, t := range tagOrder {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
