// Package render turns an invitation record into the structured document of
// one of the six template variants, and writes that document as HTML.
package render

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/theme"
)

// variant is implemented once per template. The set is closed.
type variant interface {
	id() models.TemplateID
	compose(c *composer) Document
}

var variants = map[models.TemplateID]variant{
	models.TemplateClassic:         classic{},
	models.TemplateModern:          modern{},
	models.TemplateMinimal:         minimal{},
	models.TemplateFloral:          floral{},
	models.TemplateVintage:         vintage{},
	models.TemplateEditorialLuxury: editorialLuxury{},
}

// Renderer dispatches invitations to their template variant.
type Renderer struct {
	loc      *i18n.Localizer
	themes   *theme.Cache
	sanitize *bluemonday.Policy
}

// NewRenderer creates a renderer for one display locale. A nil localizer
// uses the default locale.
func NewRenderer(loc *i18n.Localizer) *Renderer {
	if loc == nil {
		loc = i18n.New(i18n.DefaultLocale)
	}
	return &Renderer{
		loc:      loc,
		themes:   theme.NewCache(),
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Localizer returns the renderer's localizer.
func (r *Renderer) Localizer() *i18n.Localizer { return r.loc }

// Render produces the document for inv. Unknown template ids fall back to
// classic without error. inv is never modified.
func (r *Renderer) Render(inv models.Invitation, showRSVP bool) Document {
	v, ok := variants[inv.TemplateID]
	if !ok {
		v = variants[models.DefaultTemplateID]
	}
	c := &composer{
		inv:      inv,
		showRSVP: showRSVP,
		style:    r.themes.Resolve(inv.ThemeTokens),
		loc:      r.loc,
		sanitize: r.sanitize,
	}
	doc := v.compose(c)
	doc.TemplateID = v.id()
	doc.Style = c.style
	return doc
}

// composer builds the shared sections; variants pick titles, order and
// decorations.
type composer struct {
	inv      models.Invitation
	showRSVP bool
	style    theme.StyleBundle
	loc      *i18n.Localizer
	sanitize *bluemonday.Policy
}

func (c *composer) t(key string) string { return c.loc.T(key) }

func (c *composer) hero() Hero {
	inv := c.inv
	return Hero{
		BrideName:    inv.BrideName,
		GroomName:    inv.GroomName,
		BrideInitial: inv.BrideInitial,
		GroomInitial: inv.GroomInitial,
		Joiner:       "&",
		Date:         c.longDate(),
		Time:         inv.EventTime,
		ImageURL:     inv.HeroImageURL,
	}
}

func (c *composer) longDate() string {
	if c.inv.EventDate.IsZero() {
		return ""
	}
	return c.loc.LongDate(c.inv.EventDate.Time)
}

func (c *composer) year() string {
	if c.inv.EventDate.IsZero() {
		return ""
	}
	return strconv.Itoa(c.inv.EventDate.Year())
}

func (c *composer) heroSection(h Hero) Section {
	return Section{Kind: SectionHero, Hero: &h}
}

// story returns the story section when the sanitized narrative is
// non-empty.
func (c *composer) story(titleKey string) (Section, bool) {
	text := strings.TrimSpace(html.UnescapeString(c.sanitize.Sanitize(c.inv.StoryText)))
	if text == "" {
		return Section{}, false
	}
	return Section{Kind: SectionStory, Title: c.title(titleKey), Story: &Story{Text: text}}, true
}

func (c *composer) venue(titleKey, mapKey string) Section {
	v := &Venue{Name: c.inv.VenueName, Address: c.inv.VenueAddress}
	if u := strings.TrimSpace(c.inv.MapURL); u != "" {
		v.MapURL = u
		v.MapLabel = c.t(mapKey)
	}
	return Section{Kind: SectionVenue, Title: c.title(titleKey), Venue: v}
}

func (c *composer) schedule(titleKey string) (Section, bool) {
	if len(c.inv.ScheduleItems) == 0 {
		return Section{}, false
	}
	items := make([]models.ScheduleItem, len(c.inv.ScheduleItems))
	copy(items, c.inv.ScheduleItems)
	return Section{Kind: SectionSchedule, Title: c.title(titleKey), Schedule: &Schedule{Items: items}}, true
}

// rsvp returns the form section only for persisted invitations with RSVPs
// enabled when the caller asked for it.
func (c *composer) rsvp(titleKey string) (Section, bool) {
	if !c.showRSVP || !c.inv.RSVPEnabled || !c.inv.Persisted() {
		return Section{}, false
	}
	id := c.inv.ID.String()
	return Section{
		Kind:  SectionRSVP,
		Title: c.title(titleKey),
		RSVP:  &RSVPForm{InviteID: id, Action: "/api/invites/" + id + "/rsvps"},
	}, true
}

func (c *composer) title(key string) string {
	if key == "" {
		return ""
	}
	return c.t(key)
}

// sections assembles the document body in the given order, dropping the
// conditional sections that do not apply.
func (c *composer) sections(order []SectionKind, titles map[SectionKind]string, mapKey string, h Hero) []Section {
	out := make([]Section, 0, len(order))
	for _, kind := range order {
		switch kind {
		case SectionHero:
			out = append(out, c.heroSection(h))
		case SectionStory:
			if s, ok := c.story(titles[SectionStory]); ok {
				out = append(out, s)
			}
		case SectionVenue:
			out = append(out, c.venue(titles[SectionVenue], mapKey))
		case SectionSchedule:
			if s, ok := c.schedule(titles[SectionSchedule]); ok {
				out = append(out, s)
			}
		case SectionRSVP:
			if s, ok := c.rsvp(titles[SectionRSVP]); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

var (
	standardOrder = []SectionKind{SectionHero, SectionStory, SectionVenue, SectionSchedule, SectionRSVP}
	modernOrder   = []SectionKind{SectionHero, SectionStory, SectionSchedule, SectionVenue, SectionRSVP}
)
