package render

import (
	"strconv"

	"github.com/aura-invites/backend/internal/models"
)

type classic struct{}

func (classic) id() models.TemplateID { return models.TemplateClassic }

func (classic) compose(c *composer) Document {
	h := c.hero()
	h.Eyebrow = c.t("hero.eyebrow")
	return Document{
		Decorations: []string{"corner-ornaments", "gold-divider", "heart"},
		Sections: c.sections(standardOrder, map[SectionKind]string{
			SectionStory:    "section.story",
			SectionVenue:    "section.venue",
			SectionSchedule: "section.schedule",
			SectionRSVP:     "section.rsvp",
		}, "venue.map", h),
		Footer: c.inv.CoupleTitle(),
	}
}

// modern lists the program before the venue.
type modern struct{}

func (modern) id() models.TemplateID { return models.TemplateModern }

func (modern) compose(c *composer) Document {
	h := c.hero()
	h.Tagline = c.t("hero.tagline")
	return Document{
		Decorations: []string{"split-hero", "bold-type"},
		Sections: c.sections(modernOrder, map[SectionKind]string{
			SectionStory:    "section.story",
			SectionVenue:    "section.venue.location",
			SectionSchedule: "section.schedule.day_program",
			SectionRSVP:     "section.rsvp",
		}, "venue.map", h),
		Footer: c.inv.CoupleTitle(),
	}
}

type minimal struct{}

func (minimal) id() models.TemplateID { return models.TemplateMinimal }

func (minimal) compose(c *composer) Document {
	h := c.hero()
	h.Joiner = c.t("hero.and")
	if !c.inv.EventDate.IsZero() {
		h.DayName = c.loc.WeekdayName(c.inv.EventDate.Weekday())
	}
	return Document{
		Decorations: []string{"hairline"},
		Sections: c.sections(standardOrder, map[SectionKind]string{
			SectionRSVP: "section.rsvp.plain",
		}, "venue.map", h),
		Footer: c.inv.BrideInitial + " & " + c.inv.GroomInitial,
	}
}

type floral struct{}

func (floral) id() models.TemplateID { return models.TemplateFloral }

func (floral) compose(c *composer) Document {
	h := c.hero()
	h.Tagline = c.t("hero.tagline")
	return Document{
		Decorations: []string{"floral-corners", "petal-divider", "heart"},
		Sections: c.sections(standardOrder, map[SectionKind]string{
			SectionStory:    "section.story",
			SectionVenue:    "section.venue",
			SectionSchedule: "section.schedule",
			SectionRSVP:     "section.rsvp.short",
		}, "venue.directions", h),
		Footer: c.inv.CoupleTitle(),
	}
}

type vintage struct{}

func (vintage) id() models.TemplateID { return models.TemplateVintage }

func (vintage) compose(c *composer) Document {
	h := c.hero()
	h.Eyebrow = c.t("hero.eyebrow")
	h.YearBadge = c.year()
	return Document{
		Decorations: []string{"paper-texture", "double-frame", "year-badge"},
		Sections: c.sections(standardOrder, map[SectionKind]string{
			SectionStory:    "section.story",
			SectionVenue:    "section.venue",
			SectionSchedule: "section.schedule.day_flow",
			SectionRSVP:     "section.rsvp.please",
		}, "venue.map_alt", h),
		Footer: c.inv.CoupleTitle(),
	}
}

// editorialLuxury splits the date magazine-style and signs the footer with
// the year.
type editorialLuxury struct{}

func (editorialLuxury) id() models.TemplateID { return models.TemplateEditorialLuxury }

func (editorialLuxury) compose(c *composer) Document {
	h := c.hero()
	h.Eyebrow = c.t("hero.eyebrow")
	footer := c.inv.CoupleTitle()
	if d := c.inv.EventDate; !d.IsZero() {
		h.DateParts = &DateParts{
			Day:        strconv.Itoa(d.Day()),
			Month:      c.loc.MonthName(d.Month()),
			Year:       c.year(),
			DayLabel:   c.t("label.day"),
			MonthLabel: c.t("label.month"),
			TimeLabel:  c.t("label.time"),
		}
		footer += " · " + c.year()
	}
	return Document{
		Decorations: []string{"magazine-grid", "dark-band"},
		Sections: c.sections(standardOrder, map[SectionKind]string{
			SectionStory:    "section.story",
			SectionVenue:    "label.venue",
			SectionSchedule: "section.schedule",
			SectionRSVP:     "section.rsvp",
		}, "venue.map_alt", h),
		Footer: footer,
	}
}
