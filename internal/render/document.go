package render

import (
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/theme"
)

// SectionKind names a logical section of a rendered invitation.
type SectionKind string

const (
	SectionHero     SectionKind = "hero"
	SectionStory    SectionKind = "story"
	SectionVenue    SectionKind = "venue"
	SectionSchedule SectionKind = "schedule"
	SectionRSVP     SectionKind = "rsvp"
)

// Document is the structured output of one template variant.
type Document struct {
	TemplateID  models.TemplateID `json:"template_id"`
	Style       theme.StyleBundle `json:"style"`
	Decorations []string          `json:"decorations,omitempty"`
	Sections    []Section         `json:"sections"`
	Footer      string            `json:"footer"`
}

// Section holds exactly one of its payload pointers, matching Kind.
type Section struct {
	Kind     SectionKind `json:"kind"`
	Title    string      `json:"title,omitempty"`
	Hero     *Hero       `json:"hero,omitempty"`
	Story    *Story      `json:"story,omitempty"`
	Venue    *Venue      `json:"venue,omitempty"`
	Schedule *Schedule   `json:"schedule,omitempty"`
	RSVP     *RSVPForm   `json:"rsvp,omitempty"`
}

// Hero is the opening block with names and the event date.
type Hero struct {
	Eyebrow      string     `json:"eyebrow,omitempty"`
	Tagline      string     `json:"tagline,omitempty"`
	BrideName    string     `json:"bride_name"`
	GroomName    string     `json:"groom_name"`
	BrideInitial string     `json:"bride_initial"`
	GroomInitial string     `json:"groom_initial"`
	Joiner       string     `json:"joiner"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	DayName      string     `json:"day_name,omitempty"`
	YearBadge    string     `json:"year_badge,omitempty"`
	DateParts    *DateParts `json:"date_parts,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
}

// DateParts is the magazine-style split date.
type DateParts struct {
	Day        string `json:"day"`
	Month      string `json:"month"`
	Year       string `json:"year"`
	DayLabel   string `json:"day_label"`
	MonthLabel string `json:"month_label"`
	TimeLabel  string `json:"time_label"`
}

// Story is the sanitized couple narrative.
type Story struct {
	Text string `json:"text"`
}

// Venue is the location block.
type Venue struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	MapURL   string `json:"map_url,omitempty"`
	MapLabel string `json:"map_label,omitempty"`
}

// Schedule lists the program in stored order.
type Schedule struct {
	Items []models.ScheduleItem `json:"items"`
}

// RSVPForm is the embedded submission surface. It only exists for persisted
// invitations.
type RSVPForm struct {
	InviteID string `json:"invite_id"`
	Action   string `json:"action"`
}

// Kinds returns the section kinds in document order.
func (d Document) Kinds() []SectionKind {
	out := make([]SectionKind, 0, len(d.Sections))
	for _, s := range d.Sections {
		out = append(out, s.Kind)
	}
	return out
}

// Section returns the first section of kind.
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Has reports whether the document contains a section of kind.
func (d Document) Has(kind SectionKind) bool {
	_, ok := d.Section(kind)
	return ok
}
