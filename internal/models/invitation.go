package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemplateID identifies one of the fixed invitation layouts.
type TemplateID string

const (
	TemplateClassic         TemplateID = "classic"
	TemplateModern          TemplateID = "modern"
	TemplateMinimal         TemplateID = "minimal"
	TemplateFloral          TemplateID = "floral"
	TemplateVintage         TemplateID = "vintage"
	TemplateEditorialLuxury TemplateID = "editorial-luxury"

	// DefaultTemplateID is used whenever an id is missing or unknown.
	DefaultTemplateID = TemplateClassic
)

// TemplateIDs lists every template id in catalog order.
var TemplateIDs = []TemplateID{
	TemplateClassic,
	TemplateModern,
	TemplateMinimal,
	TemplateFloral,
	TemplateVintage,
	TemplateEditorialLuxury,
}

// Valid reports whether id is a member of the template enumeration.
func (id TemplateID) Valid() bool {
	for _, known := range TemplateIDs {
		if id == known {
			return true
		}
	}
	return false
}

// Background is the invitation surface style.
type Background string

const (
	BackgroundIvory Background = "ivory"
	BackgroundWhite Background = "white"
	BackgroundBlush Background = "blush"
	BackgroundDark  Background = "dark"
)

// FontPreset selects the heading/body font pairing.
type FontPreset string

const (
	FontSerif       FontPreset = "serif"
	FontModern      FontPreset = "modern"
	FontHandwritten FontPreset = "handwritten"
)

// Theme token defaults.
const (
	DefaultPrimaryColor = "#B8860B"
	DefaultBackground   = BackgroundIvory
	DefaultFontPreset   = FontSerif
)

// ThemeTokens is the three-field customization surface of an invitation.
type ThemeTokens struct {
	PrimaryColor string     `json:"primary_color" validate:"hex_rgb"`
	Background   Background `json:"background" validate:"omitempty,oneof=ivory white blush dark"`
	FontPreset   FontPreset `json:"font_preset" validate:"omitempty,oneof=serif modern handwritten"`
}

// WithDefaults returns a copy where every missing or unknown field is
// replaced by its hard default.
func (t ThemeTokens) WithDefaults() ThemeTokens {
	out := t
	if strings.TrimSpace(out.PrimaryColor) == "" {
		out.PrimaryColor = DefaultPrimaryColor
	}
	switch out.Background {
	case BackgroundIvory, BackgroundWhite, BackgroundBlush, BackgroundDark:
	default:
		out.Background = DefaultBackground
	}
	switch out.FontPreset {
	case FontSerif, FontModern, FontHandwritten:
	default:
		out.FontPreset = DefaultFontPreset
	}
	return out
}

// ScheduleItem is one entry of the day's program. Order is meaningful.
type ScheduleItem struct {
	Time  string `json:"time" validate:"required,clock"`
	Title string `json:"title" validate:"required,max=120"`
	Note  string `json:"note,omitempty" validate:"max=300"`
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without time-of-day, serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "YYYY-MM-DD"; an empty string yields the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Invitation is the durable invitation record. ID is nil until persisted;
// an unsaved preview never collects RSVPs.
type Invitation struct {
	ID            *uuid.UUID     `json:"id,omitempty"`
	OwnerID       uuid.UUID      `json:"owner_id"`
	Slug          string         `json:"slug"`
	TemplateID    TemplateID     `json:"template_id"`
	Published     bool           `json:"published"`
	BrideName     string         `json:"bride_name"`
	GroomName     string         `json:"groom_name"`
	BrideInitial  string         `json:"bride_initial"`
	GroomInitial  string         `json:"groom_initial"`
	EventDate     Date           `json:"event_date"`
	EventTime     string         `json:"event_time"`
	VenueName     string         `json:"venue_name"`
	VenueAddress  string         `json:"venue_address"`
	MapURL        string         `json:"map_url,omitempty"`
	ScheduleItems []ScheduleItem `json:"schedule_items"`
	StoryText     string         `json:"story_text,omitempty"`
	HeroImageURL  string         `json:"hero_image_url,omitempty"`
	AudioURL      string         `json:"audio_url,omitempty"`
	ThemeTokens   ThemeTokens    `json:"theme_tokens"`
	RSVPEnabled   bool           `json:"rsvp_enabled"`
	RSVPDeadline  *Date          `json:"rsvp_deadline,omitempty"`
	ViewCount     int64          `json:"view_count"`
	SkipEnvelope  bool           `json:"skip_envelope"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Persisted reports whether the record has an identifier.
func (inv *Invitation) Persisted() bool {
	return inv != nil && inv.ID != nil && *inv.ID != uuid.Nil
}

// CoupleTitle returns "Bride & Groom".
func (inv *Invitation) CoupleTitle() string {
	return inv.BrideName + " & " + inv.GroomName
}

// RSVPClosed reports whether the RSVP deadline has passed at now.
func (inv *Invitation) RSVPClosed(now time.Time) bool {
	if inv.RSVPDeadline == nil || inv.RSVPDeadline.IsZero() {
		return false
	}
	return DateOf(now).After(inv.RSVPDeadline.Time)
}

// StartsAt combines EventDate and EventTime ("HH:MM") in loc.
func (inv *Invitation) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	clock, err := time.Parse("15:04", strings.TrimSpace(inv.EventTime))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse event time %q: %w", inv.EventTime, err)
	}
	d := inv.EventDate
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
