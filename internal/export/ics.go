package export

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
)

// EventDuration is the assumed length of the celebration.
const EventDuration = 4 * time.Hour

// ICSContentType is sent with calendar downloads.
const ICSContentType = "text/calendar; charset=utf-8"

const (
	icsProdID    = "-//Wedding Studio//TR"
	icsTimestamp = "20060102T150405Z"
	icsLineLimit = 75
	uidDomain    = "wedding-studio"
)

// Event is a calendar entry derived from an invitation.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// EventFor builds the calendar event for inv. Date and time are read in tz.
func EventFor(inv models.Invitation, tz *time.Location, loc *i18n.Localizer) (Event, error) {
	if loc == nil {
		loc = i18n.New(i18n.DefaultLocale)
	}
	start, err := inv.StartsAt(tz)
	if err != nil {
		return Event{}, fmt.Errorf("event start: %w", err)
	}
	title := inv.CoupleTitle()
	return Event{
		UID:         eventUID(inv),
		Summary:     title,
		Description: loc.T("calendar.description", title),
		Location:    inv.VenueName + ", " + inv.VenueAddress,
		Start:       start.UTC(),
		End:         start.Add(EventDuration).UTC(),
	}, nil
}

func eventUID(inv models.Invitation) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("invite:"+inv.Slug))
	if inv.Persisted() {
		id = *inv.ID
	}
	return id.String() + "@" + uidDomain
}

// ICS renders the event as an iCalendar document stamped at stamp.
func (e Event) ICS(stamp time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icsProdID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + e.UID,
		"DTSTAMP:" + stamp.UTC().Format(icsTimestamp),
		"DTSTART:" + e.Start.UTC().Format(icsTimestamp),
		"DTEND:" + e.End.UTC().Format(icsTimestamp),
		"SUMMARY:" + escapeText(e.Summary),
		"DESCRIPTION:" + escapeText(e.Description),
		"LOCATION:" + escapeText(e.Location),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fold(l))
		b.WriteString("\r\n")
	}
	return b.String()
}

// Filename is the download name for the event.
func (e Event) Filename() string {
	return slug.Make(e.Summary) + ".ics"
}

// GoogleCalendarURL returns a prefilled "add event" link.
func (e Event) GoogleCalendarURL() string {
	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", e.Summary)
	v.Set("dates", e.Start.UTC().Format(icsTimestamp)+"/"+e.End.UTC().Format(icsTimestamp))
	v.Set("details", e.Description)
	v.Set("location", e.Location)
	return "https://calendar.google.com/calendar/render?" + v.Encode()
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// fold splits content lines longer than 75 octets; continuation lines start
// with a single space. Multi-byte runes are never split.
func fold(line string) string {
	if len(line) <= icsLineLimit {
		return line
	}
	var b strings.Builder
	limit := icsLineLimit
	n := 0
	for _, r := range line {
		size := utf8.RuneLen(r)
		if n+size > limit {
			b.WriteString("\r\n ")
			n = 0
			limit = icsLineLimit - 1
		}
		b.WriteRune(r)
		n += size
	}
	return b.String()
}
