package render

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
)

// Gate describes the envelope gate shown before the document.
type Gate struct {
	InitialState string
	CanSkip      bool
	AudioURL     string
	PlanJSON     string
}

// CalendarLinks are the "add to calendar" targets shown under the document.
type CalendarLinks struct {
	Google string
	ICS    string
}

// Page is everything the HTML writer needs for one invitation page.
type Page struct {
	Doc      Document
	Head     *Head
	Gate     *Gate
	Calendar *CalendarLinks
	Lang     string
	Local    *i18n.Localizer
}

// HTML returns a component writing the full page. All text and attribute
// values are escaped.
func HTML(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.page(p)
		return hw.err
	})
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *htmlWriter) open(tag, class string) {
	h.raw("<", tag)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
}

func (h *htmlWriter) elem(tag, class, content string) {
	if content == "" {
		return
	}
	h.open(tag, class)
	h.text(content)
	h.raw("</", tag, ">")
}

func (h *htmlWriter) page(p Page) {
	doc := p.Doc
	lang := p.Lang
	if lang == "" {
		lang = "tr"
	}
	title := doc.Footer
	var tags []MetaTag
	if p.Head != nil {
		title = p.Head.Title()
		tags = p.Head.Tags()
	}

	h.raw("<!DOCTYPE html><html")
	h.attr("lang", lang)
	h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.elem("title", "", title)
	for _, t := range tags {
		h.raw("<meta")
		h.attr(t.Attr, t.Key)
		h.attr("content", t.Content)
		h.raw(">")
	}
	h.raw("</head><body")
	h.attr("class", "invite template-"+string(doc.TemplateID))
	h.attr("style", styleAttr(doc))
	if len(doc.Decorations) > 0 {
		h.attr("data-decorations", strings.Join(doc.Decorations, " "))
	}
	h.raw(">")

	if p.Gate != nil {
		h.gate(*p.Gate, p.Local)
	}

	h.raw("<main")
	if p.Gate != nil && p.Gate.InitialState != "revealed" {
		h.raw(" hidden")
	}
	h.raw(">")
	for _, s := range doc.Sections {
		h.section(s, p.Local)
	}
	if p.Calendar != nil && p.Local != nil {
		h.calendar(*p.Calendar, p.Local)
	}
	h.raw("</main>")
	h.elem("footer", "invite-footer", doc.Footer)
	h.raw("</body></html>")
}

func (h *htmlWriter) calendar(links CalendarLinks, loc *i18n.Localizer) {
	h.raw(`<nav class="calendar-links">`)
	h.elem("span", "", loc.T("calendar.add"))
	if links.Google != "" {
		h.raw("<a")
		h.attr("href", string(templ.URL(links.Google)))
		h.raw(` target="_blank" rel="noopener noreferrer">Google Calendar</a>`)
	}
	if links.ICS != "" {
		h.raw("<a")
		h.attr("href", string(templ.URL(links.ICS)))
		h.raw(" download>Apple Calendar (.ics)</a>")
	}
	h.raw("</nav>")
}

// NotFoundPage is shown for unknown or unpublished slugs.
func NotFoundPage(loc *i18n.Localizer) templ.Component {
	if loc == nil {
		loc = i18n.New(i18n.DefaultLocale)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!DOCTYPE html><html")
		hw.attr("lang", strings.SplitN(loc.Locale(), "-", 2)[0])
		hw.raw(`><head><meta charset="utf-8">`)
		hw.elem("title", "", loc.T("notfound.title"))
		hw.raw(`</head><body class="invite-missing">`)
		hw.elem("h1", "", loc.T("notfound.title"))
		hw.raw("</body></html>")
		return hw.err
	})
}

func (h *htmlWriter) gate(g Gate, loc *i18n.Localizer) {
	h.raw("<div")
	h.attr("class", "envelope")
	h.attr("data-state", g.InitialState)
	h.attr("data-can-skip", strconv.FormatBool(g.CanSkip))
	if g.AudioURL != "" {
		h.attr("data-audio", string(templ.URL(g.AudioURL)))
	}
	h.attr("data-plan", g.PlanJSON)
	h.raw(">")
	if loc != nil && g.InitialState != "revealed" {
		h.raw(`<button type="button" class="envelope-open">`)
		h.text(loc.T("envelope.open"))
		h.raw("</button>")
		if g.CanSkip {
			h.raw(`<button type="button" class="envelope-skip">`)
			h.text(loc.T("envelope.skip"))
			h.raw("</button>")
		}
	}
	h.raw("</div>")
}

func (h *htmlWriter) section(s Section, loc *i18n.Localizer) {
	h.raw("<section")
	h.attr("class", "invite-"+string(s.Kind))
	h.raw(">")
	h.elem("h2", "section-title", s.Title)
	switch {
	case s.Hero != nil:
		h.hero(*s.Hero)
	case s.Story != nil:
		h.elem("p", "story", s.Story.Text)
	case s.Venue != nil:
		h.elem("h3", "venue-name", s.Venue.Name)
		h.elem("p", "venue-address", s.Venue.Address)
		if s.Venue.MapURL != "" {
			h.raw("<a")
			h.attr("href", string(templ.URL(s.Venue.MapURL)))
			h.raw(` target="_blank" rel="noopener noreferrer">`)
			h.text(s.Venue.MapLabel)
			h.raw("</a>")
		}
	case s.Schedule != nil:
		h.raw(`<ol class="schedule">`)
		for _, item := range s.Schedule.Items {
			h.raw("<li>")
			h.elem("time", "", item.Time)
			h.elem("strong", "", item.Title)
			h.elem("span", "note", item.Note)
			h.raw("</li>")
		}
		h.raw("</ol>")
	case s.RSVP != nil:
		h.rsvpForm(*s.RSVP, loc)
	}
	h.raw("</section>")
}

func (h *htmlWriter) hero(hr Hero) {
	if hr.ImageURL != "" {
		h.raw("<img")
		h.attr("src", string(templ.URL(hr.ImageURL)))
		h.attr("alt", hr.BrideName+" "+hr.Joiner+" "+hr.GroomName)
		h.raw(">")
	}
	h.elem("p", "eyebrow", hr.Eyebrow)
	h.elem("p", "seal", hr.BrideInitial+hr.GroomInitial)
	h.raw(`<h1 class="couple">`)
	h.text(hr.BrideName)
	h.elem("span", "joiner", hr.Joiner)
	h.text(hr.GroomName)
	h.raw("</h1>")
	h.elem("p", "tagline", hr.Tagline)
	if hr.DateParts != nil {
		dp := hr.DateParts
		h.raw(`<dl class="date-parts">`)
		h.elem("dt", "", dp.DayLabel)
		h.elem("dd", "", dp.Day)
		h.elem("dt", "", dp.MonthLabel)
		h.elem("dd", "", dp.Month)
		h.elem("dt", "", dp.TimeLabel)
		h.elem("dd", "", hr.Time)
		h.raw("</dl>")
		h.elem("p", "year", dp.Year)
	} else {
		h.elem("p", "day-name", hr.DayName)
		h.elem("p", "date", hr.Date)
		h.elem("p", "time", hr.Time)
	}
	h.elem("span", "year-badge", hr.YearBadge)
}

func (h *htmlWriter) rsvpForm(f RSVPForm, loc *i18n.Localizer) {
	label := func(key string) string {
		if loc == nil {
			return key
		}
		return loc.T(key)
	}
	h.raw("<form")
	h.attr("method", "post")
	h.attr("action", f.Action)
	h.attr("data-invite-id", f.InviteID)
	h.raw(">")

	h.raw("<label>")
	h.text(label("rsvp.name"))
	h.raw(`<input name="name" required minlength="2"></label>`)
	h.raw("<label>")
	h.text(label("rsvp.email"))
	h.raw(`<input type="email" name="email" required></label>`)

	h.raw("<fieldset>")
	h.elem("legend", "", label("rsvp.status"))
	for i, st := range models.AttendanceStatuses {
		h.raw(`<label><input type="radio" name="attendance_status"`)
		h.attr("value", string(st))
		if i == 0 {
			h.raw(" checked")
		}
		h.raw(">")
		h.text(label("rsvp.status." + string(st)))
		h.raw("</label>")
	}
	h.raw("</fieldset>")

	h.raw("<label>")
	h.text(label("rsvp.guests"))
	h.raw(`<input type="number" name="guest_count" value="1"`)
	h.attr("min", strconv.Itoa(models.MinGuestCount))
	h.attr("max", strconv.Itoa(models.MaxGuestCount))
	h.raw("></label>")

	h.raw("<label>")
	h.text(label("rsvp.message"))
	h.raw(`<textarea name="message" maxlength="1000"></textarea></label>`)
	h.raw(`<button type="submit">`)
	h.text(label("rsvp.submit"))
	h.raw("</button></form>")
}

// styleAttr renders the CSS custom properties as an inline style so font
// family quotes survive attribute escaping.
func styleAttr(doc Document) string {
	var b strings.Builder
	for _, v := range doc.Style.CSSVariables() {
		b.WriteString(v.Name)
		b.WriteString(":")
		b.WriteString(v.Value)
		b.WriteString(";")
	}
	return b.String()
}
