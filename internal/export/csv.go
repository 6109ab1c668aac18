// Package export renders guest-facing and operator-facing downloads: the
// RSVP spreadsheet and the calendar event.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
)

// BOM makes spreadsheet tools open the file as UTF-8.
const BOM = "\uFEFF"

// CSVContentType is sent with RSVP exports.
const CSVContentType = "text/csv; charset=utf-8"

var csvHeaderKeys = []string{"csv.name", "csv.email", "csv.status", "csv.guests", "csv.message", "csv.date"}

// WriteRSVPCSV writes rows as CSV: BOM first, a localized header, then one
// line per response. Every field is quoted and embedded quotes are doubled.
func WriteRSVPCSV(w io.Writer, rows []models.RSVP, loc *i18n.Localizer) error {
	if loc == nil {
		loc = i18n.New(i18n.DefaultLocale)
	}
	var b strings.Builder
	b.WriteString(BOM)

	header := make([]string, 0, len(csvHeaderKeys))
	for _, key := range csvHeaderKeys {
		header = append(header, loc.T(key))
	}
	writeCSVLine(&b, header)

	for _, r := range rows {
		writeCSVLine(&b, []string{
			r.Name,
			r.Email,
			statusLabel(loc, r.AttendanceStatus),
			strconv.Itoa(r.GuestCount),
			r.Message,
			loc.ShortDate(r.CreatedAt),
		})
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// CSVFilename names an export after the couple and the export day.
func CSVFilename(title string, now time.Time) string {
	return fmt.Sprintf("rsvp-%s-%s.csv", slug.Make(title), now.Format(models.DateLayout))
}

func statusLabel(loc *i18n.Localizer, s models.AttendanceStatus) string {
	if !s.Valid() {
		return string(s)
	}
	return loc.T("status." + string(s))
}

func writeCSVLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
