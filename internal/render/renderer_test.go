package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
)

func newTestRenderer() *Renderer {
	return NewRenderer(i18n.New("tr-TR"))
}

func persisted(inv models.Invitation) models.Invitation {
	id := uuid.MustParse("6f1c2a0e-4b7d-4c51-9a53-2f7e0d1b9abc")
	inv.ID = &id
	return inv
}

func TestStoryPresenceForEveryVariant(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	for _, id := range models.TemplateIDs {
		id := id
		t.Run(string(id), func(t *testing.T) {
			t.Parallel()

			inv := Sample(id)
			inv.StoryText = ""
			require.False(t, r.Render(inv, true).Has(SectionStory))

			inv.StoryText = "   "
			require.False(t, r.Render(inv, true).Has(SectionStory))

			inv.StoryText = "<b></b> <br>"
			require.False(t, r.Render(inv, true).Has(SectionStory), "markup alone is no story")

			inv.StoryText = "Bir yaz akşamı tanıştık."
			doc := r.Render(inv, true)
			s, ok := doc.Section(SectionStory)
			require.True(t, ok)
			require.Equal(t, "Bir yaz akşamı tanıştık.", s.Story.Text)
		})
	}
}

func TestScheduleOrderIsPreserved(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	for _, n := range []int{0, 1, 5} {
		for _, id := range models.TemplateIDs {
			inv := Sample(id)
			inv.ScheduleItems = nil
			for i := 0; i < n; i++ {
				inv.ScheduleItems = append(inv.ScheduleItems, models.ScheduleItem{
					Time:  fmt.Sprintf("%02d:00", 23-i),
					Title: fmt.Sprintf("item-%d", i),
				})
			}

			doc := r.Render(inv, false)
			s, ok := doc.Section(SectionSchedule)
			if n == 0 {
				require.False(t, ok, "%s with no items", id)
				continue
			}
			require.True(t, ok)
			require.Equal(t, inv.ScheduleItems, s.Schedule.Items, "%s n=%d", id, n)
		}
	}
}

func TestRSVPSectionGating(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	for _, id := range models.TemplateIDs {
		inv := persisted(Sample(id))
		inv.RSVPEnabled = true

		doc := r.Render(inv, true)
		s, ok := doc.Section(SectionRSVP)
		require.True(t, ok, id)
		require.Equal(t, inv.ID.String(), s.RSVP.InviteID)
		require.Equal(t, "/api/invites/"+inv.ID.String()+"/rsvps", s.RSVP.Action)

		require.False(t, r.Render(inv, false).Has(SectionRSVP))

		disabled := inv
		disabled.RSVPEnabled = false
		require.False(t, r.Render(disabled, true).Has(SectionRSVP))

		unsaved := inv
		unsaved.ID = nil
		require.False(t, r.Render(unsaved, true).Has(SectionRSVP), "unsaved preview %s", id)
	}
}

func TestSectionOrderPerVariant(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	standard := []SectionKind{SectionHero, SectionStory, SectionVenue, SectionSchedule, SectionRSVP}
	for _, id := range models.TemplateIDs {
		inv := persisted(Sample(id))
		want := standard
		if id == models.TemplateModern {
			want = []SectionKind{SectionHero, SectionStory, SectionSchedule, SectionVenue, SectionRSVP}
		}
		require.Equal(t, want, r.Render(inv, true).Kinds(), id)
	}
}

func TestUnknownTemplateFallsBackToClassic(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	inv := Sample(models.TemplateClassic)
	want := r.Render(inv, false)

	inv.TemplateID = "art-deco"
	got := r.Render(inv, false)
	require.Equal(t, models.TemplateClassic, got.TemplateID)
	require.Equal(t, want.Kinds(), got.Kinds())
	require.Equal(t, want.Decorations, got.Decorations)
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	inv := persisted(Sample(models.TemplateFloral))
	inv.StoryText = "<b>Merhaba</b>"
	before := inv
	beforeItems := append([]models.ScheduleItem(nil), inv.ScheduleItems...)

	doc := r.Render(inv, true)
	s, _ := doc.Section(SectionSchedule)
	s.Schedule.Items[0].Title = "changed"

	require.Equal(t, before.StoryText, inv.StoryText)
	require.Equal(t, beforeItems, inv.ScheduleItems)
	require.Equal(t, before.ThemeTokens, inv.ThemeTokens)
}

func TestHeroIsLocalized(t *testing.T) {
	t.Parallel()

	inv := Sample(models.TemplateEditorialLuxury)
	doc := newTestRenderer().Render(inv, false)
	hero, ok := doc.Section(SectionHero)
	require.True(t, ok)
	require.Equal(t, "15 Haziran 2025", hero.Hero.Date)
	require.Equal(t, "Haziran", hero.Hero.DateParts.Month)
	require.Equal(t, "Ayşe & Mehmet · 2025", doc.Footer)
	require.True(t, doc.Style.IsDark())

	en := NewRenderer(i18n.New("en-US")).Render(Sample(models.TemplateMinimal), false)
	hero, _ = en.Section(SectionHero)
	require.Equal(t, "15 June 2025", hero.Hero.Date)
	require.Equal(t, "Sunday", hero.Hero.DayName)
	require.Equal(t, "and", hero.Hero.Joiner)
}

func TestVariantTitles(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	vintage := r.Render(persisted(Sample(models.TemplateVintage)), true)
	s, _ := vintage.Section(SectionSchedule)
	require.Equal(t, "Günün Akışı", s.Title)
	s, _ = vintage.Section(SectionRSVP)
	require.Equal(t, "Lütfen Bildirin", s.Title)
	hero, _ := vintage.Section(SectionHero)
	require.Equal(t, "2025", hero.Hero.YearBadge)

	classic := r.Render(Sample(models.TemplateClassic), false)
	venue, _ := classic.Section(SectionVenue)
	require.Equal(t, "Mekan", venue.Title)
	require.Equal(t, "Haritada Görüntüle", venue.Venue.MapLabel)

	noMap := Sample(models.TemplateClassic)
	noMap.MapURL = ""
	venue, _ = r.Render(noMap, false).Section(SectionVenue)
	require.Empty(t, venue.Venue.MapURL)
	require.Empty(t, venue.Venue.MapLabel)
}

func TestStoryIsSanitized(t *testing.T) {
	t.Parallel()

	inv := Sample(models.TemplateClassic)
	inv.StoryText = `Tanıştık <script>alert(1)</script>& evlendik`
	s, ok := newTestRenderer().Render(inv, false).Section(SectionStory)
	require.True(t, ok)
	require.NotContains(t, s.Story.Text, "<script>")
	require.Contains(t, s.Story.Text, "& evlendik")
}

func TestHTMLEscapesContent(t *testing.T) {
	t.Parallel()

	r := newTestRenderer()
	inv := persisted(Sample(models.TemplateModern))
	inv.BrideName = `<img src=x onerror=alert(1)>`
	doc := r.Render(inv, true)

	head := NewHead("Wedding Studio")
	restore := head.Acquire(MetaFor(inv, "https://davet.example", r.Localizer()))
	defer restore()

	var buf bytes.Buffer
	err := HTML(Page{Doc: doc, Head: head, Local: r.Localizer()}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.NotContains(t, out, "<img src=x")
	require.Contains(t, out, "&lt;img src=x")
	require.Contains(t, out, `action="/api/invites/`+inv.ID.String()+`/rsvps"`)
	require.Contains(t, out, `property="og:url" content="https://davet.example/i/demo"`)
	require.Contains(t, out, "--invite-primary:#1a1a1a;")
}

func TestHeadRestoresDefaults(t *testing.T) {
	t.Parallel()

	head := NewHead("Wedding Studio")
	restore := head.Acquire(PageMeta{Title: "Ayşe & Mehmet", Description: "d", Image: "https://cdn/x.jpg"})
	require.Equal(t, "Ayşe & Mehmet", head.Title())

	keys := map[string]string{}
	for _, tag := range head.Tags() {
		keys[tag.Key] = tag.Content
	}
	require.Equal(t, "1200", keys["og:image:width"])
	require.Equal(t, "630", keys["og:image:height"])
	require.Equal(t, "summary_large_image", keys["twitter:card"])
	_, hasURL := keys["og:url"]
	require.False(t, hasURL)

	restore()
	restore()
	require.Equal(t, "Wedding Studio", head.Title())
	require.Empty(t, head.Tags())
}
