package render

import (
	"time"

	"github.com/aura-invites/backend/internal/models"
)

// Per-template theme used by the demo pages.
var sampleThemes = map[models.TemplateID]models.ThemeTokens{
	models.TemplateClassic:         {PrimaryColor: "#B8860B", Background: models.BackgroundIvory, FontPreset: models.FontSerif},
	models.TemplateModern:          {PrimaryColor: "#1a1a1a", Background: models.BackgroundWhite, FontPreset: models.FontModern},
	models.TemplateMinimal:         {PrimaryColor: "#666666", Background: models.BackgroundWhite, FontPreset: models.FontModern},
	models.TemplateFloral:          {PrimaryColor: "#D4A5A5", Background: models.BackgroundBlush, FontPreset: models.FontHandwritten},
	models.TemplateVintage:         {PrimaryColor: "#8B4513", Background: models.BackgroundIvory, FontPreset: models.FontSerif},
	models.TemplateEditorialLuxury: {PrimaryColor: "#1a1a1a", Background: models.BackgroundDark, FontPreset: models.FontSerif},
}

// Sample returns demo invitation data styled for id. It has no identifier,
// so it never renders an RSVP form. Unknown ids get the classic look.
func Sample(id models.TemplateID) models.Invitation {
	tokens, ok := sampleThemes[id]
	if !ok {
		id = models.DefaultTemplateID
		tokens = sampleThemes[id]
	}
	return models.Invitation{
		Slug:         "demo",
		TemplateID:   id,
		Published:    true,
		BrideName:    "Ayşe",
		GroomName:    "Mehmet",
		BrideInitial: "A",
		GroomInitial: "M",
		EventDate:    models.NewDate(2025, time.June, 15),
		EventTime:    "16:00",
		VenueName:    "Çırağan Sarayı",
		VenueAddress: "Çırağan Cad. No:32, Beşiktaş, İstanbul",
		MapURL:       "https://maps.google.com/?q=Ciragan+Palace",
		ScheduleItems: []models.ScheduleItem{
			{Time: "16:00", Title: "Nikah Töreni", Note: "Ana salonda gerçekleşecektir"},
			{Time: "17:00", Title: "Kokteyl", Note: "Bahçede ikramlar"},
			{Time: "19:00", Title: "Akşam Yemeği", Note: "Özel menü"},
			{Time: "21:00", Title: "Müzik & Dans", Note: "DJ performansı"},
		},
		StoryText:   "İlk kez 5 yıl önce bir arkadaş toplantısında tanıştık. O andan itibaren hayatlarımız birbirine bağlandı ve şimdi bu özel günü sizinle paylaşmaktan mutluluk duyuyoruz.",
		ThemeTokens: tokens,
		RSVPEnabled: true,
	}
}
