package invites

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aura-invites/backend/internal/models"
	apperrors "github.com/aura-invites/backend/pkg/errors"
)

func validInput() Input {
	return Input{
		TemplateID:   models.TemplateFloral,
		Published:    true,
		BrideName:    "Ayşe",
		GroomName:    "Mehmet",
		EventDate:    "2025-06-15",
		EventTime:    "16:00",
		VenueName:    "Çırağan Sarayı",
		VenueAddress: "Beşiktaş, İstanbul",
		ScheduleItems: []models.ScheduleItem{
			{Time: "16:00", Title: "Karşılama"},
			{Time: "17:00", Title: "Nikah"},
		},
		HeroImageURL: "https://cdn.example.com/images/hero.jpg",
		RSVPEnabled:  true,
	}
}

func TestCreateSuggestsSlug(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), nil, nil)
	owner := uuid.New()

	first, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	require.Equal(t, "ayse-mehmet", first.Slug)
	require.True(t, first.Persisted())
	require.Equal(t, owner, first.OwnerID)
	require.Equal(t, "A", first.BrideInitial)
	require.Equal(t, "M", first.GroomInitial)
	require.Equal(t, models.DefaultPrimaryColor, first.ThemeTokens.PrimaryColor)

	second, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	require.Equal(t, "ayse-mehmet-2", second.Slug)
}

func TestCreateRejectsTakenSlug(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), nil, nil)
	in := validInput()
	in.Slug = "Bizim-Dugun"
	inv, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	require.Equal(t, "bizim-dugun", inv.Slug)

	_, err = svc.Create(context.Background(), uuid.New(), in)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "slug")
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := NewService(store, nil, nil)
	in := validInput()
	in.BrideName = "  "
	in.EventTime = "25:00"
	in.Slug = "not a slug"
	in.ThemeTokens.PrimaryColor = "gold"
	in.ScheduleItems = append(in.ScheduleItems, models.ScheduleItem{Time: "7pm", Title: "Dans"})

	_, err := svc.Create(context.Background(), uuid.New(), in)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "bride_name")
	require.Contains(t, ve.Fields, "event_time")
	require.Contains(t, ve.Fields, "slug")
	require.Contains(t, ve.Fields, "theme_tokens.primary_color")
	require.Contains(t, ve.Fields, "schedule_items[2].time")

	list, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCreateLengthBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		mut   func(*Input)
		field string
	}{
		{"slug of two", func(in *Input) { in.Slug = "ab" }, "slug"},
		{"one letter bride", func(in *Input) { in.BrideName = "A" }, "bride_name"},
		{"one letter groom padded", func(in *Input) { in.GroomName = " M " }, "groom_name"},
		{"one letter venue", func(in *Input) { in.VenueName = "X" }, "venue_name"},
		{"four letter address", func(in *Input) { in.VenueAddress = "Yol " }, "venue_address"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(newMemStore(), nil, nil)
			in := validInput()
			tc.mut(&in)
			_, err := svc.Create(context.Background(), uuid.New(), in)
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Contains(t, ve.Fields, tc.field)
		})
	}

	t.Run("minimums accepted", func(t *testing.T) {
		t.Parallel()
		svc := NewService(newMemStore(), nil, nil)
		in := validInput()
		in.Slug = "abc"
		in.BrideName = "Su"
		in.GroomName = "Ali"
		in.VenueName = "Ev"
		in.VenueAddress = "Ada 1"
		inv, err := svc.Create(context.Background(), uuid.New(), in)
		require.NoError(t, err)
		require.Equal(t, "abc", inv.Slug)
	})

	t.Run("short suggested slug is padded", func(t *testing.T) {
		t.Parallel()
		svc := NewService(newMemStore(), nil, nil)
		in := validInput()
		in.BrideName = "!!"
		in.GroomName = "Al"
		inv, err := svc.Create(context.Background(), uuid.New(), in)
		require.NoError(t, err)
		require.Equal(t, "davet-al", inv.Slug)
	})
}

func TestUnknownTemplateIsCoercedOnSave(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore(), nil, nil)
	in := validInput()
	in.TemplateID = ""
	inv, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	require.Equal(t, models.TemplateClassic, inv.TemplateID)
}

func TestReplaceQueuesStaleAssets(t *testing.T) {
	t.Parallel()

	cleaner := &recordingCleaner{}
	svc := NewService(newMemStore(), cleaner, nil)
	in := validInput()
	in.AudioURL = "https://cdn.example.com/audio/song.mp3"
	inv, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)

	_, err = svc.Replace(context.Background(), *inv.ID, in)
	require.NoError(t, err)
	require.Empty(t, cleaner.queued(), "unchanged urls stay")

	in.HeroImageURL = "https://cdn.example.com/images/new.jpg"
	in.Slug = ""
	got, err := svc.Replace(context.Background(), *inv.ID, in)
	require.NoError(t, err)
	require.Equal(t, inv.Slug, got.Slug, "empty slug keeps the current one")
	require.Equal(t, []string{"https://cdn.example.com/images/hero.jpg"}, cleaner.queued())

	require.NoError(t, svc.Delete(context.Background(), *inv.ID))
	require.Equal(t, []string{
		"https://cdn.example.com/images/hero.jpg",
		"https://cdn.example.com/images/new.jpg",
		"https://cdn.example.com/audio/song.mp3",
	}, cleaner.queued())

	_, err = svc.Get(context.Background(), *inv.ID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestDuplicate(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := NewService(store, nil, nil)
	src, err := svc.Create(context.Background(), uuid.New(), validInput())
	require.NoError(t, err)
	store.mu.Lock()
	rec := store.byID[*src.ID]
	rec.ViewCount = 42
	store.byID[*src.ID] = rec
	store.mu.Unlock()

	caller := uuid.New()
	cp, err := svc.Duplicate(context.Background(), *src.ID, caller)
	require.NoError(t, err)
	require.NotEqual(t, *src.ID, *cp.ID)
	require.Equal(t, "ayse-mehmet-copy", cp.Slug)
	require.False(t, cp.Published)
	require.Zero(t, cp.ViewCount)
	require.Equal(t, caller, cp.OwnerID)
	require.Equal(t, src.ScheduleItems, cp.ScheduleItems)
	require.Equal(t, src.ThemeTokens, cp.ThemeTokens)

	again, err := svc.Duplicate(context.Background(), *src.ID, caller)
	require.NoError(t, err)
	require.Equal(t, "ayse-mehmet-copy-2", again.Slug)

	_, err = svc.Published(context.Background(), cp.Slug)
	require.True(t, apperrors.IsNotFound(err), "copies start as drafts")

	original, err := svc.Get(context.Background(), *src.ID)
	require.NoError(t, err)
	require.Equal(t, int64(42), original.ViewCount)
	require.True(t, original.Published)
}

func TestSharedAssetsSurviveCleanup(t *testing.T) {
	t.Parallel()

	const hero = "https://cdn.example.com/images/hero.jpg"
	const song = "https://cdn.example.com/audio/song.mp3"
	cleaner := &recordingCleaner{}
	svc := NewService(newMemStore(), cleaner, nil)
	in := validInput()
	in.AudioURL = song
	src, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)

	cp, err := svc.Duplicate(context.Background(), *src.ID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, hero, cp.HeroImageURL)

	require.NoError(t, svc.Delete(context.Background(), *src.ID))
	require.Empty(t, cleaner.queued(), "the copy still uses both files")

	got, err := svc.Get(context.Background(), *cp.ID)
	require.NoError(t, err)
	require.Equal(t, hero, got.HeroImageURL)
	require.Equal(t, song, got.AudioURL)

	require.NoError(t, svc.Delete(context.Background(), *cp.ID))
	require.Equal(t, []string{hero, song}, cleaner.queued())
}

func TestReplaceKeepsAssetUsedByCopy(t *testing.T) {
	t.Parallel()

	const hero = "https://cdn.example.com/images/hero.jpg"
	cleaner := &recordingCleaner{}
	svc := NewService(newMemStore(), cleaner, nil)
	src, err := svc.Create(context.Background(), uuid.New(), validInput())
	require.NoError(t, err)
	_, err = svc.Duplicate(context.Background(), *src.ID, uuid.New())
	require.NoError(t, err)

	in := validInput()
	in.HeroImageURL = "https://cdn.example.com/images/other.jpg"
	_, err = svc.Replace(context.Background(), *src.ID, in)
	require.NoError(t, err)
	require.NotContains(t, cleaner.queued(), hero, "the copy still shows it")
}

func TestStoreFailureIsPersistenceError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.err = errors.New("connection reset")
	svc := NewService(store, nil, nil)

	_, err := svc.Published(context.Background(), "ayse-mehmet")
	require.True(t, apperrors.IsPersistence(err))
	_, err = svc.Create(context.Background(), uuid.New(), validInput())
	require.True(t, apperrors.IsPersistence(err))
}

func TestSuggestSlug(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ayse-mehmet", SuggestSlug("Ayşe", "Mehmet"))
	require.Equal(t, "gul-cagri", SuggestSlug(" Gül ", "Çağrı"))
	require.LessOrEqual(t, len(SuggestSlug(strings.Repeat("a", 70), strings.Repeat("b", 70))), maxSlugLen)
}
