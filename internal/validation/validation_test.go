package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/aura-invites/backend/pkg/errors"
)

type sample struct {
	Slug    string `json:"slug" validate:"required,min=3,slug"`
	Initial string `json:"initial" validate:"single_char"`
	Color   string `json:"color" validate:"hex_rgb"`
	Time    string `json:"time" validate:"clock"`
	Name    string `json:"name" validate:"trimmed_min=2"`
	Status  string `json:"status" validate:"attendance"`
	Nested  []item `json:"items" validate:"dive"`
}

type item struct {
	Title string `json:"title" validate:"required"`
}

func validSample() sample {
	return sample{
		Slug:    "ayse-mehmet",
		Initial: "Ş",
		Color:   "#B8860B",
		Time:    "16:00",
		Name:    "Ay",
		Status:  "maybe",
	}
}

func TestStructAcceptsValidInput(t *testing.T) {
	t.Parallel()
	require.NoError(t, Struct(validSample()))
}

func TestStructReportsEveryField(t *testing.T) {
	t.Parallel()

	s := sample{
		Slug:    "Ayse Mehmet",
		Initial: "AB",
		Color:   "gold",
		Time:    "25:00",
		Name:    " A ",
		Status:  "yes",
		Nested:  []item{{Title: "ok"}, {}},
	}
	err := Struct(s)
	require.Error(t, err)

	var ve *apperrors.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, []string{"color", "initial", "items[1].title", "name", "slug", "status", "time"}, ve.FieldNames())
	require.Equal(t, "must be exactly one character", ve.Fields["initial"])
}

func TestCustomRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*sample)
		field  string
	}{
		{"short slug", func(s *sample) { s.Slug = "ab" }, "slug"},
		{"uppercase slug", func(s *sample) { s.Slug = "Abc" }, "slug"},
		{"empty initial", func(s *sample) { s.Initial = "" }, "initial"},
		{"short hex", func(s *sample) { s.Color = "#fff" }, "color"},
		{"bad clock", func(s *sample) { s.Time = "4pm" }, "time"},
		{"blank name", func(s *sample) { s.Name = "  " }, "name"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := validSample()
			tc.mutate(&s)
			var ve *apperrors.ValidationError
			require.True(t, errors.As(Struct(s), &ve))
			require.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestEmptyColorIsAllowed(t *testing.T) {
	t.Parallel()
	s := validSample()
	s.Color = ""
	require.NoError(t, Struct(s))
}
