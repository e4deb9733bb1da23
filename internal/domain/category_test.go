package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"Rock Concert", CategoryMusic},
		{"MUSIC", CategoryMusic},
		{"NBA Basketball", CategorySports},
		{"Sports", CategorySports},
		{"Ice Hockey", CategorySports},
		{"Arts & Theatre", CategoryArtsTheatre},
		{"Broadway Theater", CategoryArtsTheatre},
		{"Ballet", CategoryArtsTheatre},
		{"Film", CategoryFilm},
		{"Movie Night", CategoryFilm},
		{"", CategoryMiscellaneous},
		{"xyz-unknown", CategoryMiscellaneous},
		{"Undefined", CategoryMiscellaneous},
		// Earlier rules win: "music" is checked before "dance".
		{"Dance Music", CategoryMusic},
		// "sports" is checked before "film".
		{"Sports Film Festival", CategorySports},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestCategory_DisplayName(t *testing.T) {
	assert.Equal(t, "Music", CategoryMusic.DisplayName())
	assert.Equal(t, "Arts & Theatre", CategoryArtsTheatre.DisplayName())
	assert.Equal(t, "Miscellaneous", CategoryMiscellaneous.DisplayName())
	assert.Equal(t, "BOGUS", Category("BOGUS").DisplayName())
}

func TestParseCategory(t *testing.T) {
	for _, in := range []string{"music", "MUSIC", " Music "} {
		c, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, CategoryMusic, c)
	}

	c, err := ParseCategory("arts & theatre")
	require.NoError(t, err)
	assert.Equal(t, CategoryArtsTheatre, c)

	c, err = ParseCategory("arts_theatre")
	require.NoError(t, err)
	assert.Equal(t, CategoryArtsTheatre, c)

	_, err = ParseCategory("comedy")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestCategory_UnmarshalJSON(t *testing.T) {
	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"SPORTS"`), &c))
	assert.Equal(t, CategorySports, c)

	require.NoError(t, json.Unmarshal([]byte(`"Film"`), &c))
	assert.Equal(t, CategoryFilm, c)

	require.NoError(t, json.Unmarshal([]byte(`"something else"`), &c))
	assert.Equal(t, CategoryMiscellaneous, c)
}
