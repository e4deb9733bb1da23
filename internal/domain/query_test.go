package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Validate(t *testing.T) {
	origin := mustLocation(t, "Toronto", 43.6532, -79.3832)

	require.NoError(t, Query{Origin: &origin, RadiusKm: 5}.Validate())
	require.NoError(t, Query{Origin: &origin, RadiusKm: 5, Category: CategoryMusic}.Validate())
	require.NoError(t, Query{Origin: &origin, RadiusKm: MaxRadiusKm}.Validate())

	tests := []struct {
		name  string
		q     Query
		field string
	}{
		{"nil origin", Query{RadiusKm: 5}, "origin"},
		{"zero origin", Query{Origin: &Location{}, RadiusKm: 5}, "origin"},
		{"zero radius", Query{Origin: &origin}, "radius"},
		{"negative radius", Query{Origin: &origin, RadiusKm: -1}, "radius"},
		{"NaN radius", Query{Origin: &origin, RadiusKm: math.NaN()}, "radius"},
		{"infinite radius", Query{Origin: &origin, RadiusKm: math.Inf(1)}, "radius"},
		{"negative infinite radius", Query{Origin: &origin, RadiusKm: math.Inf(-1)}, "radius"},
		{"radius beyond max", Query{Origin: &origin, RadiusKm: MaxRadiusKm + 1}, "radius"},
		{"huge radius", Query{Origin: &origin, RadiusKm: 1e20}, "radius"},
		{"unknown category", Query{Origin: &origin, RadiusKm: 5, Category: "COMEDY"}, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, tt.q.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
