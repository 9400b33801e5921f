package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bbceylan/pinbridge-web-sub000/internal/tables"
)

func newMapper() *Mapper {
	return New(tables.MustDefault().Categories)
}

func TestNormalize(t *testing.T) {
	m := newMapper()

	tests := []struct {
		name       string
		input      string
		want       string
		recognized bool
		method     Method
	}{
		{"empty", "", "", false, MethodAbsent},
		{"blank", "   ", "", false, MethodAbsent},
		{"direct", "restaurant", "restaurant", true, MethodDirect},
		{"direct mixed case", " Cafe ", "cafe", true, MethodDirect},
		{"multi word direct", "Gas Station", "gas_station", true, MethodDirect},
		{"synonym", "coffee_shop", "cafe", true, MethodSynonym},
		{"synonym with spaces", "Coffee Shop", "cafe", true, MethodSynonym},
		{"synonym hyphen", "fast-food", "restaurant", true, MethodSynonym},
		{"provider tag", "grocery_or_supermarket", "grocery", true, MethodSynonym},
		{"token", "italian_restaurant", "restaurant", true, MethodToken},
		{"token synonym", "Irish Pub", "bar", true, MethodToken},
		{"fuzzy typo", "resturant", "restaurant", true, MethodFuzzy},
		{"unrecognized", "zzzzqqq", Default, false, MethodNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.Resolve(tt.input)
			assert.Equal(t, tt.want, r.Canonical)
			assert.Equal(t, tt.recognized, r.Recognized)
			assert.Equal(t, tt.method, r.Method)

			got, ok := m.Normalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.recognized, ok)
		})
	}
}

func TestNormalize_FuzzyReportsSimilarity(t *testing.T) {
	m := newMapper()
	r := m.Resolve("resturant")
	assert.GreaterOrEqual(t, r.Similarity, FuzzyThreshold)
	assert.LessOrEqual(t, r.Similarity, 1.0)
}

func TestSimilarity(t *testing.T) {
	m := newMapper()

	tests := []struct {
		name     string
		a, b     string
		want     int
		relation Relation
	}{
		{"both absent", "", "", 50, RelationBothAbsent},
		{"one absent", "restaurant", "", 25, RelationOneAbsent},
		{"other absent", "", "cafe", 25, RelationOneAbsent},
		{"unrecognized counts as absent", "zzzzqqq", "", 50, RelationBothAbsent},
		{"equal", "restaurant", "restaurant", 100, RelationEqual},
		{"equal via synonym", "coffee shop", "cafe", 100, RelationEqual},
		{"related", "restaurant", "cafe", 75, RelationRelated},
		{"related symmetric", "cafe", "restaurant", 75, RelationRelated},
		{"related declared one way", "night_club", "bar", 75, RelationRelated},
		{"unrelated", "restaurant", "bank", 0, RelationUnrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Similarity(tt.a, tt.b))
			assert.Equal(t, tt.relation, m.Compare(tt.a, tt.b).Relation)
		})
	}
}

func TestRelated_Symmetric(t *testing.T) {
	m := New([]tables.CategoryBucket{
		{Name: "a", Related: []string{"b"}},
		{Name: "b"},
		{Name: "c"},
	})
	assert.True(t, m.Related("a", "b"))
	assert.True(t, m.Related("b", "a"))
	assert.False(t, m.Related("a", "c"))
	assert.False(t, m.Related("a", "a"))
	assert.False(t, m.Related("unknown", "a"))
}

func TestNew_AlternateTaxonomy(t *testing.T) {
	m := New([]tables.CategoryBucket{
		{Name: "food", Aliases: []string{"restaurant"}},
		{Name: Default},
	})
	got, ok := m.Normalize("Restaurant")
	assert.True(t, ok)
	assert.Equal(t, "food", got)
}
