package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReference(t *testing.T) {
	c := Reference()

	entries := c.Entries()
	require.Len(t, entries, 6)
	keywords := make([]Category, len(entries))
	for i, e := range entries {
		keywords[i] = e.Keyword
	}
	assert.Equal(t, []Category{
		CategoryBeach, CategoryWildlife, CategoryMountain, CategoryTea, CategoryCultural, CategoryAdventure,
	}, keywords)
	assert.Equal(t, 23, c.Len())

	flat := c.Flatten()
	require.Len(t, flat, 23)
	assert.Equal(t, "Unawatuna Beach", flat[0].Name)
	assert.Equal(t, "Hot Air Ballooning", flat[len(flat)-1].Name)

	d, ok := c.Lookup("Mirissa Beach")
	require.True(t, ok)
	assert.Equal(t, CategoryBeach, d.Category)
	assert.Equal(t, "Whale watching and stunning sunsets", d.Description)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{
			name: "duplicate name across entries",
			entries: []Entry{
				{Keyword: CategoryBeach, Destinations: []Destination{{Name: "A"}}},
				{Keyword: CategoryTea, Destinations: []Destination{{Name: "A"}}},
			},
		},
		{
			name: "duplicate keyword",
			entries: []Entry{
				{Keyword: CategoryBeach},
				{Keyword: CategoryBeach},
			},
		},
		{
			name:    "empty keyword",
			entries: []Entry{{Keyword: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries...)
			assert.Error(t, err)
		})
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := MustNew(Entry{Keyword: CategoryBeach, Destinations: []Destination{{Name: "A"}}})

	entries := c.Entries()
	entries[0].Destinations[0].Name = "changed"

	d, ok := c.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "A", c.Entries()[0].Destinations[0].Name)
	assert.Equal(t, CategoryBeach, d.Category, "category defaults to the entry keyword")
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Wildlife", CategoryWildlife.Label())
	assert.Equal(t, "", Category("").Label())
}

func TestParseVehicle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vehicle
		wantErr bool
	}{
		{name: "car", input: "car", want: VehicleCar},
		{name: "case and space", input: " Luxury ", want: VehicleLuxury},
		{name: "unknown", input: "tuk-tuk", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVehicle(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Van (5-8 passengers)", VehicleVan.Label())
	assert.Equal(t, "boat", Vehicle("boat").Label())
}

func TestPackages(t *testing.T) {
	all := Packages(false)
	special := Packages(true)

	assert.Len(t, all, 9)
	assert.Len(t, special, 3)
	for _, p := range special {
		assert.True(t, p.Special)
	}

	p, ok := LookupPackage("hill-country-escape")
	require.True(t, ok)
	assert.Equal(t, "Hill Country Escape", p.Title)

	_, ok = LookupPackage("missing")
	assert.False(t, ok)
}
