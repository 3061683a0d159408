package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourcab/catalog"
)

func names(ds []catalog.Destination) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

func TestMatcher_Suggest(t *testing.T) {
	m := NewMatcher(catalog.Reference())

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			input: "   \t ",
			want:  []string{},
		},
		{
			name:  "beach and wildlife keeps catalog order and caps at six",
			input: "beach and wildlife",
			want: []string{
				"Unawatuna Beach", "Mirissa Beach", "Arugam Bay", "Bentota Beach", "Hikkaduwa Beach",
				"Yala National Park",
			},
		},
		{
			name:  "single keyword",
			input: "Tea",
			want:  []string{"Nuwara Eliya Tea Estates", "Pedro Tea Estate", "Dambatenne Tea Factory"},
		},
		{
			name:  "keyword order follows catalog not input",
			input: "tea in the mountain",
			want: []string{
				"Ella Rock", "Nuwara Eliya", "Haputale", "Adams Peak",
				"Nuwara Eliya Tea Estates", "Pedro Tea Estate",
			},
		},
		{
			name:  "full name inside text",
			input: "I want to see Sigiriya Rock Fortress at dawn",
			want:  []string{"Sigiriya Rock Fortress"},
		},
		{
			name:  "name match is not duplicated after keyword match",
			input: "mirissa beach",
			want:  []string{"Unawatuna Beach", "Mirissa Beach", "Arugam Bay", "Bentota Beach", "Hikkaduwa Beach"},
		},
		{
			name:  "keyword matches come before name matches",
			input: "cultural trip to adams peak",
			want: []string{
				"Sigiriya Rock Fortress", "Temple of the Tooth", "Dambulla Cave Temple", "Galle Dutch Fort",
				"Adams Peak",
			},
		},
		{
			name:  "partial name",
			input: "ella",
			want:  []string{"Ella Rock", "Zip-lining in Ella"},
		},
		{
			name:  "no match",
			input: "snowboarding",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Suggest(tt.input)
			assert.Equal(t, tt.want, names(got))
			assert.LessOrEqual(t, len(got), DefaultSuggestionLimit)
		})
	}
}

func TestMatcher_Invariants(t *testing.T) {
	m := NewMatcher(catalog.Reference())
	inputs := []string{
		"beach wildlife mountain tea cultural adventure",
		"ELLA rock",
		"yala national park and wildlife",
		"a",
		"e",
	}

	for _, in := range inputs {
		got := m.Suggest(in)
		assert.LessOrEqual(t, len(got), DefaultSuggestionLimit, in)

		seen := make(map[string]bool)
		for _, d := range got {
			assert.False(t, seen[d.Name], "duplicate %q for %q", d.Name, in)
			seen[d.Name] = true
			_, ok := m.Catalog().Lookup(d.Name)
			assert.True(t, ok, "%q not in catalog", d.Name)
		}
		assert.Equal(t, got, m.Suggest(in), "same input, same output")
	}
}

func TestMatcher_WithLimit(t *testing.T) {
	m := NewMatcher(catalog.Reference(), WithLimit(2))
	assert.Equal(t, []string{"Unawatuna Beach", "Mirissa Beach"}, names(m.Suggest("beach")))

	m = NewMatcher(catalog.Reference(), WithLimit(0))
	assert.Equal(t, DefaultSuggestionLimit, m.Limit())
}
