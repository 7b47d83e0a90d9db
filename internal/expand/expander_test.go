package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandAugmentsAbbreviations(t *testing.T) {
	e := NewExpander(nil)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "single abbreviation",
			query: "nlp pipelines",
			want:  "nlp natural language processing pipelines",
		},
		{
			name:  "case insensitive",
			query: "NLP Pipelines",
			want:  "nlp natural language processing pipelines",
		},
		{
			name:  "no abbreviation passes through lowercased",
			query: "Vector Search",
			want:  "vector search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Expand(tt.query))
		})
	}
}

func TestExpandPreservesOriginalToken(t *testing.T) {
	e := NewExpander(nil)

	got := e.Expand("dl frameworks")
	assert.Contains(t, got, "dl", "original token must survive for exact keyword matching")
	assert.Contains(t, got, "deep learning")
}

func TestExpandIsNotIdempotent(t *testing.T) {
	e := NewExpander(nil)

	once := e.Expand("dl frameworks")
	twice := e.Expand(once)
	assert.NotEqual(t, once, twice, "re-expansion duplicates phrases; callers expand at most once")
}

func TestExpandCustomTable(t *testing.T) {
	e := NewExpander([]Expansion{{Abbr: "db", Full: "database"}})

	assert.Equal(t, "db database migrations", e.Expand("db migrations"))
	assert.Equal(t, "ml models", e.Expand("ml models"), "default table not consulted")
}
