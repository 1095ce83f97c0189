package collection

import (
	"context"
	"testing"

	"bookkeep/internal/entity"
)

func names(items []entity.Summary) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	items := []entity.Summary{
		review("Dune", "scifi", "classic"),
		review("Emma", "romance", "classic"),
		review("Neuromancer", "SciFi", "cyberpunk"),
		{Kind: entity.KindGoal, Name: "Classic Summer", Entity: entity.NewGoal()},
	}
	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{name: "no terms", terms: nil, want: []string{"Dune", "Emma", "Neuromancer", "Classic Summer"}},
		{name: "blank terms", terms: []string{" ", ""}, want: []string{"Dune", "Emma", "Neuromancer", "Classic Summer"}},
		{name: "tag case insensitive", terms: []string{"SCIFI"}, want: []string{"Dune", "Neuromancer"}},
		{name: "all terms must match", terms: []string{"scifi", "classic"}, want: []string{"Dune"}},
		{name: "name substring", terms: []string{"mma"}, want: []string{"Emma"}},
		{name: "name or tag per term", terms: []string{"neuro", "punk"}, want: []string{"Neuromancer"}},
		{name: "goal matches by name only", terms: []string{"summer"}, want: []string{"Classic Summer"}},
		{name: "no match", terms: []string{"western"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(items, tt.terms))
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%v) = %v, want %v", tt.terms, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Filter(%v) = %v, want %v", tt.terms, got, tt.want)
				}
			}
		})
	}
}

func TestParseTerms(t *testing.T) {
	got := ParseTerms(" scifi, classic\tdune ,,")
	want := []string{"scifi", "classic", "dune"}
	if len(got) != len(want) {
		t.Fatalf("ParseTerms = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseTerms = %v", got)
		}
	}
}

func TestCacheFilter(t *testing.T) {
	cache := newCache(&fakeBackend{items: []entity.Summary{review("Dune", "scifi"), review("Emma", "romance")}})
	items, err := cache.Filter(context.Background(), []string{"romance"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Emma" {
		t.Fatalf("unexpected filter result %v", names(items))
	}
}
