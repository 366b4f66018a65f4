package submission

import (
	"encoding/json"
	"net/url"
	"reflect"
	"testing"

	"github.com/matzehuels/tierlist/pkg/errors"
)

func TestExtractRanks(t *testing.T) {
	tests := []struct {
		name string
		form map[string]string
		want map[string]string
	}{
		{
			name: "bracket and dot forms",
			form: map[string]string{"ranks[b1]": "S", "ranks.b2": "a", "other": "x"},
			want: map[string]string{"b1": "S", "b2": "a"},
		},
		{
			name: "empty values dropped",
			form: map[string]string{"ranks[b1]": "", "ranks.b2": "B"},
			want: map[string]string{"b2": "B"},
		},
		{
			name: "ids verbatim",
			form: map[string]string{"ranks[ B 1 ]": "C", "ranks.x.y": "D"},
			want: map[string]string{" B 1 ": "C", "x.y": "D"},
		},
		{
			name: "bracket id may contain brackets",
			form: map[string]string{"ranks[a]b]": "S"},
			want: map[string]string{"a]b": "S"},
		},
		{
			name: "near misses ignored",
			form: map[string]string{"ranks[]": "S", "ranks.": "A", "xranks[b]": "B", "ranks[b": "C"},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRanks(tt.form)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractRanks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractMeta(t *testing.T) {
	form := map[string]string{
		"b1-url":    "https://example.com/b1.jpg",
		"b1-title":  "First Book",
		"b2-title":  "Second",
		"ranks[b1]": "S",
		"-url":      "empty-id",
	}
	urls, titles := ExtractMeta(form)

	wantURLs := map[string]string{"b1": "https://example.com/b1.jpg", "": "empty-id"}
	wantTitles := map[string]string{"b1": "First Book", "b2": "Second"}
	if !reflect.DeepEqual(urls, wantURLs) {
		t.Errorf("urls = %v, want %v", urls, wantURLs)
	}
	if !reflect.DeepEqual(titles, wantTitles) {
		t.Errorf("titles = %v, want %v", titles, wantTitles)
	}
}

func TestFromValues(t *testing.T) {
	values := url.Values{
		"ranks[b1]": {"S", "A"},
		"b1-title":  {"Dune"},
		"empty":     {},
	}
	s := FromValues(values)
	if s.Ranks["b1"] != "S" {
		t.Errorf("first value should win, got %q", s.Ranks["b1"])
	}
	if s.Title("b1") != "Dune" {
		t.Errorf("Title(b1) = %q", s.Title("b1"))
	}
	if s.Title("b9") != "b9" {
		t.Errorf("Title falls back to id, got %q", s.Title("b9"))
	}
	if s.URL("b1") != "" {
		t.Errorf("URL(b1) = %q, want empty", s.URL("b1"))
	}
}

func TestValidate(t *testing.T) {
	if err := (Submission{}).Validate(); !errors.Is(err, errors.ErrCodeNoRanks) {
		t.Errorf("empty submission: err = %v, want NO_RANKS", err)
	}
	blank := Parse(map[string]string{"ranks[ ]": "S", "ranks[a\x00b]": "A"})
	if err := blank.Validate(); err != nil {
		t.Errorf("blank and odd ids must stay renderable: %v", err)
	}
	if got := blank.Title(" "); got != " " {
		t.Errorf("Title(blank) = %q, want the id itself", got)
	}
	ok := Submission{Ranks: map[string]string{"b1": "S"}}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid submission: %v", err)
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := NewSnapshot(Submission{
		Ranks:  map[string]string{"b1": "S"},
		URLs:   map[string]string{},
		Titles: map[string]string{"b1": "Dune"},
	})
	data, err := snap.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"submitted_at", "ranks", "urls", "titles"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("snapshot missing %q: %s", key, data)
		}
	}
}
