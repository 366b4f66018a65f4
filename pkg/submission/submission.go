// Package submission extracts tier-list submissions from flat form input.
//
// A form is a flat string-to-string mapping. Three kinds of keys matter:
//
//	ranks[ID] or ranks.ID   tier assignment for item ID
//	ID-url                  cover image URL for item ID
//	ID-title                display title for item ID
//
// Everything else is ignored.
package submission

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/tierlist/pkg/errors"
)

const (
	urlSuffix   = "-url"
	titleSuffix = "-title"
)

var (
	bracketRank = regexp.MustCompile(`^ranks\[(.+?)\]$`)
	dotRank     = regexp.MustCompile(`^ranks\.(.+)$`)
)

// Submission is the parsed form: three parallel mappings keyed by item ID.
// Every key of Ranks is one renderable tile; URLs and Titles may be sparse.
type Submission struct {
	Ranks  map[string]string `json:"ranks"`
	URLs   map[string]string `json:"urls"`
	Titles map[string]string `json:"titles"`
}

// Parse builds a Submission from a flat form.
func Parse(form map[string]string) Submission {
	urls, titles := ExtractMeta(form)
	return Submission{
		Ranks:  ExtractRanks(form),
		URLs:   urls,
		Titles: titles,
	}
}

// ExtractRanks collects tier assignments from ranks[ID] and ranks.ID keys.
// IDs are taken verbatim; rank values keep their submitted case. Empty values
// are dropped.
func ExtractRanks(form map[string]string) map[string]string {
	ranks := make(map[string]string)
	for k, v := range form {
		if v == "" {
			continue
		}
		m := bracketRank.FindStringSubmatch(k)
		if m == nil {
			m = dotRank.FindStringSubmatch(k)
		}
		if m != nil {
			ranks[m[1]] = v
		}
	}
	return ranks
}

// ExtractMeta collects cover URLs from ID-url keys and titles from ID-title keys.
func ExtractMeta(form map[string]string) (urls, titles map[string]string) {
	urls = make(map[string]string)
	titles = make(map[string]string)
	for k, v := range form {
		switch {
		case strings.HasSuffix(k, urlSuffix):
			urls[strings.TrimSuffix(k, urlSuffix)] = v
		case strings.HasSuffix(k, titleSuffix):
			titles[strings.TrimSuffix(k, titleSuffix)] = v
		}
	}
	return urls, titles
}

// Flatten reduces multi-valued form values to their first value.
func Flatten(values url.Values) map[string]string {
	form := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			form[k] = vs[0]
		}
	}
	return form
}

// FromValues parses url.Values, e.g. a decoded POST body.
func FromValues(values url.Values) Submission {
	return Parse(Flatten(values))
}

// Validate checks that there is something to render. Item IDs are not
// checked: any ranked key, even a blank one, becomes a tile.
func (s Submission) Validate() error {
	if len(s.Ranks) == 0 {
		return errors.New(errors.ErrCodeNoRanks, "No ranks selected")
	}
	return nil
}

// URL returns the cover URL for id, or "" when none was submitted.
func (s Submission) URL(id string) string { return s.URLs[id] }

// Title returns the display title for id, falling back to the id itself.
func (s Submission) Title(id string) string {
	if t, ok := s.Titles[id]; ok {
		return t
	}
	return id
}

// Snapshot is the JSON record of what a user submitted.
type Snapshot struct {
	SubmittedAt time.Time `json:"submitted_at"`
	Submission
}

// NewSnapshot stamps s with the current UTC time.
func NewSnapshot(s Submission) Snapshot {
	return Snapshot{SubmittedAt: time.Now().UTC(), Submission: s}
}

// MarshalIndent encodes the snapshot with two-space indentation.
func (s Snapshot) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
