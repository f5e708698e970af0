// Package metadata derives display information from release filenames.
package metadata

import (
	"regexp"
	"strings"

	"github.com/cehbz/torrentname"
)

// UnknownQuality is reported when no resolution tag is present.
const UnknownQuality = "Unknown"

var (
	// four digits bounded by non-digits or the ends of the string
	yearPattern    = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
	qualityPattern = regexp.MustCompile(`(?i)(2160p|1080p|720p|480p)`)
)

// Info is what the library view shows for a file.
type Info struct {
	Title   string `json:"title"`
	Year    string `json:"year"`
	Quality string `json:"quality"`
}

// Extract derives a title, year and quality tag from filename. Only the first
// dot-delimited token becomes the title, so "Avengers.Endgame.2019..." yields
// "Avengers".
func Extract(filename string) Info {
	title, _, _ := strings.Cut(filename, ".")
	title = strings.TrimSpace(strings.NewReplacer("_", " ", ".", " ").Replace(title))

	info := Info{Title: title, Quality: UnknownQuality}
	if m := yearPattern.FindStringSubmatch(filename); m != nil {
		info.Year = m[1]
	}
	// "1080P" is reported as "1080p"
	if m := qualityPattern.FindString(filename); m != "" {
		info.Quality = strings.ToLower(m)
	}
	return info
}

// Details is the richer parse of a release name.
type Details struct {
	Codec      string `json:"codec,omitempty"`
	Season     int    `json:"season,omitempty"`
	Episode    int    `json:"episode,omitempty"`
	Complete   bool   `json:"complete,omitempty"`
	Confidence int    `json:"confidence"`
}

// Describe parses filename with torrentname. It returns a zero Details when the
// name cannot be parsed.
func Describe(filename string) Details {
	parsed := torrentname.Parse(filename)
	if parsed == nil {
		return Details{}
	}
	return Details{
		Codec:      parsed.Codec,
		Season:     parsed.Season,
		Episode:    parsed.Episode,
		Complete:   parsed.IsComplete,
		Confidence: int(parsed.Confidence),
	}
}
