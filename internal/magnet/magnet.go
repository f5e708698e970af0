// Package magnet extracts BitTorrent info-hashes from magnet URIs.
package magnet

import (
	"regexp"
	"strings"

	apperrors "github.com/amaumene/rdstream/internal/errors"
)

var btihPattern = regexp.MustCompile(`(?i)btih:([a-f0-9]{40})`)

// ExtractHash returns the lowercase 40 hex digit info-hash of magnetURI.
func ExtractHash(magnetURI string) (string, error) {
	m := btihPattern.FindStringSubmatch(magnetURI)
	if m == nil {
		return "", apperrors.NewInvalidMagnetError(magnetURI)
	}
	return strings.ToLower(m[1]), nil
}
