package magnet

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHash(t *testing.T) {
	lower := "0123456789abcdef0123456789abcdef01234567"
	tests := []struct {
		name   string
		magnet string
	}{
		{"lowercase", "magnet:?xt=urn:btih:" + lower + "&dn=Movie"},
		{"uppercase hash", "magnet:?xt=urn:btih:" + strings.ToUpper(lower)},
		{"uppercase prefix", "magnet:?xt=urn:BTIH:" + lower},
		{"trailers after hash", "magnet:?dn=x&xt=urn:btih:" + lower + "&tr=udp://tracker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := ExtractHash(tt.magnet)
			require.NoError(t, err)
			assert.Equal(t, lower, hash)
		})
	}
}

func TestExtractHashInvalid(t *testing.T) {
	invalid := []string{
		"",
		"magnet:?dn=no-hash",
		"magnet:?xt=urn:btih:example123456789",
		"magnet:?xt=urn:btih:zzzz456789abcdef0123456789abcdef01234567",
		"https://example.com/torrent/1",
	}

	for _, m := range invalid {
		_, err := ExtractHash(m)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidMagnet), "magnet %q", m)
	}
}
