package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amaumene/rdstream/internal/constants"
	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/pkg/realdebrid"
)

var videoExtSet = createVideoExtensionSet(constants.VideoExtensions)

func createVideoExtensionSet(extensions []string) map[string]bool {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}
	return extSet
}

// isVideoFile checks if a path ends in a known video extension
func isVideoFile(path string) bool {
	path = strings.ToLower(path)
	for ext := range videoExtSet {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// PickVideoFile returns the largest video file. The first file wins a tie.
func PickVideoFile(files []realdebrid.File) (realdebrid.File, error) {
	var (
		best  realdebrid.File
		found bool
	)
	for _, f := range files {
		if !isVideoFile(f.Path) {
			continue
		}
		if !found || f.Bytes > best.Bytes {
			best = f
			found = true
		}
	}
	if !found {
		return realdebrid.File{}, apperrors.NewNoVideoFileError()
	}
	return best, nil
}

// ResolveLink maps a file's 1-based id onto the torrent's link list. The debrid
// service lists links in file order, which this relies on without checking.
func ResolveLink(links []string, file realdebrid.File) (string, error) {
	idx := file.ID - 1
	if idx < 0 || idx >= len(links) {
		return "", apperrors.NewUnrecoverableError(
			"no download link for the selected file",
			fmt.Errorf("file id %d outside %d links", file.ID, len(links)),
		)
	}
	return links[idx], nil
}

// classifyDebridError converts a debrid client error into a typed error for op.
func classifyDebridError(op, message string, err error) *apperrors.Error {
	var typed *apperrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	if errors.Is(err, realdebrid.ErrTokenMissing) {
		return apperrors.NewConfigurationError("Real-Debrid API token not configured", err)
	}
	if ctxErr := apperrors.FromContext(op, err); ctxErr != nil {
		return ctxErr
	}
	var apiErr *realdebrid.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewTransportError(op, message, apiErr.StatusCode, err)
	}
	return apperrors.NewTransportError(op, message, 0, err)
}
