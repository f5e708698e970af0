package realdebrid

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Torrent status labels reported by Real-Debrid
const (
	StatusMagnetError           = "magnet_error"
	StatusMagnetConversion      = "magnet_conversion"
	StatusWaitingFilesSelection = "waiting_files_selection"
	StatusQueued                = "queued"
	StatusDownloading           = "downloading"
	StatusDownloaded            = "downloaded"
	StatusError                 = "error"
	StatusVirus                 = "virus"
	StatusCompressing           = "compressing"
	StatusUploading             = "uploading"
	StatusDead                  = "dead"
)

// IsFailedStatus reports whether status is terminal without ever reaching downloaded.
func IsFailedStatus(status string) bool {
	switch status {
	case StatusMagnetError, StatusError, StatusVirus, StatusDead:
		return true
	}
	return false
}

// AddMagnetResponse is returned when adding a magnet
type AddMagnetResponse struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// File is one entry of a torrent's file list. ID is 1-based.
type File struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected int    `json:"selected"`
}

// TorrentInfo contains detailed information about a torrent
type TorrentInfo struct {
	ID               string   `json:"id"`
	Filename         string   `json:"filename"`
	OriginalFilename string   `json:"original_filename,omitempty"`
	Hash             string   `json:"hash"`
	Bytes            int64    `json:"bytes"`
	OriginalBytes    int64    `json:"original_bytes,omitempty"`
	Host             string   `json:"host"`
	Split            int      `json:"split"`
	Progress         float64  `json:"progress"`
	Status           string   `json:"status"`
	Added            string   `json:"added"`
	Files            []File   `json:"files,omitempty"`
	Links            []string `json:"links"`
	Ended            string   `json:"ended,omitempty"`
	Speed            int64    `json:"speed,omitempty"`
	Seeders          int      `json:"seeders,omitempty"`
}

// UnrestrictedLink is returned when unrestricting a hoster link
type UnrestrictedLink struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Filesize   int64  `json:"filesize"`
	Link       string `json:"link"`
	Host       string `json:"host"`
	Chunks     int    `json:"chunks"`
	CRC        int    `json:"crc"`
	Download   string `json:"download"`
	Streamable int    `json:"streamable"`
}

// Availability maps an info-hash to its per-host cached variants. The variant
// payload is kept raw because Real-Debrid answers with an empty array instead
// of an empty object when nothing is cached.
type Availability map[string]json.RawMessage

// Instant reports whether hash has at least one cached variant.
func (a Availability) Instant(hash string) bool {
	for key, raw := range a {
		if !strings.EqualFold(key, hash) {
			continue
		}
		var hosts map[string]json.RawMessage
		if err := json.Unmarshal(raw, &hosts); err != nil {
			return false
		}
		return len(hosts) > 0
	}
	return false
}

func decodeAvailability(body []byte) (Availability, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '[' {
		return Availability{}, nil
	}
	var out Availability
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}
