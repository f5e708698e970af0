package models

// StreamRequest asks for a magnet to be turned into a playable URL.
type StreamRequest struct {
	Magnet string `json:"magnet" binding:"required"`
	Title  string `json:"title"`
}

// StreamResponse carries the direct stream URL.
type StreamResponse struct {
	URL string `json:"url"`
}

// AvailabilityResponse reports whether a magnet is cached on the debrid service.
type AvailabilityResponse struct {
	Hash    string `json:"hash"`
	Instant bool   `json:"instant"`
}

// SearchResponse wraps search results. Fallback is set when Results is the
// demonstration dataset rather than live data.
type SearchResponse struct {
	Query    string         `json:"query"`
	Page     int            `json:"page"`
	Results  []SearchResult `json:"results"`
	Fallback bool           `json:"fallback"`
}

// LibraryResponse wraps library items.
type LibraryResponse struct {
	Items    []LibraryItem `json:"items"`
	Fallback bool          `json:"fallback"`
}

// SettingsRequest updates user settings.
type SettingsRequest struct {
	APIToken string `json:"apiToken" binding:"required"`
}

// SettingsResponse never includes the raw token.
type SettingsResponse struct {
	TokenConfigured bool   `json:"tokenConfigured"`
	TokenMasked     string `json:"tokenMasked"`
	TokenSource     string `json:"tokenSource,omitempty"`
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
