// Package models defines the data exchanged between services, handlers and the CLI.
package models

// Movie is an entry of the trending catalog.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterURL   string   `json:"posterUrl"`
	BackdropURL string   `json:"backdropUrl"`
	ReleaseDate string   `json:"releaseDate"`
	Rating      float64  `json:"rating"`
	Genre       []string `json:"genre"`
	Duration    int      `json:"duration"`
	StreamURL   string   `json:"streamUrl,omitempty"`
	MagnetLink  string   `json:"magnetLink,omitempty"`
}

// SearchResult is one torrent index hit. It is a plain value: two results are
// the same result when all fields are equal.
type SearchResult struct {
	Name      string `json:"name"`
	DetailURL string `json:"detailUrl"`
	Size      string `json:"size"`
	Seeds     string `json:"seeds"`
	Leech     string `json:"leech"`
	Magnet    string `json:"magnet"`
	Date      string `json:"date,omitempty"`
}

// LibraryItem is a torrent on the debrid account, annotated for display.
type LibraryItem struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	Download   string `json:"download"`
	Streamable bool   `json:"streamable"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Quality    string `json:"quality"`
	Codec      string `json:"codec,omitempty"`
	Season     int    `json:"season,omitempty"`
	Episode    int    `json:"episode,omitempty"`
}
