// Package constants defines application-wide constants and default values.
package constants

const (
	AppName    = "rdstream"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultPort         = "5000"
	DefaultLogLevel     = "info"
	DefaultConfigFile   = "config.yaml"
	DefaultDatabasePath = "./rdstream.db"

	// Remote endpoints
	DefaultRealDebridURL = "https://api.real-debrid.com/rest/1.0"
	DefaultSearchURL     = "https://valradiant.xyz/rarbg.php"

	// Search cache settings
	DefaultSearchCacheSize = 256
	DefaultSearchCacheTTL  = 10 // minutes

	// SelectAllFiles is the selectFiles argument choosing every file of a torrent.
	SelectAllFiles = "all"
)

// VideoExtensions lists the file extensions considered playable.
var VideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".wmv"}
