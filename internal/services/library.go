package services

import (
	"context"
	"strings"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/metadata"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/amaumene/rdstream/pkg/logger"
	"github.com/amaumene/rdstream/pkg/realdebrid"
)

// LibraryClient is the part of the Real-Debrid API the library uses.
type LibraryClient interface {
	Torrents(ctx context.Context) ([]realdebrid.TorrentInfo, error)
	DeleteTorrent(ctx context.Context, torrentID string) error
}

// Library lists and prunes the torrents held on the debrid account.
type Library struct {
	client LibraryClient
	logger logger.Logger
}

func NewLibrary(client LibraryClient, log logger.Logger) *Library {
	if log == nil {
		log = logger.NewNop()
	}
	return &Library{client: client, logger: log}
}

// List returns every torrent on the account, newest first as the service orders them.
func (l *Library) List(ctx context.Context) ([]models.LibraryItem, error) {
	torrents, err := l.client.Torrents(ctx)
	if err != nil {
		l.logger.Errorf("[Library] failed to list torrents: %v", err)
		return nil, classifyDebridError(apperrors.OpListTorrents, "failed to fetch Real-Debrid library", err)
	}

	items := make([]models.LibraryItem, 0, len(torrents))
	for _, t := range torrents {
		items = append(items, toLibraryItem(t))
	}
	l.logger.Debugf("[Library] %d torrents on account", len(items))
	return items, nil
}

// Remove deletes one torrent from the account.
func (l *Library) Remove(ctx context.Context, torrentID string) error {
	torrentID = strings.TrimSpace(torrentID)
	if torrentID == "" {
		return apperrors.NewInvalidRequestError("torrent id must not be empty")
	}
	if err := l.client.DeleteTorrent(ctx, torrentID); err != nil {
		l.logger.Errorf("[Library] failed to delete torrent %s: %v", torrentID, err)
		return classifyDebridError(apperrors.OpDeleteTorrent, "failed to delete torrent", err)
	}
	l.logger.Infof("[Library] deleted torrent %s", torrentID)
	return nil
}

func toLibraryItem(t realdebrid.TorrentInfo) models.LibraryItem {
	item := models.LibraryItem{
		ID:         t.ID,
		Filename:   t.Filename,
		Size:       t.Bytes,
		Streamable: t.Status == realdebrid.StatusDownloaded,
	}
	if len(t.Links) > 0 {
		item.Download = t.Links[0]
	}
	annotate(&item)
	return item
}

func annotate(item *models.LibraryItem) {
	info := metadata.Extract(item.Filename)
	item.Title = info.Title
	item.Year = info.Year
	item.Quality = info.Quality
	details := metadata.Describe(item.Filename)
	item.Codec = details.Codec
	item.Season = details.Season
	item.Episode = details.Episode
}

// DemoLibrary is the demonstration library shown when the account cannot be
// reached and demo fallback is enabled.
func DemoLibrary() []models.LibraryItem {
	items := []models.LibraryItem{
		{
			ID:         "1",
			Filename:   "Avengers.Endgame.2019.2160p.BluRay.x265-SUPERB.mkv",
			Size:       8589934592,
			Download:   "https://example.com/download/1",
			Streamable: true,
		},
		{
			ID:         "2",
			Filename:   "The.Matrix.1999.1080p.BluRay.x264-CLASSIC.mkv",
			Size:       4294967296,
			Download:   "https://example.com/download/2",
			Streamable: true,
		},
		{
			ID:         "3",
			Filename:   "Inception.2010.720p.BluRay.x264-MIND.mkv",
			Size:       2147483648,
			Download:   "https://example.com/download/3",
			Streamable: true,
		},
	}
	for i := range items {
		annotate(&items[i])
	}
	return items
}
