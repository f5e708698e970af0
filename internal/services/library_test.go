package services

import (
	"context"
	"testing"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/metadata"
	"github.com/amaumene/rdstream/pkg/realdebrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLibraryClient struct {
	torrents  []realdebrid.TorrentInfo
	listErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeLibraryClient) Torrents(ctx context.Context) ([]realdebrid.TorrentInfo, error) {
	return f.torrents, f.listErr
}

func (f *fakeLibraryClient) DeleteTorrent(ctx context.Context, torrentID string) error {
	f.deleted = append(f.deleted, torrentID)
	return f.deleteErr
}

func TestLibraryList(t *testing.T) {
	client := &fakeLibraryClient{torrents: []realdebrid.TorrentInfo{
		{
			ID:       "A1",
			Filename: "Avengers.Endgame.2019.2160p.BluRay.x265-SUPERB.mkv",
			Bytes:    8589934592,
			Status:   realdebrid.StatusDownloaded,
			Links:    []string{"https://real-debrid.com/d/A1", "https://real-debrid.com/d/A2"},
		},
		{
			ID:       "B2",
			Filename: "Some_Show.S01E02.720p.mkv",
			Bytes:    1024,
			Status:   realdebrid.StatusDownloading,
		},
	}}

	items, err := NewLibrary(client, nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "A1", first.ID)
	assert.Equal(t, int64(8589934592), first.Size)
	assert.Equal(t, "https://real-debrid.com/d/A1", first.Download)
	assert.True(t, first.Streamable)
	assert.Equal(t, "Avengers", first.Title)
	assert.Equal(t, "2019", first.Year)
	assert.Equal(t, "2160p", first.Quality)

	second := items[1]
	assert.Empty(t, second.Download)
	assert.False(t, second.Streamable)
	assert.Equal(t, "Some Show", second.Title)
	assert.Equal(t, 1, second.Season)
	assert.Equal(t, 2, second.Episode)
}

func TestLibraryListFailure(t *testing.T) {
	client := &fakeLibraryClient{listErr: realdebrid.ErrTokenMissing}

	_, err := NewLibrary(client, nil).List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	client.listErr = &realdebrid.APIError{StatusCode: 503}
	_, err = NewLibrary(client, nil).List(context.Background())
	assert.ErrorIs(t, err, &apperrors.Error{Kind: apperrors.KindTransport, Op: apperrors.OpListTorrents})
}

func TestLibraryRemove(t *testing.T) {
	client := &fakeLibraryClient{}
	lib := NewLibrary(client, nil)

	require.NoError(t, lib.Remove(context.Background(), " T1 "))
	assert.Equal(t, []string{"T1"}, client.deleted)

	assert.ErrorIs(t, lib.Remove(context.Background(), ""), apperrors.ErrInvalidRequest)

	client.deleteErr = &realdebrid.APIError{StatusCode: 404, Message: "unknown_ressource"}
	err := lib.Remove(context.Background(), "T9")
	assert.ErrorIs(t, err, &apperrors.Error{Kind: apperrors.KindTransport, Op: apperrors.OpDeleteTorrent})
}

func TestDemoLibraryIsAnnotated(t *testing.T) {
	items := DemoLibrary()
	require.Len(t, items, 3)
	for _, item := range items {
		info := metadata.Extract(item.Filename)
		assert.Equal(t, info.Title, item.Title)
		assert.Equal(t, info.Quality, item.Quality)
		assert.NotEmpty(t, item.Year)
	}
}
