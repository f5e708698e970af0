package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/pkg/realdebrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPickVideoFile(t *testing.T) {
	t.Run("largest video wins", func(t *testing.T) {
		files := []realdebrid.File{
			{ID: 1, Path: "/Movie/sample.mkv", Bytes: 50},
			{ID: 2, Path: "/Movie/Movie.2020.1080p.MKV", Bytes: 5000},
			{ID: 3, Path: "/Movie/Movie.nfo", Bytes: 90000},
		}
		f, err := PickVideoFile(files)
		require.NoError(t, err)
		assert.Equal(t, 2, f.ID)
	})

	t.Run("first wins a tie", func(t *testing.T) {
		files := []realdebrid.File{
			{ID: 4, Path: "a.mp4", Bytes: 10},
			{ID: 5, Path: "b.avi", Bytes: 10},
		}
		f, err := PickVideoFile(files)
		require.NoError(t, err)
		assert.Equal(t, 4, f.ID)
	})

	t.Run("every known extension", func(t *testing.T) {
		for _, name := range []string{"x.mp4", "x.MKV", "x.avi", "x.Mov", "x.wmv"} {
			_, err := PickVideoFile([]realdebrid.File{{ID: 1, Path: name}})
			assert.NoError(t, err, name)
		}
	})

	t.Run("no video", func(t *testing.T) {
		_, err := PickVideoFile([]realdebrid.File{{ID: 1, Path: "x.srt"}, {ID: 2, Path: "mkv.txt"}})
		assert.ErrorIs(t, err, apperrors.ErrNoVideoFile)

		_, err = PickVideoFile(nil)
		assert.ErrorIs(t, err, apperrors.ErrNoVideoFile)
	})
}

func TestResolveLink(t *testing.T) {
	links := []string{"l1", "l2"}

	link, err := ResolveLink(links, realdebrid.File{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, "l2", link)

	_, err = ResolveLink(links, realdebrid.File{ID: 3})
	assert.ErrorIs(t, err, apperrors.ErrUnrecoverable)

	_, err = ResolveLink(links, realdebrid.File{ID: 0})
	assert.ErrorIs(t, err, apperrors.ErrUnrecoverable)
}

func TestClassifyDebridError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   apperrors.Kind
		status int
	}{
		{"missing token", fmt.Errorf("call: %w", realdebrid.ErrTokenMissing), apperrors.KindConfiguration, 0},
		{"api error", &realdebrid.APIError{StatusCode: 401, Message: "bad_token"}, apperrors.KindTransport, 401},
		{"network", errors.New("connection reset"), apperrors.KindTransport, 0},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), apperrors.KindTimeout, 0},
		{"canceled", context.Canceled, apperrors.KindCanceled, 0},
		{"already typed", apperrors.NewNoVideoFileError(), apperrors.KindNoVideoFile, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDebridError(apperrors.OpTorrentInfo, "failed", tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.StatusCode)
		})
	}
}

func TestClassifyRateLimitedCallAsTimeout(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow())
	client := realdebrid.NewClient(realdebrid.Options{
		Token:   "TESTTOKEN0123456789TESTTOKEN0123456789",
		BaseURL: "http://127.0.0.1:1",
		Limiter: limiter,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, err := client.TorrentInfo(ctx, "t1")
	require.Error(t, err)

	got := classifyDebridError(apperrors.OpTorrentInfo, "failed to get torrent information", err)
	assert.Equal(t, apperrors.KindTimeout, got.Kind)
	assert.ErrorIs(t, got, apperrors.ErrTimeout)
}
