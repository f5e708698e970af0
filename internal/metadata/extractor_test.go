package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		filename string
		want     Info
	}{
		{
			filename: "Avengers.Endgame.2019.2160p.BluRay.x265-SUPERB.mkv",
			want:     Info{Title: "Avengers", Year: "2019", Quality: "2160p"},
		},
		{
			filename: "Inception.2010.1080P.WEB-DL.mp4",
			want:     Info{Title: "Inception", Year: "2010", Quality: "1080p"},
		},
		{
			filename: "home_video.avi",
			want:     Info{Title: "home video", Year: "", Quality: UnknownQuality},
		},
		{
			filename: "Clip.720p.mkv",
			want:     Info{Title: "Clip", Year: "", Quality: "720p"},
		},
		{
			filename: "Archive.12345.480p.mkv",
			want:     Info{Title: "Archive", Year: "", Quality: "480p"},
		},
		{
			filename: "NoExtension",
			want:     Info{Title: "NoExtension", Year: "", Quality: UnknownQuality},
		},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.filename))
		})
	}
}

func TestExtractQualityIsLeftmostMatch(t *testing.T) {
	assert.Equal(t, "720p", Extract("Movie.720p.from.1080p.source.mkv").Quality)
}

func TestExtractWithoutYear(t *testing.T) {
	info := Extract("Some.Movie.BluRay.x264.mkv")
	assert.Empty(t, info.Year)
	assert.Equal(t, UnknownQuality, info.Quality)
}

func TestDescribe(t *testing.T) {
	d := Describe("Series.Name.S02E05.720p.WEB-DL.x264-GROUP.mkv")
	assert.Equal(t, 2, d.Season)
	assert.Equal(t, 5, d.Episode)
}
