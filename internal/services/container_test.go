package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/amaumene/rdstream/internal/config"
	"github.com/amaumene/rdstream/internal/database"
	"github.com/amaumene/rdstream/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T, cfg *config.Config) (*Container, *database.BoltDB) {
	t.Helper()
	db, err := database.NewBolt(filepath.Join(t.TempDir(), "rdstream.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContainer(cfg, db, nil, metrics.NewNop()), db
}

func TestResolveTokenPrefersStore(t *testing.T) {
	cfg := config.Default()
	cfg.RealDebridToken = "configtoken"
	c, db := newTestContainer(t, cfg)

	token, source, err := c.ResolveToken()
	require.NoError(t, err)
	assert.Equal(t, "configtoken", token)
	assert.Equal(t, TokenSourceConfig, source)

	require.NoError(t, db.SetDebridToken(" storedtoken\n"))
	token, source, err = c.ResolveToken()
	require.NoError(t, err)
	assert.Equal(t, "storedtoken", token)
	assert.Equal(t, TokenSourceStore, source)

	require.NoError(t, db.ClearDebridToken())
	cfg.RealDebridToken = ""
	token, source, err = c.ResolveToken()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, source)
}

func TestResolveTokenWithoutStore(t *testing.T) {
	cfg := config.Default()
	cfg.RealDebridToken = "configtoken"

	token, source, err := NewContainer(cfg, nil, nil, nil).ResolveToken()
	require.NoError(t, err)
	assert.Equal(t, "configtoken", token)
	assert.Equal(t, TokenSourceConfig, source)
}

func TestResolveTokenClosedStore(t *testing.T) {
	c, db := newTestContainer(t, config.Default())
	require.NoError(t, db.Close())

	_, _, err := c.ResolveToken()
	assert.ErrorIs(t, err, database.ErrClosed)
}

func TestDebridClientPicksUpTokenChanges(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.RealDebridBaseURL = srv.URL
	cfg.RealDebridToken = "configtoken"
	c, db := newTestContainer(t, cfg)

	lib, err := c.Library()
	require.NoError(t, err)
	_, err = lib.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.SetDebridToken("storedtoken"))
	lib, err = c.Library()
	require.NoError(t, err)
	_, err = lib.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer configtoken", "Bearer storedtoken"}, auth)
}

func TestAcquisitionUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPollAttempts = 7
	c, _ := newTestContainer(t, cfg)

	acq, err := c.Acquisition(nil)
	require.NoError(t, err)
	assert.Equal(t, uint(7), acq.poller.maxAttempts)
	assert.Equal(t, cfg.PollInterval, acq.poller.interval)
}
