package services

import (
	"context"
	"errors"
	"time"

	"github.com/amaumene/rdstream/internal/constants"
	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/magnet"
	"github.com/amaumene/rdstream/internal/metrics"
	"github.com/amaumene/rdstream/pkg/logger"
	"github.com/amaumene/rdstream/pkg/realdebrid"
	"github.com/avast/retry-go/v4"
)

// DebridClient is the part of the Real-Debrid API the acquisition pipeline uses.
type DebridClient interface {
	InstantAvailability(ctx context.Context, hash string) (realdebrid.Availability, error)
	AddMagnet(ctx context.Context, magnet string) (*realdebrid.AddMagnetResponse, error)
	SelectFiles(ctx context.Context, torrentID, files string) error
	TorrentInfo(ctx context.Context, torrentID string) (*realdebrid.TorrentInfo, error)
	UnrestrictLink(ctx context.Context, link string) (*realdebrid.UnrestrictedLink, error)
}

// AcquisitionOptions tunes the readiness wait.
type AcquisitionOptions struct {
	PollInterval    time.Duration
	MaxPollAttempts int
	// Timer replaces real time between status checks.
	Timer retry.Timer
	// OnPoll sees every torrent status fetched.
	OnPoll PollObserver
}

// Acquisition turns a magnet link into a direct streaming URL through Real-Debrid.
type Acquisition struct {
	client  DebridClient
	poller  *Poller
	logger  logger.Logger
	metrics *metrics.Metrics
}

func NewAcquisition(client DebridClient, opts AcquisitionOptions, log logger.Logger, m *metrics.Metrics) *Acquisition {
	if log == nil {
		log = logger.NewNop()
	}
	return &Acquisition{
		client:  client,
		poller:  NewPoller(opts.PollInterval, opts.MaxPollAttempts, opts.Timer, opts.OnPoll, log),
		logger:  log,
		metrics: m,
	}
}

// Process registers the magnet, waits until the debrid service holds the
// torrent, picks the largest video file and returns its unrestricted URL.
// title is only used for logging.
func (a *Acquisition) Process(ctx context.Context, magnetURI, title string) (streamURL string, err error) {
	start := time.Now()
	defer func() { a.observe(start, err) }()

	hash, err := magnet.ExtractHash(magnetURI)
	if err != nil {
		a.logger.Warnf("[Acquisition] rejected magnet for %q: %v", title, err)
		return "", err
	}
	a.logger.Infof("[Acquisition] processing %q (%s)", title, hash)

	instant, err := a.probe(ctx, hash)
	if err != nil {
		return "", err
	}

	added, err := a.client.AddMagnet(ctx, magnetURI)
	a.track(apperrors.OpAddMagnet, err)
	if err != nil {
		return "", a.fail(apperrors.OpAddMagnet, "failed to add magnet to Real-Debrid", err)
	}
	a.logger.Debugf("[Acquisition] registered %s as torrent %s", hash, added.ID)

	err = a.client.SelectFiles(ctx, added.ID, constants.SelectAllFiles)
	a.track(apperrors.OpSelectFiles, err)
	if err != nil {
		return "", a.fail(apperrors.OpSelectFiles, "failed to select torrent files", err)
	}

	info, err := a.waitReady(ctx, added.ID, instant)
	if err != nil {
		a.logger.Errorf("[Acquisition] torrent %s never became ready: %v", added.ID, err)
		return "", err
	}

	file, err := PickVideoFile(info.Files)
	if err != nil {
		a.logger.Warnf("[Acquisition] torrent %s has no video file among %d files", added.ID, len(info.Files))
		return "", err
	}

	hostLink, err := ResolveLink(info.Links, file)
	if err != nil {
		a.logger.Errorf("[Acquisition] %v", err)
		return "", err
	}

	unrestricted, err := a.client.UnrestrictLink(ctx, hostLink)
	a.track(apperrors.OpUnrestrict, err)
	if err != nil {
		return "", a.fail(apperrors.OpUnrestrict, "failed to get streamable link", err)
	}
	if unrestricted.Download == "" {
		return "", apperrors.NewUnrecoverableError("debrid service returned an empty download URL", nil)
	}

	a.logger.Infof("[Acquisition] %q ready: %s (%d bytes)", title, file.Path, file.Bytes)
	return unrestricted.Download, nil
}

// CheckInstant reports whether the torrent behind magnetURI is already cached.
// Probe failures other than a missing token read as not cached.
func (a *Acquisition) CheckInstant(ctx context.Context, magnetURI string) (bool, error) {
	hash, err := magnet.ExtractHash(magnetURI)
	if err != nil {
		return false, err
	}
	return a.probe(ctx, hash)
}

func (a *Acquisition) probe(ctx context.Context, hash string) (bool, error) {
	availability, err := a.client.InstantAvailability(ctx, hash)
	a.track(apperrors.OpInstantAvailability, err)
	if err != nil {
		if errors.Is(err, realdebrid.ErrTokenMissing) {
			return false, classifyDebridError(apperrors.OpInstantAvailability, "", err)
		}
		if ctx.Err() != nil {
			return false, apperrors.FromContext(apperrors.OpInstantAvailability, ctx.Err())
		}
		a.logger.Warnf("[Acquisition] instant availability check failed for %s, continuing: %v", hash, err)
		return false, nil
	}

	instant := availability.Instant(hash)
	if instant {
		a.logger.Infof("[Acquisition] %s is cached on Real-Debrid", hash)
	}
	return instant, nil
}

func (a *Acquisition) waitReady(ctx context.Context, torrentID string, instant bool) (*realdebrid.TorrentInfo, error) {
	fetch := func(ctx context.Context) (*realdebrid.TorrentInfo, error) {
		if a.metrics != nil {
			a.metrics.StatusPolls.Inc()
		}
		info, err := a.client.TorrentInfo(ctx, torrentID)
		a.track(apperrors.OpTorrentInfo, err)
		if err != nil {
			return nil, a.fail(apperrors.OpTorrentInfo, "failed to get torrent information", err)
		}
		return info, nil
	}

	if instant {
		return a.poller.Once(ctx, fetch)
	}
	return a.poller.Wait(ctx, fetch)
}

func (a *Acquisition) fail(op, message string, err error) error {
	a.logger.Errorf("[Acquisition] %s: %v", message, err)
	return classifyDebridError(op, message, err)
}

func (a *Acquisition) track(op string, err error) {
	if a.metrics == nil {
		return
	}
	a.metrics.DebridCalls.WithLabelValues(op, metrics.Outcome(err, debridOutcome)).Inc()
}

func (a *Acquisition) observe(start time.Time, err error) {
	if a.metrics == nil {
		return
	}
	a.metrics.Acquisitions.WithLabelValues(metrics.Outcome(err, kindLabel)).Inc()
	if err == nil {
		a.metrics.AcquisitionDuration.Observe(time.Since(start).Seconds())
	}
}

func kindLabel(err error) string {
	return string(apperrors.KindOf(err))
}

func debridOutcome(err error) string {
	var apiErr *realdebrid.APIError
	if errors.As(err, &apiErr) {
		return "api_error"
	}
	if errors.Is(err, realdebrid.ErrTokenMissing) {
		return "no_token"
	}
	return "error"
}
