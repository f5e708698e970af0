package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/rdstream/internal/constants"
	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/pkg/logger"
	"github.com/amaumene/rdstream/pkg/realdebrid"
	"github.com/avast/retry-go/v4"
)

// StatusFetcher returns the current status of one torrent.
type StatusFetcher func(ctx context.Context) (*realdebrid.TorrentInfo, error)

// PollObserver is told about every status fetched.
type PollObserver func(info *realdebrid.TorrentInfo)

// Poller waits for a torrent to reach the downloaded state. It polls at a
// fixed interval, gives up after maxAttempts fetches and stops as soon as the
// context is done.
type Poller struct {
	interval    time.Duration
	maxAttempts uint
	timer       retry.Timer
	observer    PollObserver
	logger      logger.Logger
}

type notReadyError struct {
	status   string
	progress float64
}

func (e *notReadyError) Error() string {
	return fmt.Sprintf("torrent not ready: status %s (%.0f%%)", e.status, e.progress)
}

// NewPoller creates a poller. A nil timer uses real time.
func NewPoller(interval time.Duration, maxAttempts int, timer retry.Timer, observer PollObserver, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	if maxAttempts < 1 {
		maxAttempts = constants.DefaultMaxPollAttempts
	}
	return &Poller{
		interval:    interval,
		maxAttempts: uint(maxAttempts),
		timer:       timer,
		observer:    observer,
		logger:      log,
	}
}

// Once fetches the status a single time.
func (p *Poller) Once(ctx context.Context, fetch StatusFetcher) (*realdebrid.TorrentInfo, error) {
	info, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.notify(info)
	return info, nil
}

// Wait fetches the status until it is downloaded. Fetch errors and failed
// statuses end the wait immediately.
func (p *Poller) Wait(ctx context.Context, fetch StatusFetcher) (*realdebrid.TorrentInfo, error) {
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(p.maxAttempts),
		retry.Delay(p.interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Debugf("[Poller] check %d/%d: %v", n+1, p.maxAttempts, err)
		}),
	}
	if p.timer != nil {
		opts = append(opts, retry.WithTimer(p.timer))
	}

	info, err := retry.DoWithData(func() (*realdebrid.TorrentInfo, error) {
		info, err := fetch(ctx)
		if err != nil {
			return nil, retry.Unrecoverable(err)
		}
		p.notify(info)

		switch {
		case info.Status == realdebrid.StatusDownloaded:
			return info, nil
		case realdebrid.IsFailedStatus(info.Status):
			return nil, retry.Unrecoverable(apperrors.NewUnrecoverableError(
				"torrent failed on debrid service",
				fmt.Errorf("torrent %s ended with status %s", info.ID, info.Status),
			))
		}
		return nil, &notReadyError{status: info.Status, progress: info.Progress}
	}, opts...)
	if err == nil {
		return info, nil
	}

	var notReady *notReadyError
	if errors.As(err, &notReady) {
		return nil, apperrors.New(apperrors.KindTimeout, apperrors.OpTorrentInfo,
			fmt.Sprintf("torrent not ready after %d status checks", p.maxAttempts), err)
	}
	if ctxErr := apperrors.FromContext(apperrors.OpTorrentInfo, err); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, err
}

func (p *Poller) notify(info *realdebrid.TorrentInfo) {
	if p.observer != nil {
		p.observer(info)
	}
}
