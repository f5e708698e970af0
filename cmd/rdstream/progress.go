package main

import (
	"io"
	"sync"

	"github.com/amaumene/rdstream/pkg/realdebrid"
	"github.com/cheggaaa/pb/v3"
)

// pollProgress shows the debrid download progress of a torrent while the
// acquisition pipeline polls it.
type pollProgress struct {
	mu  sync.Mutex
	bar *pb.ProgressBar
}

func newPollProgress(out io.Writer, quiet bool) *pollProgress {
	if quiet {
		return &pollProgress{}
	}
	tmpl := `{{string . "status"}} {{bar . }} {{percent . }} {{etime . }}`
	bar := pb.ProgressBarTemplate(tmpl).New(100)
	bar.SetWriter(out)
	bar.Set("status", "waiting")
	bar.Start()
	return &pollProgress{bar: bar}
}

// Observe is a services.PollObserver.
func (p *pollProgress) Observe(info *realdebrid.TorrentInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		return
	}
	p.bar.Set("status", info.Status)
	p.bar.SetCurrent(int64(info.Progress))
}

func (p *pollProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
