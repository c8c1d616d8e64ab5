package gallery

import (
	"context"
	"errors"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/models"
	"github.com/robfig/cron/v3"
	"log/slog"
	"sync"
	"time"
)

const DefaultPollInterval = 3 * time.Second

var ErrPollerStopped = errors.New("poller stopped")

type ImagesLister interface {
	ListImages(ctx context.Context) ([]models.Image, error)
}

// State is what a gallery view renders. Images always holds the last list
// that was fetched successfully.
type State struct {
	Images []models.Image
	// Ready turns true once the first fetch finished, whatever its outcome.
	Ready bool
	// Loading is set only while a manual refresh is in flight.
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

type Poller struct {
	log      *slog.Logger
	lister   ImagesLister
	interval time.Duration
	onChange func(State)

	mu      sync.Mutex
	state   State
	cron    *cron.Cron
	started bool
	stopped bool
	done    chan struct{}
}

// NewPoller returns a stopped poller. onChange, when not nil, is called with a
// snapshot after every state change; it must not call back into the poller.
func NewPoller(log *slog.Logger, lister ImagesLister, interval time.Duration, onChange func(State)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		log:      log.With(slog.String("component", "gallery/poller")),
		lister:   lister,
		interval: interval,
		onChange: onChange,
		state:    State{Images: []models.Image{}},
		done:     make(chan struct{}),
	}
}

// Start fetches once right away and then on every interval until Stop or
// until ctx is done. Ticks that fire while a fetch is still running are
// skipped.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true

	p.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: p.log})))
	p.cron.Schedule(cron.Every(p.interval), cron.FuncJob(func() {
		_ = p.Refresh(ctx, false)
	}))
	p.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-p.done:
		}
	}()

	_ = p.Refresh(ctx, false)

	p.mu.Lock()
	if !p.stopped {
		p.cron.Start()
	}
	p.mu.Unlock()

	p.log.Info("gallery polling started", slog.Duration("interval", p.interval))
}

// Stop halts the schedule. Fetches still in flight finish but their results
// are dropped.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.done)
	c := p.cron
	p.mu.Unlock()

	if c != nil {
		c.Stop()
	}

	p.log.Info("gallery polling stopped")
}

// Refresh fetches the list now. A manual refresh is reported through
// State.Loading; background refreshes are silent.
func (p *Poller) Refresh(ctx context.Context, manual bool) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPollerStopped
	}
	if manual {
		p.state.Loading = true
	}
	p.mu.Unlock()

	if manual {
		p.notify()
	}

	images, err := p.lister.ListImages(ctx)

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPollerStopped
	}

	if err != nil {
		p.state.Err = err
	} else {
		if images == nil {
			images = []models.Image{}
		}
		p.state.Images = images
		p.state.Err = nil
		p.state.UpdatedAt = time.Now()
	}
	p.state.Ready = true
	if manual {
		p.state.Loading = false
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("failed to refresh gallery", sl.Err(err))
	} else {
		p.log.Debug("gallery refreshed", slog.Int("count", len(images)))
	}

	p.notify()

	return err
}

// State returns a snapshot safe to keep after the poller changes.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshot()
}

func (p *Poller) snapshot() State {
	s := p.state
	s.Images = make([]models.Image, len(p.state.Images))
	copy(s.Images, p.state.Images)
	return s
}

func (p *Poller) notify() {
	if p.onChange == nil {
		return
	}
	p.onChange(p.State())
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append([]interface{}{sl.Err(err)}, keysAndValues...)...)
}
