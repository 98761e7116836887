// Package stream maintains one authenticated push channel per connected
// affiliate network and feeds every inbound event into the session.
package stream

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/angelmondragon/affilidash-backend/pkg/config"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
	"github.com/angelmondragon/affilidash-backend/pkg/metrics"
)

// Options wires a Mux. Metrics may be nil; everything else is required.
type Options struct {
	Upstream config.UpstreamConfig
	Stream   config.StreamConfig
	Handler  Handler
	Logger   *logger.Logger
	Metrics  *metrics.EngineMetrics
}

// Mux fans one channel per network out to a shared handler. A credential
// rejection on any channel closes the auth-failure signal exactly once;
// siblings keep running until the session tears everything down.
type Mux struct {
	channels []*channel
	logg     *logger.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	authOnce sync.Once
	authCh   chan struct{}
	started  bool
}

func NewMux(opts Options) (*Mux, error) {
	if opts.Handler == nil {
		return nil, errors.New("stream: handler is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("stream: logger is required")
	}
	if len(opts.Stream.Networks) == 0 {
		return nil, errors.New("stream: at least one network is required")
	}

	m := &Mux{
		logg:   opts.Logger,
		authCh: make(chan struct{}),
	}
	base := strings.TrimRight(opts.Upstream.WSBaseURL, "/")
	for _, networkID := range opts.Stream.Networks {
		networkID = strings.TrimSpace(networkID)
		if networkID == "" {
			continue
		}
		m.channels = append(m.channels, &channel{
			networkID: networkID,
			dialURL:   base + "/ws/affiliate/" + networkID,
			token:     opts.Upstream.Token,
			frequency: opts.Stream.FrequencyMS,
			cfg:       opts.Stream,
			handle:    opts.Handler,
			onAuth:    m.signalAuthFailure,
			logg:      opts.Logger,
			mtr:       opts.Metrics,
		})
	}
	if len(m.channels) == 0 {
		return nil, errors.New("stream: at least one network is required")
	}
	return m, nil
}

// Start opens every channel. Each runs independently; one network failing
// never closes its siblings.
func (m *Mux) Start(ctx context.Context) {
	if m.started {
		return
	}
	m.started = true

	ctx, m.cancel = context.WithCancel(ctx)
	for _, ch := range m.channels {
		m.wg.Add(1)
		go func(ch *channel) {
			defer m.wg.Done()
			ch.run(ctx)
		}(ch)
	}
}

// AuthFailure is closed when any channel reports a rejected credential.
func (m *Mux) AuthFailure() <-chan struct{} {
	return m.authCh
}

func (m *Mux) signalAuthFailure() {
	m.authOnce.Do(func() {
		close(m.authCh)
	})
}

// Close tears down every open channel and waits for their loops to exit.
func (m *Mux) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	var errs error
	for _, ch := range m.channels {
		errs = multierr.Append(errs, ch.takeCloseErr())
	}
	return errs
}
