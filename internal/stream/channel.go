package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	"github.com/angelmondragon/affilidash-backend/pkg/config"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
	"github.com/angelmondragon/affilidash-backend/pkg/metrics"
)

// statusAuthFailure is the close code the upstream sends when the channel
// handshake carried a bad credential.
const statusAuthFailure = websocket.StatusCode(4001)

const maxMessageBytes = 1 << 20

var errAuthRejected = errors.New("channel credentials rejected")

// Handler receives every merged event pushed by a channel.
type Handler func(ctx context.Context, ev event.Event, rec *notify.Record)

// channel maintains one push connection for a single network, reconnecting
// with backoff until the session closes or the credential is rejected.
type channel struct {
	networkID string
	dialURL   string
	token     string
	frequency int
	cfg       config.StreamConfig
	handle    Handler
	onAuth    func()
	logg      *logger.Logger
	mtr       *metrics.EngineMetrics

	mu       sync.Mutex
	closeErr error
}

type handshake struct {
	Token  string          `json:"token"`
	Config handshakeConfig `json:"config"`
}

type handshakeConfig struct {
	Frequency int      `json:"frequency"`
	Networks  []string `json:"networks"`
}

func (c *channel) run(ctx context.Context) {
	logCtx := c.logg.WithNetwork(ctx, c.networkID)
	backoff := c.cfg.ReconnectBase

	for attempt := 0; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		err := c.connect(logCtx)
		if err == nil || ctx.Err() != nil {
			return
		}
		if errors.Is(err, errAuthRejected) {
			c.logg.Warn(logCtx, "channel credentials rejected, signalling re-auth")
			c.onAuth()
			return
		}

		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "channel dropped, reconnecting")
		c.mtr.IncReconnect(c.networkID)
		select {
		case <-ctx.Done():
			return
		case <-time.After(withJitter(backoff)):
		}
		backoff *= 2
		if backoff > c.cfg.ReconnectMax {
			backoff = c.cfg.ReconnectMax
		}
	}

	c.logg.Error(logCtx, "channel gave up after repeated failures", nil)
}

func (c *channel) connect(ctx context.Context) error {
	ws, _, err := websocket.Dial(ctx, c.dialURL, nil)
	if err != nil {
		return fmt.Errorf("dial channel: %w", err)
	}
	ws.SetReadLimit(maxMessageBytes)
	// Tear down without a close handshake: a stalled peer must not delay
	// the re-auth signal or session shutdown.
	defer func() {
		if cerr := ws.CloseNow(); cerr != nil {
			c.recordCloseErr(cerr)
		}
	}()

	if err := c.sendHandshake(ctx, ws); err != nil {
		return err
	}

	for {
		msgType, data, err := ws.Read(ctx)
		if err != nil {
			switch {
			case websocket.CloseStatus(err) == websocket.StatusNormalClosure:
				return nil
			case websocket.CloseStatus(err) == statusAuthFailure:
				return errAuthRejected
			case errors.Is(err, context.Canceled):
				return nil
			}
			return fmt.Errorf("channel read: %w", err)
		}
		if msgType != websocket.MessageText {
			continue
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			// One bad payload must not kill the channel.
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "dropping malformed channel payload")
			continue
		}
		if in.Error != "" {
			if isAuthError(in.Error) {
				return errAuthRejected
			}
			c.logg.Warn(c.logg.WithField(ctx, "error", in.Error), "channel reported an error")
			continue
		}

		ev, rec, ok := in.merge()
		if !ok {
			continue
		}
		c.handle(ctx, ev, rec)
	}
}

func (c *channel) sendHandshake(ctx context.Context, ws *websocket.Conn) error {
	payload, err := json.Marshal(handshake{
		Token: c.token,
		Config: handshakeConfig{
			Frequency: c.frequency,
			Networks:  []string{c.networkID},
		},
	})
	if err != nil {
		return fmt.Errorf("encoding handshake: %w", err)
	}
	if err := ws.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("sending handshake: %w", err)
	}
	return nil
}

func (c *channel) recordCloseErr(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closeErr == nil {
		c.closeErr = fmt.Errorf("closing %s channel: %w", c.networkID, err)
	}
}

func (c *channel) takeCloseErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.closeErr
	c.closeErr = nil
	return err
}

func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}
