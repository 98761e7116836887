package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	"github.com/angelmondragon/affilidash-backend/pkg/config"
	"github.com/angelmondragon/affilidash-backend/pkg/logger"
)

func testStreamConfig(networks ...string) config.StreamConfig {
	return config.StreamConfig{
		FrequencyMS:       5000,
		Networks:          networks,
		ReconnectBase:     10 * time.Millisecond,
		ReconnectMax:      50 * time.Millisecond,
		ReconnectAttempts: 2,
	}
}

func wsServer(t *testing.T, fn func(ctx context.Context, conn *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		fn(r.Context(), conn, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func readHandshake(ctx context.Context, t *testing.T, conn *websocket.Conn) handshake {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Errorf("reading handshake: %v", err)
		return handshake{}
	}
	var hs handshake
	if err := json.Unmarshal(data, &hs); err != nil {
		t.Errorf("decoding handshake: %v", err)
	}
	return hs
}

func newTestMux(t *testing.T, server *httptest.Server, cfg config.StreamConfig, handler Handler) *Mux {
	t.Helper()
	mux, err := NewMux(Options{
		Upstream: config.UpstreamConfig{WSBaseURL: server.URL, Token: "token-123"},
		Stream:   cfg,
		Handler:  handler,
		Logger:   logger.New(logger.Options{ServiceName: "stream-test"}),
	})
	if err != nil {
		t.Fatalf("new mux: %v", err)
	}
	t.Cleanup(func() { _ = mux.Close() })
	return mux
}

func TestChannelDeliversMergedEvents(t *testing.T) {
	server := wsServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		if r.URL.Path != "/ws/affiliate/amazon-associates" {
			t.Errorf("unexpected dial path %s", r.URL.Path)
		}
		hs := readHandshake(ctx, t, conn)
		if hs.Token != "token-123" || hs.Config.Frequency != 5000 {
			t.Errorf("unexpected handshake %+v", hs)
		}
		if len(hs.Config.Networks) != 1 || hs.Config.Networks[0] != "amazon-associates" {
			t.Errorf("unexpected handshake networks %+v", hs.Config.Networks)
		}

		write := func(payload string) {
			if err := conn.Write(ctx, websocket.MessageText, []byte(payload)); err != nil {
				t.Errorf("server write: %v", err)
			}
		}
		write(`{"event":{"id":"e1","type":"commission","network":"Amazon Associates","commissionAmount":45.5,"timestamp":"2026-08-30T10:00:00Z"},"notification":{"_id":"n1","type":"commission","created_at":"2026-08-30T10:00:05Z"}}`)
		write(`{not json at all`)
		write(`{"event":{"id":"e2","type":"click","network":"Amazon Associates","clicks":3,"timestamp":"2026-08-30T10:01:00Z"}}`)
	})

	got := make(chan event.Event, 4)
	mux := newTestMux(t, server, testStreamConfig("amazon-associates"), func(ctx context.Context, ev event.Event, rec *notify.Record) {
		got <- ev
	})
	mux.Start(context.Background())

	first := waitForEvent(t, got)
	if first.ID != "n1" {
		t.Fatalf("notification id should override, got %q", first.ID)
	}
	second := waitForEvent(t, got)
	if second.ID != "e2" || second.Clicks != 3 {
		t.Fatalf("malformed payload should be skipped, next event %+v", second)
	}
}

func TestAuthErrorSignalsSessionReauth(t *testing.T) {
	var dials atomic.Int32
	server := wsServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		dials.Add(1)
		readHandshake(ctx, t, conn)
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"error":"Invalid token"}`))
		// hold the connection open; the client side decides to leave
		<-ctx.Done()
	})

	mux := newTestMux(t, server, testStreamConfig("shareasale"), func(context.Context, event.Event, *notify.Record) {})
	mux.Start(context.Background())

	select {
	case <-mux.AuthFailure():
	case <-time.After(2 * time.Second):
		t.Fatal("auth failure was never signalled")
	}

	// the channel must stop reconnecting once the credential is rejected
	time.Sleep(100 * time.Millisecond)
	if n := dials.Load(); n != 1 {
		t.Fatalf("expected a single dial, got %d", n)
	}
}

func TestChannelReconnectsAfterDrop(t *testing.T) {
	var dials atomic.Int32
	server := wsServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		n := dials.Add(1)
		readHandshake(ctx, t, conn)
		if n == 1 {
			// abrupt drop, no close frame
			conn.CloseNow()
			return
		}
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"event":{"id":"e1","type":"click","network":"ClickBank","clicks":1,"timestamp":"2026-08-30T10:00:00Z"}}`))
		<-ctx.Done()
	})

	got := make(chan event.Event, 1)
	mux := newTestMux(t, server, testStreamConfig("clickbank"), func(ctx context.Context, ev event.Event, rec *notify.Record) {
		got <- ev
	})
	mux.Start(context.Background())

	ev := waitForEvent(t, got)
	if ev.ID != "e1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if dials.Load() < 2 {
		t.Fatalf("expected a reconnect, got %d dials", dials.Load())
	}
}

func TestSiblingChannelsSurviveOneFailure(t *testing.T) {
	server := wsServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		readHandshake(ctx, t, conn)
		if r.URL.Path == "/ws/affiliate/shareasale" {
			conn.CloseNow()
			return
		}
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"event":{"id":"e1","type":"click","network":"Amazon Associates","clicks":1,"timestamp":"2026-08-30T10:00:00Z"}}`))
		<-ctx.Done()
	})

	got := make(chan event.Event, 1)
	mux := newTestMux(t, server, testStreamConfig("amazon-associates", "shareasale"), func(ctx context.Context, ev event.Event, rec *notify.Record) {
		select {
		case got <- ev:
		default:
		}
	})
	mux.Start(context.Background())

	ev := waitForEvent(t, got)
	if ev.Network != "Amazon Associates" {
		t.Fatalf("healthy channel should keep delivering, got %+v", ev)
	}
}

func TestCloseStopsEveryChannel(t *testing.T) {
	server := wsServer(t, func(ctx context.Context, conn *websocket.Conn, r *http.Request) {
		readHandshake(ctx, t, conn)
		<-ctx.Done()
	})

	mux := newTestMux(t, server, testStreamConfig("amazon-associates", "clickbank"), func(context.Context, event.Event, *notify.Record) {})
	mux.Start(context.Background())
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		_ = mux.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not return")
	}
}

func TestNewMuxValidatesOptions(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "stream-test"})
	if _, err := NewMux(Options{Stream: testStreamConfig("x"), Logger: logg}); err == nil {
		t.Fatal("expected error for missing handler")
	}
	if _, err := NewMux(Options{Stream: testStreamConfig(), Logger: logg, Handler: func(context.Context, event.Event, *notify.Record) {}}); err == nil {
		t.Fatal("expected error for empty network list")
	}
}

func waitForEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return event.Event{}
	}
}
