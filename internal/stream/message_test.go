package stream

import (
	"testing"
	"time"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/notify"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

func TestMergePrefersNotificationFields(t *testing.T) {
	created := time.Date(2026, 8, 30, 10, 0, 5, 0, time.UTC)
	in := inbound{
		Event: &event.Event{
			ID:        "ev-1",
			Kind:      enums.EventKindCommission,
			Network:   "Amazon Associates",
			Timestamp: created.Add(-time.Minute),
		},
		Notification: &notify.Record{ID: "n-1", CreatedAt: created},
	}

	ev, rec, ok := in.merge()
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if ev.ID != "n-1" {
		t.Fatalf("notification id should win, got %q", ev.ID)
	}
	if !ev.Timestamp.Equal(created) {
		t.Fatalf("notification created_at should win, got %v", ev.Timestamp)
	}
	if rec == nil || rec.ID != "n-1" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestMergeFallsBackToEventFields(t *testing.T) {
	ts := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	in := inbound{
		Event:        &event.Event{ID: "ev-1", Network: "ClickBank", Timestamp: ts},
		Notification: &notify.Record{},
	}

	ev, _, ok := in.merge()
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if ev.ID != "ev-1" || !ev.Timestamp.Equal(ts) {
		t.Fatalf("event fields should survive an empty notification, got %+v", ev)
	}
}

func TestMergeRequiresEvent(t *testing.T) {
	in := inbound{Notification: &notify.Record{ID: "n-1"}}
	if _, _, ok := in.merge(); ok {
		t.Fatal("a notification without an event is not foldable")
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Invalid token", true},
		{"No token provided", true},
		{"rate limited", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAuthError(tt.msg); got != tt.want {
			t.Fatalf("isAuthError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
