package archive

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/db/models"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.EventRecord{}))
	return NewRepo(conn)
}

func archiveEvent(id string, kind enums.EventKind, network string, ts time.Time) event.Event {
	return event.Event{
		ID:        id,
		Kind:      kind,
		Network:   network,
		Amount:    decimal.NewFromInt(10),
		Timestamp: ts,
	}
}

func TestInsertNormalizesNetwork(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	ev := archiveEvent("e1", enums.EventKindCommission, "Amazon Associates", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, ev))

	records, err := repo.ListByNetwork(ctx, "amazon-associates", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Amazon Associates", records[0].NetworkName, "display name should be preserved")
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		ev := archiveEvent(id, enums.EventKindClick, "ShareASale", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Insert(ctx, ev))
	}

	records, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].EventID)
	assert.Equal(t, "mid", records[1].EventID)
}

func TestEventsRoundTripForReplay(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	commission := decimal.NewFromFloat(45.5)
	original := event.Event{
		ID:               "e1",
		Kind:             enums.EventKindConversion,
		Network:          "ClickBank",
		Campaign:         "Summer Sale",
		Status:           "Pending",
		Amount:           decimal.NewFromInt(100),
		CommissionAmount: &commission,
		Conversions:      1,
		Timestamp:        ts,
	}
	require.NoError(t, repo.Insert(ctx, original))

	events, err := repo.Events(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Equal(t, "clickbank", got.Network, "replayed events carry the slug")
	require.NotNil(t, got.CommissionAmount)
	assert.True(t, got.CommissionAmount.Equal(commission))
	assert.True(t, got.MonetaryValue().Equal(commission), "monetary value should still prefer commissionAmount")
	assert.Equal(t, "Summer Sale", got.Campaign)
	assert.Equal(t, "Pending", got.Status)
}
