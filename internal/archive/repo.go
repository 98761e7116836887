// Package archive persists every folded event so history survives restarts
// and can be replayed into the aggregation store.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/internal/repo"
	"github.com/angelmondragon/affilidash-backend/pkg/db/models"
)

const defaultListLimit = 200

// Repo stores and queries archived events.
type Repo struct {
	repo.Base
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{Base: repo.NewBase(db)}
}

// Insert archives one normalized event.
func (r *Repo) Insert(ctx context.Context, ev event.Event) error {
	normalized := ev.Normalized()
	record := models.EventRecord{
		ID:               uuid.New(),
		EventID:          normalized.ID,
		Kind:             normalized.Kind,
		NetworkID:        normalized.Network,
		NetworkName:      normalized.NetworkName,
		Campaign:         normalized.Campaign,
		Status:           normalized.Status,
		Amount:           normalized.Amount,
		CommissionAmount: normalized.CommissionAmount,
		Clicks:           normalized.Clicks,
		Impressions:      normalized.Impressions,
		Conversions:      normalized.Conversions,
		OccurredAt:       normalized.Timestamp,
		CreatedAt:        time.Now().UTC(),
	}
	if err := r.DB(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("archiving event: %w", err)
	}
	return nil
}

// ListRecent returns the newest archived events, most recent first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]models.EventRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var records []models.EventRecord
	err := r.DB(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing archived events: %w", err)
	}
	return records, nil
}

// ListByNetwork returns the newest archived events for one network slug.
func (r *Repo) ListByNetwork(ctx context.Context, networkID string, limit int) ([]models.EventRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var records []models.EventRecord
	err := r.DB(ctx).
		Where("network_id = ?", networkID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing archived events for %s: %w", networkID, err)
	}
	return records, nil
}

// Events converts archived records back to their wire form, oldest first,
// ready to be replayed through the aggregation store.
func (r *Repo) Events(ctx context.Context, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var records []models.EventRecord
	err := r.DB(ctx).
		Order("occurred_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("replaying archived events: %w", err)
	}

	events := make([]event.Event, 0, len(records))
	for _, record := range records {
		events = append(events, event.Event{
			ID:               record.EventID,
			Kind:             record.Kind,
			Network:          record.NetworkID,
			NetworkName:      record.NetworkName,
			Campaign:         record.Campaign,
			Status:           record.Status,
			Amount:           record.Amount,
			CommissionAmount: record.CommissionAmount,
			Clicks:           record.Clicks,
			Impressions:      record.Impressions,
			Conversions:      record.Conversions,
			Timestamp:        record.OccurredAt,
		})
	}
	return events, nil
}
