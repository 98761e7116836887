package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

// EventRecord is the archived form of one affiliate event.
type EventRecord struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	EventID          string           `gorm:"type:text"`
	Kind             enums.EventKind  `gorm:"type:text;not null"`
	NetworkID        string           `gorm:"type:text;not null;index"`
	NetworkName      string           `gorm:"type:text"`
	Campaign         string           `gorm:"type:text"`
	Status           string           `gorm:"type:text"`
	Amount           decimal.Decimal  `gorm:"type:numeric(18,2);not null"`
	CommissionAmount *decimal.Decimal `gorm:"type:numeric(18,2)"`
	Clicks           int64            `gorm:"not null;default:0"`
	Impressions      int64            `gorm:"not null;default:0"`
	Conversions      int64            `gorm:"not null;default:0"`
	OccurredAt       time.Time        `gorm:"type:timestamptz;not null;index"`
	CreatedAt        time.Time        `gorm:"type:timestamptz"`
}

// TableName pins the archive table, matching the goose migration.
func (EventRecord) TableName() string {
	return "event_archive"
}
