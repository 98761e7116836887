package enums

import (
	"fmt"
	"time"
)

// TimeRange is the reporting window requested by analytics queries.
type TimeRange string

const (
	TimeRange24H TimeRange = "24h"
	TimeRange7D  TimeRange = "7d"
	TimeRange30D TimeRange = "30d"
	TimeRange90D TimeRange = "90d"
	TimeRange1Y  TimeRange = "1y"
	// TimeRangeAll covers the full history; it has no fixed duration and no
	// previous window to compare against.
	TimeRangeAll TimeRange = "all"
)

var validTimeRanges = []TimeRange{
	TimeRange24H,
	TimeRange7D,
	TimeRange30D,
	TimeRange90D,
	TimeRange1Y,
	TimeRangeAll,
}

// IsValid checks whether the given range matches the canonical enum.
func (t TimeRange) IsValid() bool {
	for _, candidate := range validTimeRanges {
		if candidate == t {
			return true
		}
	}
	return false
}

// Duration returns the wall-clock span covered by the range. The open-ended
// "all" range returns zero; callers treat it as unbounded.
func (t TimeRange) Duration() time.Duration {
	switch t {
	case TimeRange24H:
		return 24 * time.Hour
	case TimeRange7D:
		return 7 * 24 * time.Hour
	case TimeRange30D:
		return 30 * 24 * time.Hour
	case TimeRange90D:
		return 90 * 24 * time.Hour
	case TimeRange1Y:
		return 365 * 24 * time.Hour
	}
	return 0
}

// ParseTimeRange converts raw strings into TimeRange.
func ParseTimeRange(value string) (TimeRange, error) {
	for _, candidate := range validTimeRanges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid time range %q", value)
}
