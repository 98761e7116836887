package enums

import "fmt"

// NotificationCategory groups formatted notifications for the inbox UI.
type NotificationCategory string

const (
	NotificationCategoryEarnings    NotificationCategory = "earnings"
	NotificationCategoryPayments    NotificationCategory = "payments"
	NotificationCategoryPerformance NotificationCategory = "performance"
	NotificationCategorySystem      NotificationCategory = "system"
)

var validNotificationCategories = []NotificationCategory{
	NotificationCategoryEarnings,
	NotificationCategoryPayments,
	NotificationCategoryPerformance,
	NotificationCategorySystem,
}

// IsValid checks whether the given category matches the canonical enum.
func (n NotificationCategory) IsValid() bool {
	for _, candidate := range validNotificationCategories {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationCategory converts raw strings into NotificationCategory.
func ParseNotificationCategory(value string) (NotificationCategory, error) {
	for _, candidate := range validNotificationCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification category %q", value)
}

// NotificationPriority ranks formatted notifications.
type NotificationPriority string

const (
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityLow    NotificationPriority = "low"
)

// PriorityForType maps a raw notification type to its display priority.
// Commission and payout notices always surface first.
func PriorityForType(value string) NotificationPriority {
	switch value {
	case string(EventKindCommission), string(EventKindPayout):
		return NotificationPriorityHigh
	case "alert", "optimization":
		return NotificationPriorityMedium
	}
	return NotificationPriorityLow
}
