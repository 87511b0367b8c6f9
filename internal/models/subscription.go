package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses stored in the subscriptions table. The column is
// free-form text; these are the values the application writes.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

type Subscription struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	InstanceID uuid.UUID  `json:"instance_id" db:"instance_id"`
	OwnerID    uuid.UUID  `json:"owner_id" db:"owner_id"`
	PlanName   string     `json:"plan_name" db:"plan_name"`
	Amount     float64    `json:"amount" db:"amount"`
	Status     string     `json:"status" db:"status"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date" db:"end_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidSubscriptionStatus reports whether status is one of the values the
// application is willing to persist.
func ValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionStatusActive, SubscriptionStatusPending,
		SubscriptionStatusExpired, SubscriptionStatusCancelled:
		return true
	}
	return false
}
