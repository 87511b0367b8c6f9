// Package entitlement derives a point-in-time access decision from a
// tenant's subscription rows. Everything here is a pure function of
// (rows, now); callers pass now explicitly and nothing is cached, so the
// result always reflects the clock the caller chose.
package entitlement

import (
	"time"

	"cloudpanel/internal/models"
)

// Urgency classifies how soon a subscription will lapse.
type Urgency string

const (
	UrgencyNone   Urgency = "none"
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Urgency thresholds in whole days remaining.
const (
	highThreshold   = 1
	mediumThreshold = 5
	lowThreshold    = 7
)

// Info is the derived entitlement view of a single subscription.
type Info struct {
	DaysRemaining int        `json:"days_remaining"`
	Status        string     `json:"status"`
	EndDate       *time.Time `json:"end_date"`
	IsExpiring    bool       `json:"is_expiring"`
	IsExpired     bool       `json:"is_expired"`
	Urgency       Urgency    `json:"urgency"`
}

// Snapshot is the aggregate entitlement for a tenant instance across all of
// its subscription rows.
type Snapshot struct {
	Info
	HasActive bool `json:"has_active"`
	// Pending rows are collected but nothing consumes them yet; kept until
	// product decides whether pending subscriptions are ever created.
	Pending []*models.Subscription `json:"pending,omitempty"`
}

// daysBetween returns the whole days from now until t, floored toward the
// earlier instant: an end date 23h away reads as 0 days remaining.
func daysBetween(now, t time.Time) int {
	return int(t.Sub(now) / (24 * time.Hour))
}

func urgencyFor(daysRemaining int) Urgency {
	switch {
	case daysRemaining <= highThreshold:
		return UrgencyHigh
	case daysRemaining <= mediumThreshold:
		return UrgencyMedium
	case daysRemaining <= lowThreshold:
		return UrgencyLow
	default:
		return UrgencyNone
	}
}

// Calculate derives the entitlement view of one subscription from its end
// date and stored status. A subscription without an end date is never valid.
// Zero days remaining counts as expired: same-day expiry has no grace
// window. The returned status is forced to "expired" whenever the row is
// expired, overriding whatever was stored.
func Calculate(endDate *time.Time, status string, now time.Time) Info {
	if endDate == nil {
		return Info{
			DaysRemaining: 0,
			Status:        models.SubscriptionStatusExpired,
			IsExpired:     true,
			Urgency:       UrgencyNone,
		}
	}

	days := daysBetween(now, *endDate)
	if days < 0 {
		days = 0
	}
	expired := days <= 0

	info := Info{
		DaysRemaining: days,
		Status:        status,
		EndDate:       endDate,
		Urgency:       urgencyFor(days),
	}
	info.IsExpiring = info.Urgency != UrgencyNone
	if expired {
		info.IsExpired = true
		info.Status = models.SubscriptionStatusExpired
	}
	return info
}

// Aggregate merges all subscription rows of a tenant instance into one
// entitlement decision. A tenant may hold several rows: a lapsed one plus a
// chained future one. The aggregate is driven by the furthest-future end
// date so a stale row cannot mask live coverage.
func Aggregate(subs []*models.Subscription, now time.Time) Snapshot {
	var active, pending []*models.Subscription
	for _, sub := range subs {
		switch sub.Status {
		case models.SubscriptionStatusActive:
			active = append(active, sub)
		case models.SubscriptionStatusPending:
			pending = append(pending, sub)
		}
	}

	if len(active) == 0 {
		return Snapshot{
			Info: Info{
				Status:    "inactive",
				IsExpired: true,
				Urgency:   UrgencyNone,
			},
			Pending: pending,
		}
	}

	// Total coverage comes from the latest end date among active rows.
	latest := latestEnding(active)
	totalDays := 0
	if latest.EndDate != nil && latest.EndDate.After(now) {
		totalDays = daysBetween(now, *latest.EndDate)
		if totalDays < 0 {
			totalDays = 0
		}
	}

	// Status basis: prefer the latest-ending row still in the future, else
	// fall back to the earliest-ending row.
	basis := latestEndingInFuture(active, now)
	if basis == nil {
		basis = earliestEnding(active)
	}
	info := Calculate(basis.EndDate, basis.Status, now)

	// Override the per-row fields with the aggregate totals.
	info.DaysRemaining = totalDays
	info.Urgency = urgencyFor(totalDays)
	info.IsExpiring = info.Urgency != UrgencyNone
	info.IsExpired = totalDays <= 0
	if info.IsExpired {
		info.Status = models.SubscriptionStatusExpired
	}
	if latest.EndDate != nil {
		info.EndDate = latest.EndDate
	}

	return Snapshot{Info: info, HasActive: true, Pending: pending}
}

func latestEnding(subs []*models.Subscription) *models.Subscription {
	var latest *models.Subscription
	for _, sub := range subs {
		if sub.EndDate == nil {
			continue
		}
		if latest == nil || sub.EndDate.After(*latest.EndDate) {
			latest = sub
		}
	}
	if latest == nil {
		latest = subs[0]
	}
	return latest
}

func latestEndingInFuture(subs []*models.Subscription, now time.Time) *models.Subscription {
	var latest *models.Subscription
	for _, sub := range subs {
		if sub.EndDate == nil || !sub.EndDate.After(now) {
			continue
		}
		if latest == nil || sub.EndDate.After(*latest.EndDate) {
			latest = sub
		}
	}
	return latest
}

func earliestEnding(subs []*models.Subscription) *models.Subscription {
	var earliest *models.Subscription
	for _, sub := range subs {
		if sub.EndDate == nil {
			continue
		}
		if earliest == nil || sub.EndDate.Before(*earliest.EndDate) {
			earliest = sub
		}
	}
	if earliest == nil {
		earliest = subs[0]
	}
	return earliest
}
