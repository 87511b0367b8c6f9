package entitlement

import (
	"testing"
	"time"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

func activeSub(end time.Time) *models.Subscription {
	return &models.Subscription{
		ID:         uuid.New(),
		InstanceID: uuid.New(),
		Status:     models.SubscriptionStatusActive,
		EndDate:    timePtr(end),
	}
}

func TestCalculate_NilEndDate(t *testing.T) {
	info := Calculate(nil, models.SubscriptionStatusActive, testNow)

	assert.True(t, info.IsExpired)
	assert.Equal(t, 0, info.DaysRemaining)
	assert.Equal(t, models.SubscriptionStatusExpired, info.Status)
	assert.Equal(t, UrgencyNone, info.Urgency)
	assert.False(t, info.IsExpiring)
}

func TestCalculate_PastEndDateAlwaysExpired(t *testing.T) {
	past := testNow.AddDate(0, -1, 0)
	for _, status := range []string{
		models.SubscriptionStatusActive,
		models.SubscriptionStatusPending,
		models.SubscriptionStatusCancelled,
		"garbage",
	} {
		info := Calculate(timePtr(past), status, testNow)
		assert.True(t, info.IsExpired, "status %s", status)
		assert.Equal(t, models.SubscriptionStatusExpired, info.Status, "status %s", status)
		assert.Equal(t, 0, info.DaysRemaining, "status %s", status)
	}
}

func TestCalculate_EndDateExactlyNow(t *testing.T) {
	info := Calculate(timePtr(testNow), models.SubscriptionStatusActive, testNow)

	assert.Equal(t, 0, info.DaysRemaining)
	assert.True(t, info.IsExpired)
	assert.Equal(t, models.SubscriptionStatusExpired, info.Status)
}

func TestCalculate_LessThanOneDayReadsZero(t *testing.T) {
	// 23h in the future floors to 0 whole days: same-day expiry, no grace.
	end := testNow.Add(23 * time.Hour)
	info := Calculate(timePtr(end), models.SubscriptionStatusActive, testNow)

	assert.Equal(t, 0, info.DaysRemaining)
	assert.True(t, info.IsExpired)
}

func TestCalculate_UrgencyBands(t *testing.T) {
	cases := []struct {
		days    int
		urgency Urgency
	}{
		{0, UrgencyHigh},
		{1, UrgencyHigh},
		{2, UrgencyMedium},
		{3, UrgencyMedium},
		{4, UrgencyMedium},
		{5, UrgencyMedium},
		{6, UrgencyLow},
		{7, UrgencyLow},
		{8, UrgencyNone},
		{30, UrgencyNone},
	}

	for _, tc := range cases {
		// Pad by an hour so the floor lands on exactly tc.days.
		end := testNow.Add(time.Duration(tc.days)*24*time.Hour + time.Hour)
		info := Calculate(timePtr(end), models.SubscriptionStatusActive, testNow)

		assert.Equal(t, tc.days, info.DaysRemaining, "days %d", tc.days)
		assert.Equal(t, tc.urgency, info.Urgency, "days %d", tc.days)
		assert.Equal(t, tc.urgency != UrgencyNone, info.IsExpiring, "days %d", tc.days)
	}
}

func TestCalculate_ValidSubscriptionKeepsStatus(t *testing.T) {
	end := testNow.AddDate(0, 0, 20)
	info := Calculate(timePtr(end), models.SubscriptionStatusActive, testNow)

	assert.False(t, info.IsExpired)
	assert.Equal(t, models.SubscriptionStatusActive, info.Status)
	assert.Equal(t, 20, info.DaysRemaining)
}

func TestAggregate_NoRows(t *testing.T) {
	snap := Aggregate(nil, testNow)

	assert.False(t, snap.HasActive)
	assert.True(t, snap.IsExpired)
	assert.Equal(t, "inactive", snap.Status)
	assert.Equal(t, UrgencyNone, snap.Urgency)
}

func TestAggregate_OnlyLapsedRow(t *testing.T) {
	subs := []*models.Subscription{activeSub(testNow.AddDate(0, 0, -10))}
	snap := Aggregate(subs, testNow)

	assert.True(t, snap.HasActive)
	assert.True(t, snap.IsExpired)
	assert.Equal(t, 0, snap.DaysRemaining)
	assert.Equal(t, models.SubscriptionStatusExpired, snap.Status)
}

func TestAggregate_LatestEndDateWins(t *testing.T) {
	// One row already lapsed, one chained row well in the future: the
	// aggregate must reflect the future coverage, not the stale row.
	d1 := testNow.AddDate(0, 0, -5)
	d2 := testNow.Add(20*24*time.Hour + time.Hour)
	subs := []*models.Subscription{activeSub(d1), activeSub(d2)}

	snap := Aggregate(subs, testNow)

	assert.False(t, snap.IsExpired)
	assert.Equal(t, 20, snap.DaysRemaining)
	assert.Equal(t, UrgencyNone, snap.Urgency)
	assert.Equal(t, d2, *snap.EndDate)
}

func TestAggregate_ExpiringCoverage(t *testing.T) {
	end := testNow.Add(3*24*time.Hour + time.Hour)
	snap := Aggregate([]*models.Subscription{activeSub(end)}, testNow)

	assert.False(t, snap.IsExpired)
	assert.True(t, snap.IsExpiring)
	assert.Equal(t, 3, snap.DaysRemaining)
	assert.Equal(t, UrgencyMedium, snap.Urgency)
}

func TestAggregate_PendingRowsCollectedNotCounted(t *testing.T) {
	pending := &models.Subscription{
		ID:      uuid.New(),
		Status:  models.SubscriptionStatusPending,
		EndDate: timePtr(testNow.AddDate(0, 1, 0)),
	}
	snap := Aggregate([]*models.Subscription{pending}, testNow)

	assert.False(t, snap.HasActive)
	assert.True(t, snap.IsExpired)
	assert.Len(t, snap.Pending, 1)
}

func TestAggregate_CancelledRowsIgnored(t *testing.T) {
	cancelled := &models.Subscription{
		ID:      uuid.New(),
		Status:  models.SubscriptionStatusCancelled,
		EndDate: timePtr(testNow.AddDate(0, 1, 0)),
	}
	snap := Aggregate([]*models.Subscription{cancelled}, testNow)

	assert.False(t, snap.HasActive)
	assert.True(t, snap.IsExpired)
	assert.Empty(t, snap.Pending)
}

func TestAggregate_NilEndDateRowFallsBack(t *testing.T) {
	noEnd := &models.Subscription{
		ID:     uuid.New(),
		Status: models.SubscriptionStatusActive,
	}
	snap := Aggregate([]*models.Subscription{noEnd}, testNow)

	assert.True(t, snap.HasActive)
	assert.True(t, snap.IsExpired)
	assert.Equal(t, 0, snap.DaysRemaining)
}
