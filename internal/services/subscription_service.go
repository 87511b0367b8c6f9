package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloudpanel/internal/entitlement"
	"cloudpanel/internal/models"
	"cloudpanel/internal/plans"
	"cloudpanel/internal/repositories"

	"github.com/google/uuid"
)

// ErrInvalidStatus is returned when a status transition names a value
// outside the closed status set.
var ErrInvalidStatus = errors.New("invalid status")

// Extension modes accepted by Extend.
const (
	ExtendModeDuration = "duration" // preset duration from the catalog
	ExtendModeDate     = "date"     // operator-chosen explicit end date
	ExtendModeDays     = "days"     // raw days-from-today override
)

// SubscriptionService handles the subscription lifecycle: creation with
// chaining onto existing coverage, in-place extension, status transitions
// and the derived entitlement view.
type SubscriptionService interface {
	Create(ctx context.Context, req *CreateSubscriptionRequest) (*CreateSubscriptionResult, error)
	Extend(ctx context.Context, req *ExtendSubscriptionRequest) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, subscriptionID uuid.UUID, newStatus string) (*models.Subscription, error)
	GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error)
	ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error)
	Delete(ctx context.Context, subscriptionID uuid.UUID) error
	Entitlement(ctx context.Context, instanceID uuid.UUID) (entitlement.Snapshot, error)
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	now              func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService instance.
func NewSubscriptionService(subscriptionRepo repositories.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		now:              time.Now,
	}
}

type CreateSubscriptionRequest struct {
	InstanceID uuid.UUID `json:"instance_id" validate:"required"`
	OwnerID    uuid.UUID `json:"owner_id" validate:"required"`
	PlanID     string    `json:"plan_id" validate:"required"`
	DurationID string    `json:"duration_id" validate:"required"`
}

type CreateSubscriptionResult struct {
	Message      string               `json:"message"`
	Subscription *models.Subscription `json:"subscription"`
}

type ExtendSubscriptionRequest struct {
	SubscriptionID uuid.UUID  `json:"subscription_id" validate:"required"`
	Mode           string     `json:"mode" validate:"required"`
	DurationID     string     `json:"duration_id,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Days           int        `json:"days,omitempty"`
}

// monthsCharged rounds a day count up to whole billing months.
func monthsCharged(days int) int {
	return (days + 29) / 30
}

// Create inserts a new subscription for the instance. When the instance
// already has active coverage ending in the future, the new period chains
// onto that end date instead of overlapping it. Unknown plan or duration
// ids are a hard failure here; only the catalog lookup helpers default.
func (s *subscriptionService) Create(ctx context.Context, req *CreateSubscriptionRequest) (*CreateSubscriptionResult, error) {
	plan, ok := plans.GetPlanByID(req.PlanID)
	if !ok {
		return nil, fmt.Errorf("unknown plan: %s", req.PlanID)
	}
	duration, ok := plans.GetDurationByID(req.DurationID)
	if !ok {
		return nil, fmt.Errorf("unknown duration: %s", req.DurationID)
	}

	active, err := s.subscriptionRepo.ListActiveByInstance(ctx, req.InstanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	now := s.now()
	start := now
	chained := false
	if latest := latestActiveEnd(active); latest != nil && latest.After(now) {
		start = *latest
		chained = true
	}
	end := start.AddDate(0, 0, duration.Days)
	amount := plan.MonthlyPrice * float64(monthsCharged(duration.Days))

	subscription := &models.Subscription{
		ID:         uuid.New(),
		InstanceID: req.InstanceID,
		OwnerID:    req.OwnerID,
		PlanName:   plan.ID,
		Amount:     amount,
		Status:     models.SubscriptionStatusActive,
		StartDate:  start,
		EndDate:    &end,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	message := "Subscription created, starts today"
	if chained {
		message = "Subscription created, starts when the current period ends"
	}
	return &CreateSubscriptionResult{Message: message, Subscription: subscription}, nil
}

// latestActiveEnd returns the furthest-future end date among the rows, or
// nil when no row carries one.
func latestActiveEnd(subs []*models.Subscription) *time.Time {
	var latest *time.Time
	for _, sub := range subs {
		if sub.EndDate == nil {
			continue
		}
		if latest == nil || sub.EndDate.After(*latest) {
			latest = sub.EndDate
		}
	}
	return latest
}

// Extend pushes an existing subscription's end date forward in place and
// increments its amount by the extension charge. The update is a
// compare-and-swap on updated_at, so two concurrent extensions cannot both
// chain off the same end date.
func (s *subscriptionService) Extend(ctx context.Context, req *ExtendSubscriptionRequest) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	now := s.now()
	base := now
	if subscription.EndDate != nil && subscription.EndDate.After(now) {
		base = *subscription.EndDate
	}

	var newEnd time.Time
	var addedDays int
	switch req.Mode {
	case ExtendModeDuration:
		duration, ok := plans.GetDurationByID(req.DurationID)
		if !ok {
			return nil, fmt.Errorf("unknown duration: %s", req.DurationID)
		}
		addedDays = duration.Days
		newEnd = base.AddDate(0, 0, addedDays)
	case ExtendModeDate:
		if req.EndDate == nil {
			return nil, fmt.Errorf("end date is required for mode %q", ExtendModeDate)
		}
		if !req.EndDate.After(now) {
			return nil, fmt.Errorf("end date must be in the future")
		}
		newEnd = *req.EndDate
		addedDays = int(newEnd.Sub(base) / (24 * time.Hour))
		if addedDays < 0 {
			addedDays = 0
		}
	case ExtendModeDays:
		if req.Days <= 0 {
			return nil, fmt.Errorf("days must be positive for mode %q", ExtendModeDays)
		}
		addedDays = req.Days
		newEnd = now.AddDate(0, 0, addedDays)
	default:
		return nil, fmt.Errorf("unknown extension mode: %s", req.Mode)
	}

	charge := plans.GetPlanPrice(subscription.PlanName) * float64(monthsCharged(addedDays))
	subscription.Amount += charge
	subscription.EndDate = &newEnd

	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		return nil, fmt.Errorf("failed to extend subscription: %w", err)
	}
	return subscription, nil
}

// UpdateStatus transitions a subscription's status. Only the closed status
// set is accepted.
func (s *subscriptionService) UpdateStatus(ctx context.Context, subscriptionID uuid.UUID, newStatus string) (*models.Subscription, error) {
	if !models.ValidSubscriptionStatus(newStatus) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	if err := s.subscriptionRepo.UpdateStatus(ctx, subscriptionID, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return s.subscriptionRepo.GetByID(ctx, subscriptionID)
}

func (s *subscriptionService) GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	return s.subscriptionRepo.GetByID(ctx, subscriptionID)
}

func (s *subscriptionService) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error) {
	return s.subscriptionRepo.ListByInstance(ctx, instanceID)
}

func (s *subscriptionService) Delete(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.subscriptionRepo.Delete(ctx, subscriptionID)
}

// Entitlement derives the instance's aggregate entitlement snapshot from
// all of its rows. Computed fresh on every call; never cached.
func (s *subscriptionService) Entitlement(ctx context.Context, instanceID uuid.UUID) (entitlement.Snapshot, error) {
	subs, err := s.subscriptionRepo.ListByInstance(ctx, instanceID)
	if err != nil {
		return entitlement.Snapshot{}, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	return entitlement.Aggregate(subs, s.now()), nil
}
