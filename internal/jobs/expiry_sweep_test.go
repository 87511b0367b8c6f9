package jobs

import (
	"context"
	"errors"
	"testing"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubSubscriptionRepo implements SubscriptionRepository with only the sweep
// path wired up.
type stubSubscriptionRepo struct {
	markCalls   int
	markExpired int64
	markErr     error
}

func (s *stubSubscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) error {
	return nil
}

func (s *stubSubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptionRepo) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptionRepo) ListActiveByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptionRepo) Update(ctx context.Context, subscription *models.Subscription) error {
	return nil
}

func (s *stubSubscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

func (s *stubSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubSubscriptionRepo) MarkExpired(ctx context.Context) (int64, error) {
	s.markCalls++
	return s.markExpired, s.markErr
}

func TestExpirySweeperRunsMarkExpired(t *testing.T) {
	repo := &stubSubscriptionRepo{markExpired: 3}

	sweeper, err := NewExpirySweeper(repo)
	assert.NoError(t, err)
	defer sweeper.Stop()

	sweeper.sweep()

	assert.Equal(t, 1, repo.markCalls)
}

func TestExpirySweeperSurvivesStoreFailure(t *testing.T) {
	repo := &stubSubscriptionRepo{markErr: errors.New("connection refused")}

	sweeper, err := NewExpirySweeper(repo)
	assert.NoError(t, err)
	defer sweeper.Stop()

	// Must not panic; the next tick retries.
	sweeper.sweep()
	sweeper.sweep()

	assert.Equal(t, 2, repo.markCalls)
}
