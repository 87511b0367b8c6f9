package repositories

import (
	"context"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error)
	ListActiveByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error)
	Update(ctx context.Context, subscription *models.Subscription) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkExpired(ctx context.Context) (int64, error)
}

type subscriptionRepo struct {
	db DB
}

func NewSubscriptionRepo(db DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const subscriptionColumns = `id, instance_id, owner_id, plan_name, amount, status, start_date, end_date, created_at, updated_at`

func (r *subscriptionRepo) Create(ctx context.Context, subscription *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, instance_id, owner_id, plan_name, amount, status, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, subscription.ID, subscription.InstanceID, subscription.OwnerID, subscription.PlanName, subscription.Amount, subscription.Status, subscription.StartDate, subscription.EndDate)
	return err
}

func (r *subscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	subscription := &models.Subscription{}
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&subscription.ID, &subscription.InstanceID, &subscription.OwnerID, &subscription.PlanName, &subscription.Amount, &subscription.Status, &subscription.StartDate, &subscription.EndDate, &subscription.CreatedAt, &subscription.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return subscription, nil
}

func (r *subscriptionRepo) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE instance_id = $1
		ORDER BY created_at DESC
	`
	return r.queryList(ctx, query, instanceID)
}

func (r *subscriptionRepo) ListActiveByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE instance_id = $1 AND status = 'active'
		ORDER BY end_date DESC NULLS LAST
	`
	return r.queryList(ctx, query, instanceID)
}

func (r *subscriptionRepo) queryList(ctx context.Context, query string, args ...any) ([]*models.Subscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscriptions []*models.Subscription
	for rows.Next() {
		subscription := &models.Subscription{}
		if err := rows.Scan(&subscription.ID, &subscription.InstanceID, &subscription.OwnerID, &subscription.PlanName, &subscription.Amount, &subscription.Status, &subscription.StartDate, &subscription.EndDate, &subscription.CreatedAt, &subscription.UpdatedAt); err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions, rows.Err()
}

// Update writes the mutable fields using compare-and-swap on updated_at.
// Two extensions racing on the same row cannot both chain off the same end
// date; the loser gets ErrConcurrentUpdate.
func (r *subscriptionRepo) Update(ctx context.Context, subscription *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET plan_name = $1, amount = $2, status = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6 AND updated_at = $7
	`
	tag, err := r.db.Exec(ctx, query, subscription.PlanName, subscription.Amount, subscription.Status, subscription.StartDate, subscription.EndDate, subscription.ID, subscription.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// MarkExpired flips active rows whose end date has passed to expired. Used
// by the background sweep to keep stored status convergent with the derived
// entitlement view.
func (r *subscriptionRepo) MarkExpired(ctx context.Context) (int64, error) {
	query := `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date IS NOT NULL AND end_date <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
