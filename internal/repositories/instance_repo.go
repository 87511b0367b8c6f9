package repositories

import (
	"context"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
)

type InstanceRepository interface {
	Create(ctx context.Context, instance *models.Instance) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Instance, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Instance, error)
	Update(ctx context.Context, instance *models.Instance) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Instance, error)
}

type instanceRepo struct {
	db DB
}

func NewInstanceRepo(db DB) InstanceRepository {
	return &instanceRepo{db: db}
}

const instanceColumns = `id, name, logo_url, language, owner_id, pool_id, created_at, updated_at`

func (r *instanceRepo) Create(ctx context.Context, instance *models.Instance) error {
	query := `
		INSERT INTO instances (id, name, logo_url, language, owner_id, pool_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, instance.ID, instance.Name, instance.LogoURL, instance.Language, instance.OwnerID, instance.PoolID)
	return err
}

func (r *instanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Instance, error) {
	instance := &models.Instance{}
	query := `
		SELECT ` + instanceColumns + `
		FROM instances
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&instance.ID, &instance.Name, &instance.LogoURL, &instance.Language, &instance.OwnerID, &instance.PoolID, &instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return instance, nil
}

// GetByOwner returns the owner's instance. One owning user per instance; a
// user without a provisioned instance gets ErrNotFound.
func (r *instanceRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Instance, error) {
	instance := &models.Instance{}
	query := `
		SELECT ` + instanceColumns + `
		FROM instances
		WHERE owner_id = $1
	`
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&instance.ID, &instance.Name, &instance.LogoURL, &instance.Language, &instance.OwnerID, &instance.PoolID, &instance.CreatedAt, &instance.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return instance, nil
}

func (r *instanceRepo) Update(ctx context.Context, instance *models.Instance) error {
	query := `
		UPDATE instances
		SET name = $1, logo_url = $2, language = $3, owner_id = $4, pool_id = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, instance.Name, instance.LogoURL, instance.Language, instance.OwnerID, instance.PoolID, instance.ID)
	return err
}

func (r *instanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM instances WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *instanceRepo) List(ctx context.Context, limit, offset int) ([]*models.Instance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM instances
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*models.Instance
	for rows.Next() {
		instance := &models.Instance{}
		if err := rows.Scan(&instance.ID, &instance.Name, &instance.LogoURL, &instance.Language, &instance.OwnerID, &instance.PoolID, &instance.CreatedAt, &instance.UpdatedAt); err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, rows.Err()
}
