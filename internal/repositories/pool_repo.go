package repositories

import (
	"context"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
)

type PoolRepository interface {
	Create(ctx context.Context, pool *models.Pool) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pool, error)
	Update(ctx context.Context, pool *models.Pool) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Pool, error)
	GetPoolInstances(ctx context.Context, poolID uuid.UUID) ([]*models.PoolInstance, error)
	AssignInstance(ctx context.Context, instanceID, poolID uuid.UUID) (bool, error)
	UnassignInstance(ctx context.Context, instanceID, poolID uuid.UUID) error
}

type poolRepo struct {
	db DB
}

func NewPoolRepo(db DB) PoolRepository {
	return &poolRepo{db: db}
}

const poolColumns = `id, name, max_instances, instances_number, status, created_at, updated_at`

func (r *poolRepo) Create(ctx context.Context, pool *models.Pool) error {
	query := `
		INSERT INTO pools (id, name, max_instances, instances_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, pool.ID, pool.Name, pool.MaxInstances, pool.InstancesNumber, pool.Status)
	return err
}

func (r *poolRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	pool := &models.Pool{}
	query := `
		SELECT ` + poolColumns + `
		FROM pools
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&pool.ID, &pool.Name, &pool.MaxInstances, &pool.InstancesNumber, &pool.Status, &pool.CreatedAt, &pool.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return pool, nil
}

func (r *poolRepo) Update(ctx context.Context, pool *models.Pool) error {
	query := `
		UPDATE pools
		SET name = $1, max_instances = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, pool.Name, pool.MaxInstances, pool.Status, pool.ID)
	return err
}

func (r *poolRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM pools WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *poolRepo) List(ctx context.Context, limit, offset int) ([]*models.Pool, error) {
	query := `
		SELECT ` + poolColumns + `
		FROM pools
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []*models.Pool
	for rows.Next() {
		pool := &models.Pool{}
		if err := rows.Scan(&pool.ID, &pool.Name, &pool.MaxInstances, &pool.InstancesNumber, &pool.Status, &pool.CreatedAt, &pool.UpdatedAt); err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, rows.Err()
}

// GetPoolInstances calls the get_pool_instances store procedure, which
// returns the pool's instances joined with their owners.
func (r *poolRepo) GetPoolInstances(ctx context.Context, poolID uuid.UUID) ([]*models.PoolInstance, error) {
	query := `SELECT id, name, logo_url, language, owner_id, pool_id, created_at, updated_at, owner_email, owner_name FROM get_pool_instances($1)`
	rows, err := r.db.Query(ctx, query, poolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*models.PoolInstance
	for rows.Next() {
		pi := &models.PoolInstance{}
		if err := rows.Scan(&pi.ID, &pi.Name, &pi.LogoURL, &pi.Language, &pi.OwnerID, &pi.PoolID, &pi.CreatedAt, &pi.UpdatedAt, &pi.OwnerEmail, &pi.OwnerName); err != nil {
			return nil, err
		}
		instances = append(instances, pi)
	}
	return instances, rows.Err()
}

// AssignInstance calls the assign_instance_to_pool store procedure. The
// procedure increments the pool's counter and links the instance in one
// server-side statement; false means the pool was at capacity.
func (r *poolRepo) AssignInstance(ctx context.Context, instanceID, poolID uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT assign_instance_to_pool($1, $2)`
	if err := r.db.QueryRow(ctx, query, instanceID, poolID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// UnassignInstance clears the instance's pool link and decrements the
// counter, guarded so it never goes below zero.
func (r *poolRepo) UnassignInstance(ctx context.Context, instanceID, poolID uuid.UUID) error {
	query := `UPDATE instances SET pool_id = NULL, updated_at = NOW() WHERE id = $1 AND pool_id = $2`
	tag, err := r.db.Exec(ctx, query, instanceID, poolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	query = `UPDATE pools SET instances_number = instances_number - 1, updated_at = NOW() WHERE id = $1 AND instances_number > 0`
	_, err = r.db.Exec(ctx, query, poolID)
	return err
}
