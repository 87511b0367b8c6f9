package services

import (
	"context"
	"errors"
	"fmt"

	"cloudpanel/internal/models"
	"cloudpanel/internal/repositories"

	"github.com/google/uuid"
)

// ErrPoolFull is returned when the assignment procedure reports the pool at
// capacity.
var ErrPoolFull = errors.New("pool is at capacity")

type PoolService interface {
	Create(ctx context.Context, req *CreatePoolRequest) (*models.Pool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pool, error)
	Update(ctx context.Context, req *UpdatePoolRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Pool, error)
	GetPoolInstances(ctx context.Context, poolID uuid.UUID) ([]*models.PoolInstance, error)
	AssignInstance(ctx context.Context, instanceID, poolID uuid.UUID) error
	UnassignInstance(ctx context.Context, instanceID, poolID uuid.UUID) error
}

type poolService struct {
	poolRepo     repositories.PoolRepository
	instanceRepo repositories.InstanceRepository
}

func NewPoolService(poolRepo repositories.PoolRepository, instanceRepo repositories.InstanceRepository) PoolService {
	return &poolService{
		poolRepo:     poolRepo,
		instanceRepo: instanceRepo,
	}
}

type CreatePoolRequest struct {
	Name         string `json:"name" validate:"required"`
	MaxInstances int    `json:"max_instances" validate:"required"`
}

type UpdatePoolRequest struct {
	ID           uuid.UUID
	Name         string `json:"name" validate:"required"`
	MaxInstances int    `json:"max_instances" validate:"required"`
	Status       string `json:"status" validate:"required"`
}

func (s *poolService) Create(ctx context.Context, req *CreatePoolRequest) (*models.Pool, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.MaxInstances <= 0 {
		return nil, errors.New("max_instances must be positive")
	}

	pool := &models.Pool{
		ID:           uuid.New(),
		Name:         req.Name,
		MaxInstances: req.MaxInstances,
		Status:       models.PoolStatusActive,
	}

	if err := s.poolRepo.Create(ctx, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func (s *poolService) GetByID(ctx context.Context, id uuid.UUID) (*models.Pool, error) {
	return s.poolRepo.GetByID(ctx, id)
}

func (s *poolService) Update(ctx context.Context, req *UpdatePoolRequest) error {
	existing, err := s.poolRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if req.MaxInstances < existing.InstancesNumber {
		return fmt.Errorf("max_instances cannot drop below current occupancy (%d)", existing.InstancesNumber)
	}

	existing.Name = req.Name
	existing.MaxInstances = req.MaxInstances
	existing.Status = req.Status

	return s.poolRepo.Update(ctx, existing)
}

func (s *poolService) Delete(ctx context.Context, id uuid.UUID) error {
	pool, err := s.poolRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pool.InstancesNumber > 0 {
		return fmt.Errorf("pool still holds %d instances", pool.InstancesNumber)
	}
	return s.poolRepo.Delete(ctx, id)
}

func (s *poolService) List(ctx context.Context, limit, offset int) ([]*models.Pool, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.poolRepo.List(ctx, limit, offset)
}

func (s *poolService) GetPoolInstances(ctx context.Context, poolID uuid.UUID) ([]*models.PoolInstance, error) {
	return s.poolRepo.GetPoolInstances(ctx, poolID)
}

// AssignInstance places an instance into a pool via the server-side
// procedure, which increments the pool counter atomically. A false result
// means the pool was full.
func (s *poolService) AssignInstance(ctx context.Context, instanceID, poolID uuid.UUID) error {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return err
	}
	if instance.PoolID != nil {
		return fmt.Errorf("instance is already assigned to pool %s", *instance.PoolID)
	}

	ok, err := s.poolRepo.AssignInstance(ctx, instanceID, poolID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPoolFull
	}
	return nil
}

func (s *poolService) UnassignInstance(ctx context.Context, instanceID, poolID uuid.UUID) error {
	return s.poolRepo.UnassignInstance(ctx, instanceID, poolID)
}
