package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloudpanel/internal/models"
	"cloudpanel/internal/repositories"

	"github.com/google/uuid"
)

const logoBucket = "instance-logos"

type InstanceService interface {
	Create(ctx context.Context, req *CreateInstanceRequest) (*models.Instance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Instance, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Instance, error)
	Update(ctx context.Context, req *UpdateInstanceRequest) error
	UploadLogo(ctx context.Context, instanceID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Instance, error)
}

type instanceService struct {
	instanceRepo repositories.InstanceRepository
	storageSvc   StorageService
}

func NewInstanceService(instanceRepo repositories.InstanceRepository, storageSvc StorageService) InstanceService {
	return &instanceService{
		instanceRepo: instanceRepo,
		storageSvc:   storageSvc,
	}
}

type CreateInstanceRequest struct {
	Name     string    `json:"name" validate:"required"`
	Language string    `json:"language"`
	OwnerID  uuid.UUID `json:"owner_id" validate:"required"`
}

type UpdateInstanceRequest struct {
	ID       uuid.UUID
	Name     string `json:"name" validate:"required"`
	Language string `json:"language"`
}

func (s *instanceService) Create(ctx context.Context, req *CreateInstanceRequest) (*models.Instance, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.OwnerID == uuid.Nil {
		return nil, errors.New("owner is required")
	}
	if req.Language == "" {
		req.Language = "en"
	}

	// One instance per owner.
	if existing, err := s.instanceRepo.GetByOwner(ctx, req.OwnerID); err == nil && existing != nil {
		return nil, fmt.Errorf("owner already has an instance: %s", existing.Name)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	instance := &models.Instance{
		ID:       uuid.New(),
		Name:     req.Name,
		Language: req.Language,
		OwnerID:  req.OwnerID,
	}

	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *instanceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Instance, error) {
	return s.instanceRepo.GetByID(ctx, id)
}

func (s *instanceService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Instance, error) {
	return s.instanceRepo.GetByOwner(ctx, ownerID)
}

func (s *instanceService) Update(ctx context.Context, req *UpdateInstanceRequest) error {
	existing, err := s.instanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	existing.Name = req.Name
	if req.Language != "" {
		existing.Language = req.Language
	}

	return s.instanceRepo.Update(ctx, existing)
}

// UploadLogo stores the logo in object storage and records a presigned URL
// on the instance row.
func (s *instanceService) UploadLogo(ctx context.Context, instanceID uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s/logo", instanceID)
	if err := s.storageSvc.Upload(ctx, logoBucket, objectName, contentType, reader, size); err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	url, err := s.storageSvc.GetPresignedURL(ctx, logoBucket, objectName, 7*24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to presign logo URL: %w", err)
	}

	instance.LogoURL = &url
	if err := s.instanceRepo.Update(ctx, instance); err != nil {
		return "", err
	}
	return url, nil
}

func (s *instanceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.instanceRepo.Delete(ctx, id)
}

func (s *instanceService) List(ctx context.Context, limit, offset int) ([]*models.Instance, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.instanceRepo.List(ctx, limit, offset)
}
