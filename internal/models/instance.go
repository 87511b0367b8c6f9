package models

import (
	"time"

	"github.com/google/uuid"
)

// Instance is a tenant's provisioned workspace. An instance belongs to one
// owning user and to at most one pool.
type Instance struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	LogoURL   *string    `json:"logo_url" db:"logo_url"`
	Language  string     `json:"language" db:"language"`
	OwnerID   uuid.UUID  `json:"owner_id" db:"owner_id"`
	PoolID    *uuid.UUID `json:"pool_id" db:"pool_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// PoolInstance is the joined row returned by the get_pool_instances store
// procedure: the instance together with its owner's identity.
type PoolInstance struct {
	Instance
	OwnerEmail string `json:"owner_email" db:"owner_email"`
	OwnerName  string `json:"owner_name" db:"owner_name"`
}
