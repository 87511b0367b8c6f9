package models

import (
	"time"

	"github.com/google/uuid"
)

// Pool is a capacity-bounded group of instances sharing a backing server.
// InstancesNumber is a denormalized counter maintained by the
// assign/unassign store procedures, not a live count.
type Pool struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	MaxInstances    int       `json:"max_instances" db:"max_instances"`
	InstancesNumber int       `json:"instances_number" db:"instances_number"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

const (
	PoolStatusActive = "active"
	PoolStatusFull   = "full"
	PoolStatusClosed = "closed"
)
