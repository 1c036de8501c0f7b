package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with a stable identity and audit timestamps.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// BaseEntity holds the identity and timestamps embedded by aggregates.
// Timestamps are UTC and UpdatedAt never precedes CreatedAt.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity stamps a fresh identity at the current time.
func NewBaseEntity() BaseEntity {
	return newEntityAt(uuid.New(), time.Now())
}

// RehydrateBaseEntity restores persisted state without touching it.
func RehydrateBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}
	return BaseEntity{id: id, createdAt: createdAt, updatedAt: updatedAt}
}

func newEntityAt(id uuid.UUID, at time.Time) BaseEntity {
	at = at.UTC()
	return BaseEntity{id: id, createdAt: at, updatedAt: at}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// Touch records a modification. Clock skew never moves updatedAt backwards.
func (e *BaseEntity) Touch() {
	e.touchAt(time.Now())
}

func (e *BaseEntity) touchAt(at time.Time) {
	if at = at.UTC(); at.After(e.updatedAt) {
		e.updatedAt = at
	}
}
