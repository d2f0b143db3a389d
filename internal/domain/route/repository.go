package route

import (
	"context"

	"github.com/google/uuid"
)

// RouteRepository defines the persistence contract for route aggregates.
type RouteRepository interface {
	// FindByOwnerAndName retrieves a route by its owner and name.
	FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*Route, error)

	// FindByOwner retrieves all routes belonging to an owner with pagination.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Route, int64, error)

	// FindCandidates retrieves every route not owned by excludeOwner. Schedule
	// filtering happens above this layer, against the explicit window
	// predicates.
	FindCandidates(ctx context.Context, excludeOwner uuid.UUID) ([]*Route, error)

	// ListAll retrieves all routes with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Route, int64, error)

	// Save persists a new route.
	Save(ctx context.Context, route *Route) error

	// Update persists changes to an existing route with optimistic locking.
	Update(ctx context.Context, route *Route) error

	// Delete removes a route by owner and name.
	Delete(ctx context.Context, ownerID uuid.UUID, name string) error

	// DeleteByOwner removes every route belonging to an owner.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
