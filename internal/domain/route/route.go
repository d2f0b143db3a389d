package route

import (
	"time"

	"github.com/covelotage/service-matching/internal/domain"
	"github.com/covelotage/service-matching/internal/domain/geo"
	"github.com/google/uuid"
)

// Route is the aggregate root for a user's planned commute: a named, ordered
// polyline plus the schedule on which it is traveled. Path order is the
// travel order; reordering invalidates the route.
type Route struct {
	id           uuid.UUID
	ownerID      uuid.UUID
	name         string
	startAddress string
	endAddress   string
	path         []geo.Point
	schedule     Schedule
	comment      string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewRoute creates a new Route aggregate with validated fields.
func NewRoute(
	ownerID uuid.UUID,
	name, startAddress, endAddress string,
	path []geo.Point,
	schedule Schedule,
	comment string,
) (*Route, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("route name is required")
	}
	if len(path) < 2 {
		return nil, domain.NewValidationError("route path must have at least 2 points")
	}
	for _, p := range path {
		if !p.Valid() {
			return nil, domain.NewValidationError("route path contains an out-of-range coordinate")
		}
	}

	now := time.Now().UTC()
	return &Route{
		id:           uuid.New(),
		ownerID:      ownerID,
		name:         name,
		startAddress: startAddress,
		endAddress:   endAddress,
		path:         path,
		schedule:     schedule,
		comment:      comment,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructRoute rebuilds a Route from persistence data (no validation).
func ReconstructRoute(
	id, ownerID uuid.UUID,
	name, startAddress, endAddress string,
	path []geo.Point,
	schedule Schedule,
	comment string,
	version int64,
	createdAt, updatedAt time.Time,
) *Route {
	return &Route{
		id:           id,
		ownerID:      ownerID,
		name:         name,
		startAddress: startAddress,
		endAddress:   endAddress,
		path:         path,
		schedule:     schedule,
		comment:      comment,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the route's unique identifier.
func (r *Route) ID() uuid.UUID { return r.id }

// OwnerID returns the owning user's ID.
func (r *Route) OwnerID() uuid.UUID { return r.ownerID }

// Name returns the route name, unique per owner.
func (r *Route) Name() string { return r.name }

// StartAddress returns the free-text start address.
func (r *Route) StartAddress() string { return r.startAddress }

// EndAddress returns the free-text end address.
func (r *Route) EndAddress() string { return r.endAddress }

// Path returns the ordered polyline in travel order.
func (r *Route) Path() []geo.Point { return r.path }

// Schedule returns the route's schedule.
func (r *Route) Schedule() Schedule { return r.schedule }

// Comment returns the optional free-text comment.
func (r *Route) Comment() string { return r.comment }

// Version returns the entity version for optimistic locking.
func (r *Route) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Route) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Route) UpdatedAt() time.Time { return r.updatedAt }

// Rename changes the route name.
func (r *Route) Rename(name string) error {
	if name == "" {
		return domain.NewValidationError("route name is required")
	}
	r.name = name
	r.touch()
	return nil
}

// UpdatePath replaces the polyline.
func (r *Route) UpdatePath(path []geo.Point) error {
	if len(path) < 2 {
		return domain.NewValidationError("route path must have at least 2 points")
	}
	for _, p := range path {
		if !p.Valid() {
			return domain.NewValidationError("route path contains an out-of-range coordinate")
		}
	}
	r.path = path
	r.touch()
	return nil
}

// UpdateSchedule replaces the schedule.
func (r *Route) UpdateSchedule(schedule Schedule) {
	r.schedule = schedule
	r.touch()
}

// UpdateAddresses replaces the display addresses.
func (r *Route) UpdateAddresses(start, end string) {
	r.startAddress = start
	r.endAddress = end
	r.touch()
}

// UpdateComment replaces the comment.
func (r *Route) UpdateComment(comment string) {
	r.comment = comment
	r.touch()
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Route) IncrementVersion() {
	r.version++
	r.touch()
}

func (r *Route) touch() {
	r.updatedAt = time.Now().UTC()
}
