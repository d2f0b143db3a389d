package events

import (
	"time"

	"github.com/google/uuid"
)

// Event source identifier for everything this service publishes.
const Source = "service-matching"

// Topics.
const (
	TopicRouteEvents = "route.events"
	TopicUserEvents  = "user.events"
)

// Event types.
const (
	RouteCreated = "route.created"
	RouteUpdated = "route.updated"
	RouteDeleted = "route.deleted"
	UserDeleted  = "user.deleted"
)

// RouteCreatedEvent is published when a user registers a new route.
type RouteCreatedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	PathLength int       `json:"path_length"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteUpdatedEvent is published when a route is modified by its owner.
type RouteUpdatedEvent struct {
	RouteID    uuid.UUID `json:"route_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteDeletedEvent is published when a route is removed.
type RouteDeletedEvent struct {
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserDeletedEvent arrives from the identity service when an account is
// closed. All routes owned by the user are removed in response.
type UserDeletedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
