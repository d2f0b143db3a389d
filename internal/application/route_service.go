package application

import (
	"context"
	"time"

	"github.com/covelotage/service-matching/internal/domain"
	"github.com/covelotage/service-matching/internal/domain/geo"
	routeDomain "github.com/covelotage/service-matching/internal/domain/route"
	"github.com/covelotage/service-matching/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes domain events wrapped in CloudEvents.
type EventPublisher interface {
	Publish(ctx context.Context, topic, source, eventType, key string, data interface{}) error
}

// PeriodicSlotDTO is the wire form of a weekly-recurring occurrence.
type PeriodicSlotDTO struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	Time      string `json:"time" binding:"required"`
}

// PlanningDTO is the wire form of a schedule.
type PlanningDTO struct {
	Dates    []time.Time       `json:"dates"`
	Periodic []PeriodicSlotDTO `json:"periodic"`
}

// CreateRouteRequest holds the data needed to register a new route.
type CreateRouteRequest struct {
	Name         string      `json:"name" binding:"required"`
	StartAddress string      `json:"start_address"`
	EndAddress   string      `json:"end_address"`
	Path         []string    `json:"path" binding:"required"`
	Planning     PlanningDTO `json:"planning"`
	Comment      string      `json:"comment"`
}

// UpdateRouteRequest holds the data for an in-place route update.
type UpdateRouteRequest struct {
	Name         string      `json:"name" binding:"required"`
	StartAddress string      `json:"start_address"`
	EndAddress   string      `json:"end_address"`
	Path         []string    `json:"path" binding:"required"`
	Planning     PlanningDTO `json:"planning"`
	Comment      string      `json:"comment"`
}

// RouteDTO is the response representation of a route.
type RouteDTO struct {
	ID           uuid.UUID   `json:"id"`
	OwnerID      uuid.UUID   `json:"owner_id"`
	Name         string      `json:"name"`
	StartAddress string      `json:"start_address,omitempty"`
	EndAddress   string      `json:"end_address,omitempty"`
	Path         []string    `json:"path"`
	Planning     PlanningDTO `json:"planning"`
	Comment      string      `json:"comment,omitempty"`
	Version      int64       `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// RouteListDTO wraps a paginated route listing.
type RouteListDTO struct {
	Items []RouteDTO
	Total int64
	Page  int
	Limit int
}

// IntermediatePointDTO is the wire form of a manually-dragged waypoint.
type IntermediatePointDTO struct {
	Position string `json:"position" binding:"required"`
	Index    int    `json:"index"`
}

// ComputePathRequest asks for a cycling polyline through ordered waypoints,
// re-anchoring any manually-dragged intermediate points against the result.
type ComputePathRequest struct {
	Waypoints []string               `json:"waypoints" binding:"required"`
	Points    []IntermediatePointDTO `json:"points"`
}

// ComputedPathDTO carries the computed polyline and the re-anchored points,
// sorted ascending by index.
type ComputedPathDTO struct {
	Path   []string               `json:"path"`
	Points []IntermediatePointDTO `json:"points"`
}

// RouteService is the application service for route CRUD and path
// computation.
type RouteService struct {
	repo     routeDomain.RouteRepository
	planner  routeDomain.PathProvider
	producer EventPublisher
	logger   *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	repo routeDomain.RouteRepository,
	planner routeDomain.PathProvider,
	producer EventPublisher,
	logger *zap.Logger,
) *RouteService {
	return &RouteService{
		repo:     repo,
		planner:  planner,
		producer: producer,
		logger:   logger,
	}
}

// CreateRoute registers a new route for the given owner.
func (s *RouteService) CreateRoute(ctx context.Context, ownerID uuid.UUID, req CreateRouteRequest) (*RouteDTO, error) {
	path, err := geo.ParsePath(req.Path)
	if err != nil {
		return nil, err
	}
	schedule, err := toSchedule(req.Planning)
	if err != nil {
		return nil, err
	}

	rt, err := routeDomain.NewRoute(ownerID, req.Name, req.StartAddress, req.EndAddress, path, schedule, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.RouteCreated, rt.ID().String(), events.RouteCreatedEvent{
		RouteID:    rt.ID(),
		OwnerID:    rt.OwnerID(),
		Name:       rt.Name(),
		PathLength: len(rt.Path()),
		OccurredAt: time.Now().UTC(),
	})

	dto := toRouteDTO(rt)
	return &dto, nil
}

// GetRoute retrieves one of the owner's routes by name.
func (s *RouteService) GetRoute(ctx context.Context, ownerID uuid.UUID, name string) (*RouteDTO, error) {
	rt, err := s.repo.FindByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	dto := toRouteDTO(rt)
	return &dto, nil
}

// ListRoutes retrieves the owner's routes with pagination.
func (s *RouteService) ListRoutes(ctx context.Context, ownerID uuid.UUID, page, limit int) (*RouteListDTO, error) {
	routes, total, err := s.repo.FindByOwner(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}
	return &RouteListDTO{Items: toRouteDTOs(routes), Total: total, Page: page, Limit: limit}, nil
}

// ListAllRoutes retrieves all routes with pagination (admin).
func (s *RouteService) ListAllRoutes(ctx context.Context, page, limit int) (*RouteListDTO, error) {
	routes, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &RouteListDTO{Items: toRouteDTOs(routes), Total: total, Page: page, Limit: limit}, nil
}

// UpdateRoute mutates one of the owner's routes in place.
func (s *RouteService) UpdateRoute(ctx context.Context, ownerID uuid.UUID, name string, req UpdateRouteRequest) (*RouteDTO, error) {
	rt, err := s.repo.FindByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}

	path, err := geo.ParsePath(req.Path)
	if err != nil {
		return nil, err
	}
	schedule, err := toSchedule(req.Planning)
	if err != nil {
		return nil, err
	}

	if err := rt.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := rt.UpdatePath(path); err != nil {
		return nil, err
	}
	rt.UpdateSchedule(schedule)
	rt.UpdateAddresses(req.StartAddress, req.EndAddress)
	rt.UpdateComment(req.Comment)
	rt.IncrementVersion()

	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.RouteUpdated, rt.ID().String(), events.RouteUpdatedEvent{
		RouteID:    rt.ID(),
		OwnerID:    rt.OwnerID(),
		Name:       rt.Name(),
		OccurredAt: time.Now().UTC(),
	})

	dto := toRouteDTO(rt)
	return &dto, nil
}

// DeleteRoute removes one of the owner's routes by name.
func (s *RouteService) DeleteRoute(ctx context.Context, ownerID uuid.UUID, name string) error {
	if err := s.repo.Delete(ctx, ownerID, name); err != nil {
		return err
	}

	s.publish(ctx, events.RouteDeleted, ownerID.String(), events.RouteDeletedEvent{
		OwnerID:    ownerID,
		Name:       name,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// DeleteAllForOwner removes every route belonging to an owner. Driven by
// user-deletion events from the identity service.
func (s *RouteService) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.repo.DeleteByOwner(ctx, ownerID)
}

// ComputePath asks the routing provider for a cycling polyline through the
// given waypoints and re-anchors the dragged intermediate points against it.
// Each point keeps the position the user dragged it to; only its ordinal
// index is recomputed, and the returned list is sorted ascending by index.
func (s *RouteService) ComputePath(ctx context.Context, req ComputePathRequest) (*ComputedPathDTO, error) {
	waypoints, err := geo.ParsePath(req.Waypoints)
	if err != nil {
		return nil, err
	}
	if len(waypoints) < 2 {
		return nil, domain.NewValidationError("at least 2 waypoints are required")
	}

	path, err := s.planner.ShortestPath(ctx, waypoints)
	if err != nil {
		return nil, err
	}

	dragged := make([]geo.Point, len(req.Points))
	for i, p := range req.Points {
		point, err := geo.ParsePoint(p.Position)
		if err != nil {
			return nil, err
		}
		dragged[i] = point
	}

	anchored, err := geo.ReanchorPoints(path, dragged)
	if err != nil {
		return nil, err
	}

	points := make([]IntermediatePointDTO, len(anchored))
	for i, a := range anchored {
		points[i] = IntermediatePointDTO{Position: geo.FormatPoint(a.Position), Index: a.Index}
	}

	return &ComputedPathDTO{Path: geo.FormatPath(path), Points: points}, nil
}

func (s *RouteService) publish(ctx context.Context, eventType, key string, data interface{}) {
	if err := s.producer.Publish(ctx, events.TopicRouteEvents, events.Source, eventType, key, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

// --- DTO mappers ---

func toSchedule(planning PlanningDTO) (routeDomain.Schedule, error) {
	recurring := make([]routeDomain.WeeklySlot, len(planning.Periodic))
	for i, slot := range planning.Periodic {
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			return routeDomain.Schedule{}, domain.NewValidationError("day_of_week must be in 0..6")
		}
		at, err := routeDomain.ParseTimeOfDay(slot.Time)
		if err != nil {
			return routeDomain.Schedule{}, domain.NewValidationError(err.Error())
		}
		recurring[i] = routeDomain.WeeklySlot{Day: time.Weekday(slot.DayOfWeek), At: at}
	}
	return routeDomain.Schedule{
		ExplicitDates: planning.Dates,
		Recurring:     recurring,
	}, nil
}

func toPlanningDTO(s routeDomain.Schedule) PlanningDTO {
	periodic := make([]PeriodicSlotDTO, len(s.Recurring))
	for i, slot := range s.Recurring {
		periodic[i] = PeriodicSlotDTO{DayOfWeek: int(slot.Day), Time: slot.At.String()}
	}
	return PlanningDTO{Dates: s.ExplicitDates, Periodic: periodic}
}

func toRouteDTO(rt *routeDomain.Route) RouteDTO {
	return RouteDTO{
		ID:           rt.ID(),
		OwnerID:      rt.OwnerID(),
		Name:         rt.Name(),
		StartAddress: rt.StartAddress(),
		EndAddress:   rt.EndAddress(),
		Path:         geo.FormatPath(rt.Path()),
		Planning:     toPlanningDTO(rt.Schedule()),
		Comment:      rt.Comment(),
		Version:      rt.Version(),
		CreatedAt:    rt.CreatedAt(),
		UpdatedAt:    rt.UpdatedAt(),
	}
}

func toRouteDTOs(routes []*routeDomain.Route) []RouteDTO {
	dtos := make([]RouteDTO, len(routes))
	for i, rt := range routes {
		dtos[i] = toRouteDTO(rt)
	}
	return dtos
}
