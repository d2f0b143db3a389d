package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/covelotage/service-matching/internal/domain"
	"github.com/covelotage/service-matching/internal/domain/geo"
	routeDomain "github.com/covelotage/service-matching/internal/domain/route"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RouteModel is the GORM model for the routes table.
type RouteModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;index;not null;uniqueIndex:idx_routes_owner_name"`
	Name         string          `gorm:"not null;size:100;uniqueIndex:idx_routes_owner_name"`
	StartAddress string          `gorm:"size:255"`
	EndAddress   string          `gorm:"size:255"`
	Path         json.RawMessage `gorm:"type:jsonb;not null"`
	Schedule     json.RawMessage `gorm:"type:jsonb;not null"`
	Comment      string          `gorm:"size:1000"`
	Version      int64           `gorm:"not null;default:1"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RouteModel) TableName() string {
	return "routes"
}

// GormRouteRepository is the GORM-based implementation of RouteRepository.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository.
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindByOwnerAndName retrieves a route by its owner and name.
func (r *GormRouteRepository) FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*routeDomain.Route, error) {
	var model RouteModel
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND name = ?", ownerID, name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Route", name)
		}
		return nil, domain.NewStorageError("find route", err)
	}
	return toDomainRoute(&model)
}

// FindByOwner retrieves routes belonging to an owner with pagination.
func (r *GormRouteRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*routeDomain.Route, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RouteModel{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("count owner routes", err)
	}

	var models []RouteModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("find owner routes", err)
	}

	routes, err := toDomainRoutes(models)
	if err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// FindCandidates retrieves every route not owned by excludeOwner. The
// requester's own routes are excluded here by identity; schedule filtering
// happens above this layer against the explicit window predicates.
func (r *GormRouteRepository) FindCandidates(ctx context.Context, excludeOwner uuid.UUID) ([]*routeDomain.Route, error) {
	var models []RouteModel
	if err := r.db.WithContext(ctx).
		Where("owner_id <> ?", excludeOwner).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("find candidate routes", err)
	}
	return toDomainRoutes(models)
}

// ListAll retrieves all routes with pagination (admin).
func (r *GormRouteRepository) ListAll(ctx context.Context, page, limit int) ([]*routeDomain.Route, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RouteModel{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("count routes", err)
	}

	var models []RouteModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("list routes", err)
	}

	routes, err := toDomainRoutes(models)
	if err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// Save persists a new route.
func (r *GormRouteRepository) Save(ctx context.Context, rt *routeDomain.Route) error {
	model, err := toRouteModel(rt)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("route name already exists: %s", rt.Name()))
		}
		return domain.NewStorageError("save route", err)
	}
	return nil
}

// Update persists changes to an existing route with optimistic locking.
func (r *GormRouteRepository) Update(ctx context.Context, rt *routeDomain.Route) error {
	model, err := toRouteModel(rt)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&RouteModel{}).
		Where("id = ? AND version = ?", rt.ID(), rt.Version()-1).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"start_address": model.StartAddress,
			"end_address":   model.EndAddress,
			"path":          model.Path,
			"schedule":      model.Schedule,
			"comment":       model.Comment,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("route name already exists: %s", rt.Name()))
		}
		return domain.NewStorageError("update route", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("route was modified concurrently")
	}
	return nil
}

// Delete removes a route by owner and name.
func (r *GormRouteRepository) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Delete(&RouteModel{})
	if result.Error != nil {
		return domain.NewStorageError("delete route", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Route", name)
	}
	return nil
}

// DeleteByOwner removes every route belonging to an owner.
func (r *GormRouteRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&RouteModel{})
	if result.Error != nil {
		return 0, domain.NewStorageError("delete owner routes", result.Error)
	}
	return result.RowsAffected, nil
}

// --- Mappers ---

func toRouteModel(rt *routeDomain.Route) (*RouteModel, error) {
	path, err := json.Marshal(rt.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal route path: %w", err)
	}
	schedule, err := json.Marshal(rt.Schedule())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal route schedule: %w", err)
	}

	return &RouteModel{
		ID:           rt.ID(),
		OwnerID:      rt.OwnerID(),
		Name:         rt.Name(),
		StartAddress: rt.StartAddress(),
		EndAddress:   rt.EndAddress(),
		Path:         path,
		Schedule:     schedule,
		Comment:      rt.Comment(),
		Version:      rt.Version(),
		CreatedAt:    rt.CreatedAt(),
		UpdatedAt:    rt.UpdatedAt(),
	}, nil
}

func toDomainRoute(model *RouteModel) (*routeDomain.Route, error) {
	var path []geo.Point
	if err := json.Unmarshal(model.Path, &path); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route path: %w", err)
	}
	var schedule routeDomain.Schedule
	if err := json.Unmarshal(model.Schedule, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route schedule: %w", err)
	}

	return routeDomain.ReconstructRoute(
		model.ID,
		model.OwnerID,
		model.Name,
		model.StartAddress,
		model.EndAddress,
		path,
		schedule,
		model.Comment,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func toDomainRoutes(models []RouteModel) ([]*routeDomain.Route, error) {
	routes := make([]*routeDomain.Route, len(models))
	for i, m := range models {
		rt, err := toDomainRoute(&m)
		if err != nil {
			return nil, err
		}
		routes[i] = rt
	}
	return routes, nil
}
