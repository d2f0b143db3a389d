package application

import (
	"context"
	"testing"
	"time"

	"github.com/covelotage/service-matching/internal/domain"
	"github.com/covelotage/service-matching/internal/domain/geo"
	routeDomain "github.com/covelotage/service-matching/internal/domain/route"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRouteRepository is an in-memory RouteRepository for service tests.
type fakeRouteRepository struct {
	routes   []*routeDomain.Route
	fetchErr error
}

func (f *fakeRouteRepository) FindByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*routeDomain.Route, error) {
	for _, rt := range f.routes {
		if rt.OwnerID() == ownerID && rt.Name() == name {
			return rt, nil
		}
	}
	return nil, domain.NewNotFoundError("Route", name)
}

func (f *fakeRouteRepository) FindByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]*routeDomain.Route, int64, error) {
	var out []*routeDomain.Route
	for _, rt := range f.routes {
		if rt.OwnerID() == ownerID {
			out = append(out, rt)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRouteRepository) FindCandidates(_ context.Context, excludeOwner uuid.UUID) ([]*routeDomain.Route, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []*routeDomain.Route
	for _, rt := range f.routes {
		if rt.OwnerID() != excludeOwner {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeRouteRepository) ListAll(_ context.Context, _, _ int) ([]*routeDomain.Route, int64, error) {
	return f.routes, int64(len(f.routes)), nil
}

func (f *fakeRouteRepository) Save(_ context.Context, rt *routeDomain.Route) error {
	for _, existing := range f.routes {
		if existing.OwnerID() == rt.OwnerID() && existing.Name() == rt.Name() {
			return domain.NewConflictError("route name already exists: " + rt.Name())
		}
	}
	f.routes = append(f.routes, rt)
	return nil
}

func (f *fakeRouteRepository) Update(_ context.Context, _ *routeDomain.Route) error { return nil }

func (f *fakeRouteRepository) Delete(_ context.Context, ownerID uuid.UUID, name string) error {
	for i, rt := range f.routes {
		if rt.OwnerID() == ownerID && rt.Name() == name {
			f.routes = append(f.routes[:i], f.routes[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("Route", name)
}

func (f *fakeRouteRepository) DeleteByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var kept []*routeDomain.Route
	var removed int64
	for _, rt := range f.routes {
		if rt.OwnerID() == ownerID {
			removed++
			continue
		}
		kept = append(kept, rt)
	}
	f.routes = kept
	return removed, nil
}

func seedRoute(t *testing.T, repo *fakeRouteRepository, owner uuid.UUID, name string, path []string, schedule routeDomain.Schedule) *routeDomain.Route {
	t.Helper()
	points, err := geo.ParsePath(path)
	require.NoError(t, err)
	rt, err := routeDomain.NewRoute(owner, name, "start", "end", points, schedule, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), rt))
	return rt
}

func mondaySchedule(t *testing.T, at string) routeDomain.Schedule {
	t.Helper()
	tod, err := routeDomain.ParseTimeOfDay(at)
	require.NoError(t, err)
	return routeDomain.Schedule{Recurring: []routeDomain.WeeklySlot{{Day: time.Monday, At: tod}}}
}

func TestFindMatches_NeverReturnsRequestersOwnRoutes(t *testing.T) {
	repo := &fakeRouteRepository{}
	requester := uuid.New()
	other := uuid.New()

	path := []string{"[0,0]", "[0,1]", "[0,2]"}
	seedRoute(t, repo, requester, "mine", path, mondaySchedule(t, "08:00"))
	seedRoute(t, repo, other, "theirs", path, mondaySchedule(t, "08:00"))

	svc := NewMatchService(repo, 0, zap.NewNop())
	result, err := svc.FindMatches(context.Background(), requester, FindMatchesRequest{
		Route:    path,
		Planning: PlanningDTO{Periodic: []PeriodicSlotDTO{{DayOfWeek: 1, Time: "08:00"}}},
	})
	require.NoError(t, err)
	require.Len(t, result.Similarities, 1)
	assert.Equal(t, other, result.Similarities[0].Route.OwnerID)
}

func TestFindMatches_FiltersByScheduleCompatibility(t *testing.T) {
	repo := &fakeRouteRepository{}
	requester := uuid.New()
	path := []string{"[0,0]", "[0,1]", "[0,2]"}

	seedRoute(t, repo, uuid.New(), "close-in-time", path, mondaySchedule(t, "08:05"))
	seedRoute(t, repo, uuid.New(), "too-late", path, mondaySchedule(t, "08:20"))
	seedRoute(t, repo, uuid.New(), "wrong-day", path, routeDomain.Schedule{
		Recurring: []routeDomain.WeeklySlot{{Day: time.Tuesday, At: routeDomain.TimeOfDay{Hour: 8}}},
	})

	svc := NewMatchService(repo, 0, zap.NewNop())
	result, err := svc.FindMatches(context.Background(), requester, FindMatchesRequest{
		Route:    path,
		Planning: PlanningDTO{Periodic: []PeriodicSlotDTO{{DayOfWeek: 1, Time: "08:00"}}},
	})
	require.NoError(t, err)
	require.Len(t, result.Similarities, 1)
	assert.Equal(t, "close-in-time", result.Similarities[0].Route.Name)
}

func TestFindMatches_ScoresAndCarriesLCS(t *testing.T) {
	repo := &fakeRouteRepository{}
	requester := uuid.New()

	seedRoute(t, repo, uuid.New(), "candidate",
		[]string{"[0,0]", "[0,1]", "[0,2]", "[0,3]"}, mondaySchedule(t, "08:00"))

	svc := NewMatchService(repo, 0, zap.NewNop())
	result, err := svc.FindMatches(context.Background(), requester, FindMatchesRequest{
		Route:    []string{"[0,0]", "[0,1]", "[0,2]"},
		Planning: PlanningDTO{Periodic: []PeriodicSlotDTO{{DayOfWeek: 1, Time: "08:00"}}},
	})
	require.NoError(t, err)
	require.Len(t, result.Similarities, 1)

	match := result.Similarities[0]
	assert.Equal(t, 1.0, match.Similarity)
	assert.Equal(t, []string{"[0,0]", "[0,1]", "[0,2]"}, match.LCS)
	assert.Equal(t, "candidate", match.Route.Name)
}

func TestFindMatches_ThresholdExcludesWeakOverlap(t *testing.T) {
	repo := &fakeRouteRepository{}
	requester := uuid.New()

	// Candidate shares 2 of the requester's 4 points: similarity 0.5.
	seedRoute(t, repo, uuid.New(), "half",
		[]string{"[0,0]", "[3,3]", "[0,2]", "[4,4]", "[5,5]"}, mondaySchedule(t, "08:00"))

	planning := PlanningDTO{Periodic: []PeriodicSlotDTO{{DayOfWeek: 1, Time: "08:00"}}}
	userRoute := []string{"[0,0]", "[1,1]", "[0,2]", "[2,2]"}

	strict := NewMatchService(repo, 0.5, zap.NewNop())
	result, err := strict.FindMatches(context.Background(), requester, FindMatchesRequest{Route: userRoute, Planning: planning})
	require.NoError(t, err)
	assert.Empty(t, result.Similarities)

	loose := NewMatchService(repo, 0.4, zap.NewNop())
	result, err = loose.FindMatches(context.Background(), requester, FindMatchesRequest{Route: userRoute, Planning: planning})
	require.NoError(t, err)
	require.Len(t, result.Similarities, 1)
	assert.Equal(t, 0.5, result.Similarities[0].Similarity)
}

func TestFindMatches_SurfacesStorageErrors(t *testing.T) {
	repo := &fakeRouteRepository{fetchErr: domain.NewStorageError("find candidate routes", assert.AnError)}

	svc := NewMatchService(repo, 0, zap.NewNop())
	_, err := svc.FindMatches(context.Background(), uuid.New(), FindMatchesRequest{
		Route:    []string{"[0,0]", "[0,1]"},
		Planning: PlanningDTO{Periodic: []PeriodicSlotDTO{{DayOfWeek: 1, Time: "08:00"}}},
	})
	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeStorage, domainErr.Code)
}

func TestFindMatches_MalformedCoordinateFailsFast(t *testing.T) {
	repo := &fakeRouteRepository{}

	svc := NewMatchService(repo, 0, zap.NewNop())
	_, err := svc.FindMatches(context.Background(), uuid.New(), FindMatchesRequest{
		Route: []string{"[0,0]", "bogus"},
	})
	var malformed *geo.MalformedCoordinateError
	assert.ErrorAs(t, err, &malformed)
}
