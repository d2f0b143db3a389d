package route

import (
	"context"

	"github.com/covelotage/service-matching/internal/domain/geo"
)

// PathProvider is the external routing collaborator. Given ordered waypoints
// it returns a full cycling polyline passing through them, in travel order.
type PathProvider interface {
	ShortestPath(ctx context.Context, waypoints []geo.Point) ([]geo.Point, error)
}
