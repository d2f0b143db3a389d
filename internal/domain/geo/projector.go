package geo

import (
	"errors"
	"sort"
)

// ErrShortReferencePath is returned when a projection is requested against a
// reference path with fewer than 2 points.
var ErrShortReferencePath = errors.New("reference path must have at least 2 points")

// NearestIndex finds the segment of the reference path closest to p. It
// returns the nearest on-path position and the index of the segment's first
// vertex. Ties are broken by the first (lowest) index encountered.
//
// Projection is planar over raw lat/lng, clamped to each segment. At commute
// scale the planar approximation is well within waypoint spacing.
func NearestIndex(path []Point, p Point) (Point, int, error) {
	if len(path) < 2 {
		return Point{}, 0, ErrShortReferencePath
	}

	best := Point{}
	bestIndex := 0
	bestDist := -1.0

	for i := 0; i < len(path)-1; i++ {
		candidate := closestOnSegment(path[i], path[i+1], p)
		d := sqDist(candidate, p)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestIndex = i
			best = candidate
		}
	}

	return best, bestIndex, nil
}

// ReanchorPoints re-projects a batch of manually-dragged waypoints against a
// freshly computed path. Each point keeps its dragged position; only the
// ordinal index is recomputed. The result is sorted ascending by index so
// callers can splice the points into path order. Same-index entries are not
// deduplicated here.
func ReanchorPoints(path []Point, points []Point) ([]IntermediatePoint, error) {
	anchored := make([]IntermediatePoint, len(points))
	for i, p := range points {
		_, idx, err := NearestIndex(path, p)
		if err != nil {
			return nil, err
		}
		anchored[i] = IntermediatePoint{Position: p, Index: idx}
	}

	sort.SliceStable(anchored, func(i, j int) bool {
		return anchored[i].Index < anchored[j].Index
	})
	return anchored, nil
}

// closestOnSegment projects p orthogonally onto segment ab, clamped to the
// segment's endpoints.
func closestOnSegment(a, b, p Point) Point {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}

	t := ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return Point{Lat: a.Lat + t*dy, Lng: a.Lng + t*dx}
}

func sqDist(a, b Point) float64 {
	dx := a.Lng - b.Lng
	dy := a.Lat - b.Lat
	return dx*dx + dy*dy
}
