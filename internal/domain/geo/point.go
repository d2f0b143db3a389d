package geo

import "fmt"

// Point is an immutable geographic coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid returns true if the point lies within geographic bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// IntermediatePoint is a manually-relocated waypoint bound to its position in
// the currently-displayed path. It is ephemeral: recomputed whenever the path
// is recalculated, never persisted.
type IntermediatePoint struct {
	Position Point `json:"position"`
	Index    int   `json:"index"`
}

// MalformedCoordinateError reports a coordinate string that failed to parse.
type MalformedCoordinateError struct {
	Input string
}

// Error implements the error interface.
func (e *MalformedCoordinateError) Error() string {
	return fmt.Sprintf("malformed coordinate: %q", e.Input)
}
