package geo

import (
	"strconv"
	"strings"
)

// ParsePoint decodes a coordinate from its bracketed wire form "[lng,lat]"
// (longitude first). A string that does not parse is an error, never a
// defaulted point.
func ParsePoint(text string) (Point, error) {
	trimmed := strings.TrimPrefix(strings.TrimSuffix(text, "]"), "[")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return Point{}, &MalformedCoordinateError{Input: text}
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, &MalformedCoordinateError{Input: text}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, &MalformedCoordinateError{Input: text}
	}

	return Point{Lat: lat, Lng: lng}, nil
}

// FormatPoint encodes a point as "[lng,lat]". Uses shortest round-trip float
// formatting so FormatPoint and ParsePoint compose to the identity.
func FormatPoint(p Point) string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strconv.FormatFloat(p.Lng, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
	b.WriteByte(']')
	return b.String()
}

// ParsePath decodes a sequence of bracketed coordinates, preserving order.
// Order is the travel order of the route.
func ParsePath(texts []string) ([]Point, error) {
	path := make([]Point, len(texts))
	for i, t := range texts {
		p, err := ParsePoint(t)
		if err != nil {
			return nil, err
		}
		path[i] = p
	}
	return path, nil
}

// FormatPath encodes a sequence of points, preserving order.
func FormatPath(path []Point) []string {
	texts := make([]string, len(path))
	for i, p := range path {
		texts[i] = FormatPoint(p)
	}
	return texts
}
