package main

import (
	"encoding/json"
	"os"

	"github.com/wallcore/geom/geometry"
)

// xy is the on-disk representation of a point: a plain [x, y] pair, kept
// deliberately simpler than geometry.Point's full bookkeeping fields.
type xy [2]float64

func readPoints(path string) ([]geometry.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []xy
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	points := make([]geometry.Point, len(raw))
	for i, p := range raw {
		points[i] = geometry.NewPoint(p[0], p[1])
	}
	return points, nil
}

func writePoints(path string, points []geometry.Point) error {
	raw := make([]xy, len(points))
	for i, p := range points {
		raw[i] = xy{p.X, p.Y}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
