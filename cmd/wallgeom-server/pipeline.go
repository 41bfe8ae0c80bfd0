package main

import (
	"fmt"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/offset"
	"github.com/wallcore/geom/wallstore"
)

// computeBIMGeometry runs the offset engine over a wall's baseline and
// assembles the resulting left/right curves into a closed boundary polygon,
// the same shape store.SetBIMGeometry expects. It computes no intersection
// records: resolving junctions needs the neighboring walls a single-wall
// request doesn't have, so callers pass on the wall's existing records.
func computeBIMGeometry(w *wallstore.Wall, tol float64, opts offset.Options) ([]geometry.Point, []geometry.Point, geometry.Polygon, error) {
	baseline := geometry.NewPolyline(w.Baseline)
	res, err := offset.Offset(baseline, w.Thickness/2, offset.JoinAuto, tol, opts)
	if err != nil {
		return nil, nil, geometry.Polygon{}, fmt.Errorf("offset: %w", err)
	}

	boundary := make([]geometry.Point, 0, len(res.Left)+len(res.Right))
	boundary = append(boundary, res.Left...)
	for i := len(res.Right) - 1; i >= 0; i-- {
		boundary = append(boundary, res.Right[i])
	}
	return res.Left, res.Right, geometry.NewPolygon(boundary), nil
}
