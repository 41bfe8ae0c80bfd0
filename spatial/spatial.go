// Package spatial implements the intersection network optimizer: a
// quadtree spatial index over wall bounding boxes, candidate junction pair
// enumeration, and endpoint-based T/L/cross/parallel classification dispatched
// through the cache to the junction resolvers. The quadtree shape is
// adapted from spatial_index.go's SpatialIndex (string-keyed leaves,
// maxObjects/maxDepth split), generalized from its nanometer int64
// coordinates to the float64 geometry.BoundingBox the rest of this module
// uses.
package spatial

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/time/rate"

	"github.com/wallcore/geom/cache"
	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
	"github.com/wallcore/geom/junction"
)

const component = "spatial"

const (
	defaultMaxObjects = 10
	defaultMaxDepth   = 8
)

// Entry is a wall's spatial footprint plus enough geometry for junction
// classification and resolution.
type Entry struct {
	ID  string
	BB  geometry.BoundingBox
	Geo junction.WallGeom
}

type quadNode struct {
	bounds   geometry.BoundingBox
	entries  []Entry
	children [4]*quadNode
	isLeaf   bool
	depth    int
}

// Index is a quadtree over wall bounding boxes.
type Index struct {
	root       *quadNode
	maxObjects int
	maxDepth   int
}

// NewIndex builds an index over entries, sized to their combined extent.
func NewIndex(entries []Entry) *Index {
	idx := &Index{maxObjects: defaultMaxObjects, maxDepth: defaultMaxDepth}
	if len(entries) == 0 {
		return idx
	}

	bounds := geometry.EmptyBoundingBox()
	for _, e := range entries {
		bounds.Expand(geometry.Point{X: e.BB.MinX, Y: e.BB.MinY})
		bounds.Expand(geometry.Point{X: e.BB.MaxX, Y: e.BB.MaxY})
	}
	idx.root = &quadNode{bounds: bounds, isLeaf: true}
	for _, e := range entries {
		idx.insert(idx.root, e)
	}
	return idx
}

func (idx *Index) insert(node *quadNode, e Entry) {
	if !node.bounds.Intersects(e.BB) {
		return
	}
	if node.isLeaf {
		node.entries = append(node.entries, e)
		if len(node.entries) > idx.maxObjects && node.depth < idx.maxDepth {
			idx.split(node)
		}
		return
	}
	for _, child := range node.children {
		if child != nil {
			idx.insert(child, e)
		}
	}
}

func (idx *Index) split(node *quadNode) {
	midX := (node.bounds.MinX + node.bounds.MaxX) / 2
	midY := (node.bounds.MinY + node.bounds.MaxY) / 2
	b := node.bounds
	node.children[0] = &quadNode{bounds: geometry.BoundingBox{MinX: b.MinX, MinY: midY, MaxX: midX, MaxY: b.MaxY}, depth: node.depth + 1, isLeaf: true}
	node.children[1] = &quadNode{bounds: geometry.BoundingBox{MinX: midX, MinY: midY, MaxX: b.MaxX, MaxY: b.MaxY}, depth: node.depth + 1, isLeaf: true}
	node.children[2] = &quadNode{bounds: geometry.BoundingBox{MinX: b.MinX, MinY: b.MinY, MaxX: midX, MaxY: midY}, depth: node.depth + 1, isLeaf: true}
	node.children[3] = &quadNode{bounds: geometry.BoundingBox{MinX: midX, MinY: b.MinY, MaxX: b.MaxX, MaxY: midY}, depth: node.depth + 1, isLeaf: true}

	old := node.entries
	node.entries = nil
	node.isLeaf = false
	for _, e := range old {
		for _, child := range node.children {
			if child != nil {
				idx.insert(child, e)
			}
		}
	}
}

// Query returns every entry whose bounding box intersects bb.
func (idx *Index) Query(bb geometry.BoundingBox) []Entry {
	var out []Entry
	idx.query(idx.root, bb, &out)
	return out
}

func (idx *Index) query(node *quadNode, bb geometry.BoundingBox, out *[]Entry) {
	if node == nil || !node.bounds.Intersects(bb) {
		return
	}
	if node.isLeaf {
		*out = append(*out, node.entries...)
		return
	}
	for _, child := range node.children {
		idx.query(child, bb, out)
	}
}

// CandidatePairs enumerates every pair of entries whose bounding boxes
// intersect, deduplicated, using the index rather than an O(n^2) scan.
func (idx *Index) CandidatePairs() [][2]Entry {
	seen := make(map[[2]string]bool)
	var out [][2]Entry
	var walk func(n *quadNode)
	walk = func(n *quadNode) {
		if n == nil {
			return
		}
		if n.isLeaf {
			for i := 0; i < len(n.entries); i++ {
				for j := i + 1; j < len(n.entries); j++ {
					a, b := n.entries[i], n.entries[j]
					if !a.BB.Intersects(b.BB) {
						continue
					}
					key := pairKey(a.ID, b.ID)
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, [2]Entry{a, b})
				}
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(idx.root)
	return out
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// Classification is the junction kind a candidate pair resolves to before
// the actual resolver runs.
type Classification string

const (
	ClassT        Classification = "T"
	ClassL        Classification = "L"
	ClassCross    Classification = "cross"
	ClassParallel Classification = "parallel"
	ClassNone     Classification = "none"
)

// Classify determines which junction.Resolve* function a pair belongs to by
// comparing each baseline's endpoints with the other baseline's vertices:
// both baselines ending on a vertex of the other gives L, exactly one gives
// T, and neither gives a parallel candidate (checked by
// ResolveParallelOverlap). An endpoint lying inside a segment of the other
// baseline, away from its vertices, does not count as shared, and a pair
// with no shared vertex is classed parallel whether or not the baselines
// cross.
func Classify(a, b junction.WallGeom, tolerance float64) Classification {
	aShared := endpointSharedWith(a.Baseline, b.Baseline, tolerance)
	bShared := endpointSharedWith(b.Baseline, a.Baseline, tolerance)
	switch {
	case aShared && bShared:
		return ClassL
	case aShared || bShared:
		return ClassT
	default:
		return ClassParallel
	}
}

func endpointSharedWith(base, other []geometry.Point, tolerance float64) bool {
	if len(base) == 0 || len(other) == 0 {
		return false
	}
	ends := []geometry.Point{base[0], base[len(base)-1]}
	for _, e := range ends {
		for _, p := range other {
			if e.Equals(p, tolerance) {
				return true
			}
		}
	}
	return false
}

// endpointClusters groups entries whose baselines share an endpoint within
// tolerance into connected clusters (union-find over the shares-endpoint
// relation, so three or more walls meeting at one point land together
// regardless of which pair is compared first). Only clusters of 3 or more
// walls are returned, since two-wall endpoint sharing is an L junction,
// handled by the pairwise classifier.
func endpointClusters(entries []Entry, tolerance float64) [][]Entry {
	n := len(entries)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if endpointSharedWith(entries[i].Geo.Baseline, entries[j].Geo.Baseline, tolerance) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]Entry)
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], entries[i])
	}
	var clusters [][]Entry
	for _, g := range groups {
		if len(g) >= 3 {
			clusters = append(clusters, g)
		}
	}
	return clusters
}

func markPairsHandled(seen map[[2]string]bool, entries []Entry) {
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			seen[pairKey(entries[i].ID, entries[j].ID)] = true
		}
	}
}

// NetworkResult summarizes one optimization pass over the network.
type NetworkResult struct {
	OriginalComplexity   int
	OptimizedComplexity  int
	PerformanceGain      float64
	OptimizationsApplied []string
	Records              []junction.Record
}

// Limiter throttles how many junction resolutions the optimizer dispatches
// per second, guarding against pathological wall counts saturating the
// junction resolvers.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter builds a Limiter admitting ratePerSecond dispatches, bursting
// up to burst.
func NewLimiter(ratePerSecond float64, burst int) *Limiter {
	return &Limiter{rl: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

// OptimizeNetwork runs the full network-optimization pipeline: build the
// index, enumerate candidate pairs, classify, and dispatch to the junction
// resolvers through the cache, honoring
// ctx cancellation and the configured dispatch rate.
func OptimizeNetwork(ctx context.Context, entries []Entry, store *cache.Store, lim *Limiter, tolerance, miterLimit float64) (NetworkResult, error) {
	idx := NewIndex(entries)
	pairs := idx.CandidatePairs()
	originalComplexity := len(entries) * len(entries)

	var records []junction.Record
	applied := make(map[string]bool)
	crossHandled := make(map[[2]string]bool)

	for _, cluster := range endpointClusters(entries, tolerance) {
		if ctx.Err() != nil {
			return NetworkResult{}, errs.Wrap(component, errs.Cancelled, ctx.Err(), "network optimization cancelled")
		}
		if lim != nil {
			if err := lim.rl.Wait(ctx); err != nil {
				return NetworkResult{}, errs.Wrap(component, errs.Cancelled, err, "dispatch throttle wait failed")
			}
		}

		ids := make([]string, len(cluster))
		geoms := make([]junction.WallGeom, len(cluster))
		for i, e := range cluster {
			ids[i] = e.ID
			geoms[i] = e.Geo
		}
		sortedIDs := append([]string(nil), ids...)
		sort.Strings(sortedIDs)
		center := cluster[0].BB.Center()
		key := cache.IntersectionKey(sortedIDs, string(ClassCross), center.X, center.Y, tolerance)

		if store != nil {
			if cached, ok := store.Get(key); ok {
				if rec, ok := cached.(junction.Record); ok {
					rec.Cached = true
					records = append(records, rec)
					applied[string(ClassCross)] = true
					markPairsHandled(crossHandled, cluster)
					continue
				}
			}
		}

		rec, err := junction.ResolveCross(geoms, tolerance)
		if err != nil {
			logger.Warn("spatial: cross junction resolution failed for %v: %v", ids, err)
			continue
		}
		rec.State = junction.StateValidated
		if store != nil {
			store.Set(key, rec, 1)
		}
		records = append(records, rec)
		applied[string(ClassCross)] = true
		markPairsHandled(crossHandled, cluster)
	}

	for _, pair := range pairs {
		if ctx.Err() != nil {
			return NetworkResult{}, errs.Wrap(component, errs.Cancelled, ctx.Err(), "network optimization cancelled")
		}
		if lim != nil {
			if err := lim.rl.Wait(ctx); err != nil {
				return NetworkResult{}, errs.Wrap(component, errs.Cancelled, err, "dispatch throttle wait failed")
			}
		}

		a, b := pair[0], pair[1]
		if crossHandled[pairKey(a.ID, b.ID)] {
			continue
		}
		class := Classify(a.Geo, b.Geo, tolerance)
		key := cache.IntersectionKey([]string{a.ID, b.ID}, string(class), a.BB.Center().X, a.BB.Center().Y, tolerance)

		if store != nil {
			if cached, ok := store.Get(key); ok {
				if rec, ok := cached.(junction.Record); ok {
					rec.Cached = true
					records = append(records, rec)
					applied[string(class)] = true
					continue
				}
			}
		}

		var rec junction.Record
		var err error
		switch class {
		case ClassL:
			rec, err = junction.ResolveL(a.Geo, b.Geo, tolerance, miterLimit)
		case ClassT:
			rec, err = junction.ResolveT(a.Geo, b.Geo, tolerance, miterLimit)
		case ClassParallel:
			var overlapped bool
			rec, overlapped, err = junction.ResolveParallelOverlap(a.Geo, b.Geo, tolerance, junction.DefaultParallelOverlapThreshold)
			if !overlapped {
				continue
			}
		default:
			continue
		}
		if err != nil {
			logger.Warn("spatial: junction resolution failed for pair (%s,%s): %v", a.ID, b.ID, err)
			continue
		}

		rec.State = junction.StateValidated
		if store != nil {
			store.Set(key, rec, 1)
		}
		records = append(records, rec)
		applied[string(class)] = true
	}

	optimizedComplexity := len(pairs)
	gain := 0.0
	if originalComplexity > 0 {
		gain = 1 - float64(optimizedComplexity)/float64(originalComplexity)
	}

	var ops []string
	for k := range applied {
		ops = append(ops, k)
	}
	sort.Strings(ops)

	return NetworkResult{
		OriginalComplexity:   originalComplexity,
		OptimizedComplexity:  optimizedComplexity,
		PerformanceGain:      gain,
		OptimizationsApplied: ops,
		Records:              records,
	}, nil
}

// String renders a short summary, used by cmd/wallgeom-tui.
func (r NetworkResult) String() string {
	return fmt.Sprintf("network: %d->%d pairs (%.1f%% reduction), %d records",
		r.OriginalComplexity, r.OptimizedComplexity, r.PerformanceGain*100, len(r.Records))
}
