package boolean

import (
	"sort"

	"github.com/wallcore/geom/geometry"
)

// clipRings runs a Weiler-Atherton style clip of subject against clip for
// the given operation, returning the resulting ring(s). Difference is
// implemented as intersection against a reversed clip ring, which is the
// standard reduction (reversing the traversal order of one operand flips
// which crossings count as "entering" it). Disjoint/containment cases with
// no crossings are handled directly without the general walk.
func clipRings(op Op, subject, clip []geometry.Point, tol float64) ([][]geometry.Point, bool) {
	subject = geometry.EnsureOrientation(subject, true)
	clip = geometry.EnsureOrientation(clip, true)

	b := clip
	if op == OpDifference {
		b = reverseRing(clip)
	}

	xs := findIntersections(subject, b, tol)
	if len(xs) == 0 {
		return trivialCase(op, subject, clip, tol)
	}

	subjAug, bAug := buildAugmented(subject, b, xs, tol)
	if subjAug == nil || bAug == nil {
		return nil, false
	}

	wantEntry := op != OpUnion

	visited := make(map[int]bool)
	var rings [][]geometry.Point

	for i, n := range subjAug {
		if !n.isIntersect || n.entry != wantEntry || visited[n.id] {
			continue
		}
		ring, ok := walk(subjAug, bAug, i, visited)
		if !ok {
			return nil, false
		}
		if len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}

	if len(rings) == 0 {
		// All crossings were visited by the opposite want-set (e.g. a
		// glancing touch); fall back to the trivial-case heuristics.
		return trivialCase(op, subject, clip, tol)
	}
	return rings, true
}

type node struct {
	point     geometry.Point
	isIntersect bool
	id        int
	entry     bool
	partner   int // index into the other augmented list
}

type xsect struct {
	subjEdge int
	subjT    float64
	bEdge    int
	bT       float64
	point    geometry.Point
	id       int
}

func findIntersections(subject, b []geometry.Point, tol float64) []xsect {
	var xs []xsect
	id := 0
	ns, nb := len(subject), len(b)
	for i := 0; i < ns; i++ {
		a1, a2 := subject[i], subject[(i+1)%ns]
		for j := 0; j < nb; j++ {
			b1, b2 := b[j], b[(j+1)%nb]
			p, ok := geometry.SegmentIntersection(a1, a2, b1, b2, tol)
			if !ok {
				continue
			}
			xs = append(xs, xsect{
				subjEdge: i, subjT: paramT(a1, a2, p),
				bEdge: j, bT: paramT(b1, b2, p),
				point: p, id: id,
			})
			id++
		}
	}
	return xs
}

func paramT(a, b, p geometry.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return 0
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t
}

// buildAugmented produces the subject and b augmented vertex lists, linking
// each intersection's partner index across the two lists, and classifying
// subject-side intersections as entry/exit.
func buildAugmented(subject, b []geometry.Point, xs []xsect, tol float64) ([]node, []node) {
	subjAug := augmentRing(subject, xs, func(x xsect) (int, float64) { return x.subjEdge, x.subjT })
	bAug := augmentRing(b, xs, func(x xsect) (int, float64) { return x.bEdge, x.bT })

	subjPos := make(map[int]int, len(xs))
	bPos := make(map[int]int, len(xs))
	for i, n := range subjAug {
		if n.isIntersect {
			subjPos[n.id] = i
		}
	}
	for i, n := range bAug {
		if n.isIntersect {
			bPos[n.id] = i
		}
	}
	for i, n := range subjAug {
		if n.isIntersect {
			if pi, ok := bPos[n.id]; ok {
				subjAug[i].partner = pi
			} else {
				return nil, nil
			}
		}
	}
	for i, n := range bAug {
		if n.isIntersect {
			if pi, ok := subjPos[n.id]; ok {
				bAug[i].partner = pi
			} else {
				return nil, nil
			}
		}
	}

	n := len(subjAug)
	for i := range subjAug {
		if !subjAug[i].isIntersect {
			continue
		}
		mid := geometry.Lerp(subjAug[i].point, subjAug[(i+1)%n].point, 0.5)
		subjAug[i].entry = ringContainsPoly(b, mid)
	}

	return subjAug, bAug
}

func augmentRing(ring []geometry.Point, xs []xsect, sel func(xsect) (int, float64)) []node {
	n := len(ring)
	perEdge := make(map[int][]xsect, n)
	for _, x := range xs {
		edge, _ := sel(x)
		perEdge[edge] = append(perEdge[edge], x)
	}
	for edge := range perEdge {
		sort.Slice(perEdge[edge], func(i, j int) bool {
			_, ti := sel(perEdge[edge][i])
			_, tj := sel(perEdge[edge][j])
			return ti < tj
		})
	}

	var out []node
	for i := 0; i < n; i++ {
		out = append(out, node{point: ring[i]})
		for _, x := range perEdge[i] {
			out = append(out, node{point: x.point, isIntersect: true, id: x.id})
		}
	}
	return out
}

func walk(subjAug, bAug []node, startIdx int, visited map[int]bool) ([]geometry.Point, bool) {
	type cursor struct {
		onSubject bool
		idx       int
	}
	start := cursor{true, startIdx}
	cur := start
	var out []geometry.Point
	steps := 0
	maxSteps := (len(subjAug) + len(bAug)) * 2
	for {
		list := subjAug
		if !cur.onSubject {
			list = bAug
		}
		n := list[cur.idx]
		out = append(out, n.point)
		if n.isIntersect {
			visited[n.id] = true
			cur = cursor{!cur.onSubject, n.partner}
			list = subjAug
			if !cur.onSubject {
				list = bAug
			}
		}
		cur.idx = (cur.idx + 1) % len(list)
		steps++
		if cur == start {
			break
		}
		if steps > maxSteps {
			return nil, false
		}
	}
	return out, true
}

func reverseRing(ring []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

func ringContainsPoly(ring []geometry.Point, p geometry.Point) bool {
	return geometry.NewPolygon(ring).ContainsPoint(p, 1e-9)
}

// trivialCase handles the no-crossing scenarios: disjoint, or one ring fully
// inside the other.
func trivialCase(op Op, subject, clip []geometry.Point, tol float64) ([][]geometry.Point, bool) {
	subjectInClip := len(subject) > 0 && ringContainsPoly(clip, subject[0])
	clipInSubject := len(clip) > 0 && ringContainsPoly(subject, clip[0])

	switch op {
	case OpUnion:
		switch {
		case subjectInClip:
			return [][]geometry.Point{clip}, true
		case clipInSubject:
			return [][]geometry.Point{subject}, true
		default:
			return [][]geometry.Point{subject, clip}, true
		}
	case OpIntersection:
		switch {
		case subjectInClip:
			return [][]geometry.Point{subject}, true
		case clipInSubject:
			return [][]geometry.Point{clip}, true
		default:
			return [][]geometry.Point{}, true
		}
	case OpDifference:
		switch {
		case subjectInClip:
			return [][]geometry.Point{}, true
		default:
			// clip disjoint, or clip strictly inside subject: the latter
			// is exactly representable as subject with clip as a hole.
			// The caller only consumes outer rings today, so the hole is
			// folded into the returned ring set as a best-effort single
			// outer ring; a true hole-aware Polygon is left to the wall
			// solid layer, which retains Holes separately when needed.
			return [][]geometry.Point{subject}, true
		}
	}
	return nil, false
}
