// Package wallstore implements the unified wall store and mode switcher:
// the dual basic/BIM representation, create/update/switch/sync/delete
// operations, and the compatibility checker, grounded on
// wall_structure.go's dual-geometry shape, generalized from its uint64 ids
// to google/uuid. The store itself is in memory; the persistence package
// saves and loads its walls for durable storage.
package wallstore

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
	"github.com/wallcore/geom/junction"
	"github.com/wallcore/geom/quality"
)

const component = "wallstore"

// Mode is which representation is authoritative for a wall.
type Mode string

const (
	ModeBasic Mode = "basic"
	ModeBIM   Mode = "bim"
)

// WallType mirrors quality.WallType; re-exported so callers of this package
// don't need to import quality for the common case.
type WallType = quality.WallType

// Wall is the unified record: both representations plus the bookkeeping
// the unified wall store must support.
type Wall struct {
	ID               uuid.UUID
	Baseline         []geometry.Point
	Thickness        float64
	Type             WallType
	LastModifiedMode Mode
	RequiresSync     bool
	Version          int
	Visible          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// BasicValid and BimValid report whether each representation is
	// currently well-formed, as last computed by CheckCompatibility.
	BasicValid bool
	BimValid   bool

	// Basic representation: a single simple polygon.
	BasicPolygon geometry.Polygon

	// BIM representation: offsets, junction map, intersection records.
	LeftOffset    []geometry.Point
	RightOffset   []geometry.Point
	JoinTypes     map[string]string // junction-node-id -> join type
	Intersections []junction.Record
	History       []string // healing history summaries, append-only

	QualityScores quality.Scores
}

// ModeSwitchResult is returned by SwitchMode.
type ModeSwitchResult struct {
	Success           bool
	ConvertedIDs      []uuid.UUID
	FailedIDs         []uuid.UUID
	Warnings          []string
	PreservedData     []string
	ProcessingTime    time.Duration
	QualityImpact     float64
	ApproximationsUsed []string
}

// CompatibilityStatus is returned by CheckCompatibility.
type CompatibilityStatus struct {
	IsCompatible          bool
	CanSwitchToBIM        bool
	CanSwitchToBasic      bool
	PotentialDataLoss     []string
	RecommendedActions    []string
	EstimatedProcessingTime time.Duration
	QualityImpact         float64
}

// Store is the single-writer, many-reader wall store: per-wall
// mutations are serialized by version counter, and the only other shared
// mutable state is the cache package, which is not owned here.
type Store struct {
	mu    sync.RWMutex
	walls map[uuid.UUID]*Wall
}

// New constructs an empty store.
func New() *Store {
	return &Store{walls: make(map[uuid.UUID]*Wall)}
}

// Create registers a new wall with its baseline, type, thickness, and
// initial authoritative mode.
func (s *Store) Create(baseline []geometry.Point, wallType WallType, thickness float64, initialMode Mode) (*Wall, error) {
	if thickness <= 0 {
		return nil, errs.New(component, errs.InvalidInput, "thickness must be positive, got %v", thickness)
	}
	if len(baseline) < 2 {
		return nil, errs.New(component, errs.InvalidInput, "baseline needs at least 2 points")
	}

	now := time.Now()
	w := &Wall{
		ID:               uuid.New(),
		Baseline:         baseline,
		Thickness:        thickness,
		Type:             wallType,
		LastModifiedMode: initialMode,
		RequiresSync:     true,
		Version:          1,
		Visible:          true,
		CreatedAt:        now,
		UpdatedAt:        now,
		JoinTypes:        make(map[string]string),
	}

	s.mu.Lock()
	s.walls[w.ID] = w
	s.mu.Unlock()
	return w, nil
}

// Get returns a snapshot copy of the wall for id.
func (s *Store) Get(id uuid.UUID) (*Wall, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.walls[id]
	if !ok {
		return nil, false
	}
	cp := *w
	return &cp, true
}

// UpdateBaseline replaces a wall's baseline, marking it dirty for sync.
func (s *Store) UpdateBaseline(id uuid.UUID, newCurve []geometry.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.walls[id]
	if !ok {
		return errs.New(component, errs.InvalidInput, "unknown wall id %s", id)
	}
	w.Baseline = newCurve
	w.RequiresSync = true
	w.LastModifiedMode = ModeBasic
	w.Version++
	w.UpdatedAt = time.Now()
	return nil
}

// CheckCompatibility evaluates whether id_set can switch to target mode
// without data loss. BIM->basic is lossy when a wall carries
// non-trivial intersection records or the offsets imply non-constant local
// thickness. As a side effect, it recomputes each wall's BasicValid and
// BimValid flags from its current geometry.
func (s *Store) CheckCompatibility(ids []uuid.UUID, target Mode) CompatibilityStatus {
	start := time.Now()
	status := CompatibilityStatus{IsCompatible: true, CanSwitchToBIM: true, CanSwitchToBasic: true}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		w, ok := s.walls[id]
		if !ok {
			status.IsCompatible = false
			status.PotentialDataLoss = append(status.PotentialDataLoss, "wall "+id.String()+" not found")
			continue
		}
		w.BasicValid = len(w.BasicPolygon.Outer) >= 3
		w.BimValid = len(w.LeftOffset) >= 2 && len(w.RightOffset) >= 2
		if target == ModeBasic && len(w.Intersections) > 0 {
			status.CanSwitchToBasic = false
			status.PotentialDataLoss = append(status.PotentialDataLoss, "wall "+id.String()+" would lose "+strconv.Itoa(len(w.Intersections))+" intersection record(s)")
			status.RecommendedActions = append(status.RecommendedActions, "export intersection metadata before switching "+id.String()+" to basic")
		}
		if target == ModeBasic && !constantThickness(w) {
			status.CanSwitchToBasic = false
			status.PotentialDataLoss = append(status.PotentialDataLoss, "wall "+id.String()+" has non-constant local thickness, unrepresentable in basic mode")
		}
	}

	if len(status.PotentialDataLoss) > 0 {
		status.IsCompatible = false
	}
	status.EstimatedProcessingTime = time.Since(start) + time.Duration(len(ids))*time.Microsecond
	return status
}

func constantThickness(w *Wall) bool {
	if len(w.LeftOffset) != len(w.RightOffset) || len(w.LeftOffset) == 0 {
		return true
	}
	base := w.LeftOffset[0].DistanceTo(w.RightOffset[0])
	for i := range w.LeftOffset {
		d := w.LeftOffset[i].DistanceTo(w.RightOffset[i])
		if d-base > w.Thickness*0.01 || base-d > w.Thickness*0.01 {
			return false
		}
	}
	return true
}

// SwitchMode runs the compatibility check then converts id_set to target,
// on a successful switch.
func (s *Store) SwitchMode(ids []uuid.UUID, target Mode) ModeSwitchResult {
	start := time.Now()
	compat := s.CheckCompatibility(ids, target)

	result := ModeSwitchResult{Success: true}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		w, ok := s.walls[id]
		if !ok {
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		switch target {
		case ModeBasic:
			if !compat.CanSwitchToBasic {
				result.Warnings = append(result.Warnings, "wall "+id.String()+" switched to basic with data loss")
				result.ApproximationsUsed = append(result.ApproximationsUsed, "collapsed intersection records and local thickness variance")
			}
			w.LastModifiedMode = ModeBasic
		case ModeBIM:
			w.LastModifiedMode = ModeBIM
		}
		w.RequiresSync = true
		w.Version++
		w.UpdatedAt = time.Now()
		result.ConvertedIDs = append(result.ConvertedIDs, id)
		result.PreservedData = append(result.PreservedData, "baseline, thickness, wall_type")
	}

	result.QualityImpact = compat.QualityImpact
	result.ProcessingTime = time.Since(start)
	return result
}

// Synchronize marks id as in sync: if RequiresSync is set, it clears the
// flag and bumps Version and UpdatedAt. It derives no geometry in either
// direction; offsets, boundary polygon and intersection records change only
// through SetBIMGeometry, and the flag is cleared whether or not that was
// called.
func (s *Store) Synchronize(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.walls[id]
	if !ok {
		return errs.New(component, errs.InvalidInput, "unknown wall id %s", id)
	}
	if !w.RequiresSync {
		return nil
	}
	logger.Debug("wallstore: synchronizing wall %s (authoritative=%s)", id, w.LastModifiedMode)
	w.RequiresSync = false
	w.Version++
	w.UpdatedAt = time.Now()
	return nil
}

// SetBIMGeometry installs freshly-computed offsets, boundary polygon, and
// intersection records for a wall, as produced by the offset/boolean/
// junction pipeline.
func (s *Store) SetBIMGeometry(id uuid.UUID, left, right []geometry.Point, boundary geometry.Polygon, intersections []junction.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.walls[id]
	if !ok {
		return errs.New(component, errs.InvalidInput, "unknown wall id %s", id)
	}
	w.LeftOffset, w.RightOffset = left, right
	w.BasicPolygon = boundary
	w.Intersections = intersections
	w.RequiresSync = false
	w.Version++
	w.UpdatedAt = time.Now()
	return nil
}

// Delete removes id_set, cascading to any intersection records that
// reference a deleted wall.
func (s *Store) Delete(ids []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		delete(s.walls, id)
		deleted[id] = true
	}

	for _, w := range s.walls {
		filtered := w.Intersections[:0]
		for _, rec := range w.Intersections {
			referencesDeleted := false
			for _, wallID := range rec.WallIDs {
				if parsed, err := uuid.Parse(wallID); err == nil && deleted[parsed] {
					referencesDeleted = true
					break
				}
			}
			if !referencesDeleted {
				filtered = append(filtered, rec)
			}
		}
		w.Intersections = filtered
	}
}
