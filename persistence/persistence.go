// Package persistence implements durable storage for wall and intersection
// records, grounded on notification_repository.go's repository pattern
// (a struct wrapping *gorm.DB with one method per operation) and
// models.go's datatypes.JSON columns for loosely-structured payloads. Each
// wall is one row with its geometry payloads as JSON columns, intersection
// records live in a side table keyed by id, and a schema_version column
// supports accepting and upgrading older rows on load.
package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/internal/logger"
	"github.com/wallcore/geom/junction"
	"github.com/wallcore/geom/quality"
	"github.com/wallcore/geom/wallstore"
)

const component = "persistence"

// CurrentSchemaVersion is bumped whenever WallRecord's JSON payload shape
// changes in a way that requires an upgrade path in upgrade().
const CurrentSchemaVersion = 1

// WallRecord is the persisted row for one wall.
type WallRecord struct {
	ID               string `gorm:"primaryKey;size:36"`
	Type             string
	Thickness        float64
	Visible          bool
	LastModifiedMode string
	SchemaVersion    int

	Baseline     datatypes.JSON // []geometry.Point
	BasicPolygon datatypes.JSON // geometry.Polygon
	LeftOffset   datatypes.JSON // []geometry.Point, nil when basic-only
	RightOffset  datatypes.JSON // []geometry.Point, nil when basic-only
	JoinTypes    datatypes.JSON // map[string]string
	History      datatypes.JSON // []string
	QualityJSON  datatypes.JSON // quality.Scores

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WallRecord) TableName() string { return "wallgeom_walls" }

// IntersectionRecord is the side table: intersection records stored once,
// referenced by wall records' WallIDs.
type IntersectionRecord struct {
	ID               string `gorm:"primaryKey;size:64"`
	WallID           string `gorm:"index"`
	Kind             string
	WallIDs          datatypes.JSON
	BaselinePoint    datatypes.JSON
	ResolutionMethod string
	Accuracy         float64
	Validated        bool
	CreatedAt        time.Time
}

func (IntersectionRecord) TableName() string { return "wallgeom_intersections" }

// Store wraps a *gorm.DB with the wall/intersection persistence operations.
type Store struct {
	db *gorm.DB
}

// Open connects to a Postgres DSN and runs auto-migration for the two
// tables above.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to open postgres connection")
	}
	if err := db.AutoMigrate(&WallRecord{}, &IntersectionRecord{}); err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to auto-migrate persistence schema")
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open *gorm.DB, for tests and for callers that
// manage the connection pool themselves.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func marshal(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// wallToRecord marshals a wallstore.Wall's JSON payload columns into a
// WallRecord, with no database access of its own so the mapping can be
// exercised directly in tests.
func wallToRecord(w *wallstore.Wall) (WallRecord, error) {
	baseline, err := marshal(w.Baseline)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal baseline for wall %s", w.ID)
	}
	basicPolygon, err := marshal(w.BasicPolygon)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal basic_polygon for wall %s", w.ID)
	}
	leftOffset, err := marshal(w.LeftOffset)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal left_offset for wall %s", w.ID)
	}
	rightOffset, err := marshal(w.RightOffset)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal right_offset for wall %s", w.ID)
	}
	joinTypes, err := marshal(w.JoinTypes)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal join_types for wall %s", w.ID)
	}
	history, err := marshal(w.History)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal history for wall %s", w.ID)
	}
	qualityJSON, err := marshal(w.QualityScores)
	if err != nil {
		return WallRecord{}, errs.Wrap(component, errs.InvalidInput, err, "failed to marshal quality scores for wall %s", w.ID)
	}

	return WallRecord{
		ID:               w.ID.String(),
		Type:             string(w.Type),
		Thickness:        w.Thickness,
		Visible:          w.Visible,
		LastModifiedMode: string(w.LastModifiedMode),
		SchemaVersion:    CurrentSchemaVersion,
		Baseline:         baseline,
		BasicPolygon:     basicPolygon,
		LeftOffset:       leftOffset,
		RightOffset:      rightOffset,
		JoinTypes:        joinTypes,
		History:          history,
		QualityJSON:      qualityJSON,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}, nil
}

// Save upserts a wall as a WallRecord, along with its intersection records.
func (s *Store) Save(w *wallstore.Wall) error {
	rec, err := wallToRecord(w)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := tx.Where("wall_id = ?", rec.ID).Delete(&IntersectionRecord{}).Error; err != nil {
			return err
		}
		for _, ix := range w.Intersections {
			wallIDs, err := marshal(ix.WallIDs)
			if err != nil {
				return err
			}
			baselinePoint, err := marshal(ix.BaselinePoint)
			if err != nil {
				return err
			}
			irec := IntersectionRecord{
				ID:               ix.ID,
				WallID:           rec.ID,
				Kind:             string(ix.Kind),
				WallIDs:          wallIDs,
				BaselinePoint:    baselinePoint,
				ResolutionMethod: ix.ResolutionMethod,
				Accuracy:         ix.Accuracy,
				Validated:        ix.Validated,
			}
			if err := tx.Save(&irec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads a wall record back into a wallstore.Wall, upgrading older
// schema versions along the way.
func (s *Store) Load(id string) (*wallstore.Wall, error) {
	var rec WallRecord
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, errs.Wrap(component, errs.InvalidInput, err, "wall %s not found", id)
	}
	if rec.SchemaVersion < CurrentSchemaVersion {
		upgrade(&rec)
	}

	var ixRecs []IntersectionRecord
	if err := s.db.Where("wall_id = ?", id).Find(&ixRecs).Error; err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to load intersection records for wall %s", id)
	}

	return recordToWall(rec, ixRecs)
}

// recordToWall assembles a wallstore.Wall from a WallRecord and its
// intersection rows, with no database access of its own so the mapping can
// be exercised directly in tests against a Save-produced record.
func recordToWall(rec WallRecord, ixRecs []IntersectionRecord) (*wallstore.Wall, error) {
	wallID, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, errs.Wrap(component, errs.InvalidInput, err, "failed to parse wall id %s", rec.ID)
	}

	w := &wallstore.Wall{
		ID:               wallID,
		Thickness:        rec.Thickness,
		Type:             quality.WallType(rec.Type),
		Visible:          rec.Visible,
		LastModifiedMode: wallstore.Mode(rec.LastModifiedMode),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}

	if err := json.Unmarshal(rec.Baseline, &w.Baseline); err != nil {
		return nil, errs.Wrap(component, errs.InvalidInput, err, "failed to unmarshal baseline for wall %s", rec.ID)
	}
	var basicPolygon geometry.Polygon
	if len(rec.BasicPolygon) > 0 {
		if err := json.Unmarshal(rec.BasicPolygon, &basicPolygon); err != nil {
			return nil, errs.Wrap(component, errs.InvalidInput, err, "failed to unmarshal basic_polygon for wall %s", rec.ID)
		}
		w.BasicPolygon = basicPolygon
	}
	if len(rec.LeftOffset) > 0 {
		json.Unmarshal(rec.LeftOffset, &w.LeftOffset)
	}
	if len(rec.RightOffset) > 0 {
		json.Unmarshal(rec.RightOffset, &w.RightOffset)
	}
	if len(rec.JoinTypes) > 0 {
		json.Unmarshal(rec.JoinTypes, &w.JoinTypes)
	}
	if len(rec.History) > 0 {
		json.Unmarshal(rec.History, &w.History)
	}
	if len(rec.QualityJSON) > 0 {
		json.Unmarshal(rec.QualityJSON, &w.QualityScores)
	}

	for _, irec := range ixRecs {
		var ix junction.Record
		ix.ID = irec.ID
		ix.Kind = junction.Kind(irec.Kind)
		ix.ResolutionMethod = irec.ResolutionMethod
		ix.Accuracy = irec.Accuracy
		ix.Validated = irec.Validated
		json.Unmarshal(irec.WallIDs, &ix.WallIDs)
		json.Unmarshal(irec.BaselinePoint, &ix.BaselinePoint)
		w.Intersections = append(w.Intersections, ix)
	}

	return w, nil
}

// Delete removes a wall record and its intersection records.
func (s *Store) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wall_id = ?", id).Delete(&IntersectionRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&WallRecord{}, "id = ?", id).Error
	})
}

// upgrade migrates an older-schema WallRecord in place. There is only one
// schema version so far; this is the hook future migrations attach to.
func upgrade(rec *WallRecord) {
	logger.Warn("persistence: upgrading wall %s from schema_version %d to %d", rec.ID, rec.SchemaVersion, CurrentSchemaVersion)
	rec.SchemaVersion = CurrentSchemaVersion
}
