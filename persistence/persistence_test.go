package persistence

import (
	"testing"

	"github.com/google/uuid"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/quality"
	"github.com/wallcore/geom/wallstore"
)

func TestTableNamesAreNamespaced(t *testing.T) {
	if got := (WallRecord{}).TableName(); got != "wallgeom_walls" {
		t.Errorf("WallRecord.TableName() = %q, want wallgeom_walls", got)
	}
	if got := (IntersectionRecord{}).TableName(); got != "wallgeom_intersections" {
		t.Errorf("IntersectionRecord.TableName() = %q, want wallgeom_intersections", got)
	}
}

func TestUpgradeSetsCurrentSchemaVersion(t *testing.T) {
	rec := &WallRecord{ID: "w1", SchemaVersion: 0}
	upgrade(rec)
	if rec.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", rec.SchemaVersion, CurrentSchemaVersion)
	}
}

func TestSaveLoadRoundTripPreservesWallID(t *testing.T) {
	w := &wallstore.Wall{
		ID:               uuid.New(),
		Baseline:         []geometry.Point{geometry.NewPoint(0, 0), geometry.NewPoint(1000, 0)},
		Thickness:        250,
		Type:             quality.WallTypeInterior,
		LastModifiedMode: wallstore.ModeBasic,
		Visible:          true,
	}

	rec, err := wallToRecord(w)
	if err != nil {
		t.Fatalf("wallToRecord error = %v", err)
	}

	got, err := recordToWall(rec, nil)
	if err != nil {
		t.Fatalf("recordToWall error = %v", err)
	}
	if got.ID != w.ID {
		t.Errorf("ID = %s, want %s", got.ID, w.ID)
	}
	if got.Thickness != w.Thickness {
		t.Errorf("Thickness = %v, want %v", got.Thickness, w.Thickness)
	}
	if len(got.Baseline) != len(w.Baseline) {
		t.Errorf("Baseline length = %d, want %d", len(got.Baseline), len(w.Baseline))
	}
}

func TestMarshalRoundTripsSimpleValue(t *testing.T) {
	data, err := marshal(map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty marshaled payload")
	}
}
