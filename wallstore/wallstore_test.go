package wallstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallcore/geom/geometry"
	"github.com/wallcore/geom/junction"
	"github.com/wallcore/geom/quality"
)

func pt(x, y float64) geometry.Point { return geometry.NewPoint(x, y) }

func TestCreateRejectsNonPositiveThickness(t *testing.T) {
	s := New()
	_, err := s.Create([]geometry.Point{pt(0, 0), pt(1, 0)}, quality.WallTypeInterior, 0, ModeBasic)
	assert.Error(t, err)
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	s := New()
	w, err := s.Create([]geometry.Point{pt(0, 0), pt(1000, 0)}, quality.WallTypeInterior, 250, ModeBasic)
	require.NoError(t, err)

	got, ok := s.Get(w.ID)
	require.True(t, ok, "expected to find created wall")
	assert.Equal(t, 250.0, got.Thickness)
	assert.Equal(t, 1, got.Version)
}

func TestSwitchModeToBasicWithIntersectionsReportsDataLoss(t *testing.T) {
	s := New()
	w, err := s.Create([]geometry.Point{pt(0, 0), pt(1000, 0)}, quality.WallTypeInterior, 250, ModeBIM)
	require.NoError(t, err)

	err = s.SetBIMGeometry(w.ID, nil, nil, geometry.Polygon{}, []junction.Record{{ID: "ix1", Kind: junction.KindL}})
	require.NoError(t, err)

	compat := s.CheckCompatibility([]uuid.UUID{w.ID}, ModeBasic)
	assert.False(t, compat.IsCompatible, "expected incompatibility when intersection records would be lost")

	result := s.SwitchMode([]uuid.UUID{w.ID}, ModeBasic)
	assert.NotEmpty(t, result.Warnings, "expected a data-loss warning on lossy switch")
}

func TestCheckCompatibilitySetsValidityFlags(t *testing.T) {
	s := New()
	w, err := s.Create([]geometry.Point{pt(0, 0), pt(1000, 0)}, quality.WallTypeInterior, 250, ModeBasic)
	require.NoError(t, err)

	s.CheckCompatibility([]uuid.UUID{w.ID}, ModeBasic)
	got, ok := s.Get(w.ID)
	require.True(t, ok)
	assert.False(t, got.BasicValid, "expected no basic polygon yet")
	assert.False(t, got.BimValid, "expected no offsets yet")

	require.NoError(t, s.SetBIMGeometry(w.ID, []geometry.Point{pt(0, -125), pt(1000, -125)}, []geometry.Point{pt(0, 125), pt(1000, 125)}, geometry.NewPolygon([]geometry.Point{pt(0, -125), pt(1000, -125), pt(1000, 125), pt(0, 125)}), nil))
	s.CheckCompatibility([]uuid.UUID{w.ID}, ModeBasic)
	got, ok = s.Get(w.ID)
	require.True(t, ok)
	assert.True(t, got.BasicValid)
	assert.True(t, got.BimValid)
}

func TestDeleteCascadesIntersectionRecords(t *testing.T) {
	s := New()
	a, err := s.Create([]geometry.Point{pt(0, 0), pt(1000, 0)}, quality.WallTypeInterior, 250, ModeBIM)
	require.NoError(t, err)
	b, err := s.Create([]geometry.Point{pt(1000, 0), pt(1000, 1000)}, quality.WallTypeInterior, 250, ModeBIM)
	require.NoError(t, err)

	rec := junction.Record{ID: "ix1", Kind: junction.KindL, WallIDs: []string{a.ID.String(), b.ID.String()}}
	require.NoError(t, s.SetBIMGeometry(b.ID, nil, nil, geometry.Polygon{}, []junction.Record{rec}))

	s.Delete([]uuid.UUID{a.ID})

	got, ok := s.Get(b.ID)
	require.True(t, ok, "expected wall b to survive deletion of a")
	assert.Empty(t, got.Intersections, "expected cascaded intersection record removal")
}
