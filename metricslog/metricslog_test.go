package metricslog

import (
	"strings"
	"testing"
)

func TestSchemaDDLCreatesExpectedTableAndIndex(t *testing.T) {
	if !strings.Contains(schemaDDL, "wallgeom_quality_snapshots") {
		t.Errorf("schemaDDL should create wallgeom_quality_snapshots")
	}
	if !strings.Contains(schemaDDL, "wallgeom_quality_snapshots_wall_id_idx") {
		t.Errorf("schemaDDL should create a wall_id trend index")
	}
}
