// Package metricslog records quality-metric snapshots per wall and answers
// trend queries over them, grounded on pipeline_repository.go: a struct
// wrapping *sqlx.DB, context-aware methods, named parameters,
// StructScan/GetContext for single rows, SelectContext for result sets.
// Kept distinct from the persistence package (which uses GORM) because
// this is a narrow hand-written analytical query where sqlx's struct
// scanning over a plain SQL statement is a better fit than an ORM
// relation.
package metricslog

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/wallcore/geom/internal/errs"
	"github.com/wallcore/geom/quality"
)

const component = "metricslog"

// Snapshot is one recorded quality measurement for a wall.
type Snapshot struct {
	ID                      int64     `db:"id"`
	WallID                  string    `db:"wall_id"`
	RecordedAt              time.Time `db:"recorded_at"`
	GeometricAccuracy       float64   `db:"geometric_accuracy"`
	TopologicalConsistency  float64   `db:"topological_consistency"`
	Manufacturability       float64   `db:"manufacturability"`
	ArchitecturalCompliance float64   `db:"architectural_compliance"`
	IssueCount              int       `db:"issue_count"`
	HealingIteration        int       `db:"healing_iteration"`
}

// Trend is an aggregated view over a window of snapshots for one wall.
type Trend struct {
	WallID                     string
	SampleCount                int
	FirstRecordedAt            time.Time
	LastRecordedAt             time.Time
	AverageGeometricAccuracy   float64
	AverageArchitecturalScore  float64
	WorstIssueCount            int
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS wallgeom_quality_snapshots (
	id                       BIGSERIAL PRIMARY KEY,
	wall_id                  TEXT NOT NULL,
	recorded_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
	geometric_accuracy       DOUBLE PRECISION NOT NULL,
	topological_consistency  DOUBLE PRECISION NOT NULL,
	manufacturability        DOUBLE PRECISION NOT NULL,
	architectural_compliance DOUBLE PRECISION NOT NULL,
	issue_count              INTEGER NOT NULL,
	healing_iteration        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS wallgeom_quality_snapshots_wall_id_idx
	ON wallgeom_quality_snapshots (wall_id, recorded_at);
`

// Log wraps a *sqlx.DB with quality-trend recording and query operations.
type Log struct {
	db *sqlx.DB
}

// Open connects to a Postgres DSN and ensures the snapshot table exists.
func Open(ctx context.Context, dsn string) (*Log, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to connect to postgres")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to create quality snapshot schema")
	}
	return &Log{db: db}, nil
}

// NewWithDB wraps an already-connected *sqlx.DB.
func NewWithDB(db *sqlx.DB) *Log {
	return &Log{db: db}
}

// Record inserts a quality snapshot for wallID, derived from a quality.Report
// produced by the quality scorer after a healing pass.
func (l *Log) Record(ctx context.Context, wallID string, report quality.Report, healingIteration int) error {
	const query = `
		INSERT INTO wallgeom_quality_snapshots
			(wall_id, geometric_accuracy, topological_consistency, manufacturability, architectural_compliance, issue_count, healing_iteration)
		VALUES (:wall_id, :geometric_accuracy, :topological_consistency, :manufacturability, :architectural_compliance, :issue_count, :healing_iteration)
	`
	_, err := l.db.NamedExecContext(ctx, query, map[string]interface{}{
		"wall_id":                  wallID,
		"geometric_accuracy":       report.Scores.GeometricAccuracy,
		"topological_consistency":  report.Scores.TopologicalConsistency,
		"manufacturability":        report.Scores.Manufacturability,
		"architectural_compliance": report.Scores.ArchitecturalCompliance,
		"issue_count":              len(report.Issues),
		"healing_iteration":        healingIteration,
	})
	if err != nil {
		return errs.Wrap(component, errs.NumericalFailure, err, "failed to record quality snapshot for wall %s", wallID)
	}
	return nil
}

// History returns up to limit snapshots for wallID, most recent first.
func (l *Log) History(ctx context.Context, wallID string, limit int) ([]Snapshot, error) {
	const query = `
		SELECT * FROM wallgeom_quality_snapshots
		WHERE wall_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	var snapshots []Snapshot
	if err := l.db.SelectContext(ctx, &snapshots, query, wallID, limit); err != nil {
		return nil, errs.Wrap(component, errs.NumericalFailure, err, "failed to query quality snapshot history for wall %s", wallID)
	}
	return snapshots, nil
}

// TrendSince summarizes a wall's quality trend over the window starting at
// since.
func (l *Log) TrendSince(ctx context.Context, wallID string, since time.Time) (Trend, error) {
	const query = `
		SELECT
			COUNT(*) AS sample_count,
			MIN(recorded_at) AS first_recorded_at,
			MAX(recorded_at) AS last_recorded_at,
			AVG(geometric_accuracy) AS avg_geometric_accuracy,
			AVG(architectural_compliance) AS avg_architectural_score,
			MAX(issue_count) AS worst_issue_count
		FROM wallgeom_quality_snapshots
		WHERE wall_id = $1 AND recorded_at >= $2
	`
	var row struct {
		SampleCount          int        `db:"sample_count"`
		FirstRecordedAt      *time.Time `db:"first_recorded_at"`
		LastRecordedAt       *time.Time `db:"last_recorded_at"`
		AvgGeometricAccuracy *float64   `db:"avg_geometric_accuracy"`
		AvgArchitecturalScore *float64  `db:"avg_architectural_score"`
		WorstIssueCount      *int       `db:"worst_issue_count"`
	}
	if err := l.db.GetContext(ctx, &row, query, wallID, since); err != nil {
		return Trend{}, errs.Wrap(component, errs.NumericalFailure, err, "failed to compute quality trend for wall %s", wallID)
	}

	trend := Trend{WallID: wallID, SampleCount: row.SampleCount}
	if row.FirstRecordedAt != nil {
		trend.FirstRecordedAt = *row.FirstRecordedAt
	}
	if row.LastRecordedAt != nil {
		trend.LastRecordedAt = *row.LastRecordedAt
	}
	if row.AvgGeometricAccuracy != nil {
		trend.AverageGeometricAccuracy = *row.AvgGeometricAccuracy
	}
	if row.AvgArchitecturalScore != nil {
		trend.AverageArchitecturalScore = *row.AvgArchitecturalScore
	}
	if row.WorstIssueCount != nil {
		trend.WorstIssueCount = *row.WorstIssueCount
	}
	return trend, nil
}

// Close closes the underlying connection pool.
func (l *Log) Close() error {
	return l.db.Close()
}
