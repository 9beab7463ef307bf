/*
Package sqlite provides a SQLite-backed implementation of the roster
collaborator interfaces.

PURPOSE:
  Persists everything a generation run reads (physicians, availability,
  leave, fixed rotations, coverage) and what it writes (rosters). Implements
  roster.Store so the Generator can run against it directly.

KEY TABLES:
  physicians:     Registry records; rowid order is the registry order
  availability:   One row per (physician, year, month), days as JSON
  leave_periods:  Leave and permits; overlaps rejected on insert
  rotations:      Fixed rotations (sequence as JSON)
  coverage:       Per-environment requirements per (box, band)
  rosters:        Generated rosters, unique per (environment, year, month)

MISSING ROWS:
  Lookups return (nil, nil) when nothing is stored. Only I/O failures
  are errors.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In-memory databases are limited to a
  single connection since every new connection would open an empty database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  gen := roster.NewGenerator(store, roster.NewBuilder(nil), roster.GeneratorOptions{})

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - roster/store.go: Interface definitions
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/roster-engine/leave"
	"github.com/warp/roster-engine/roster"
)

const dateLayout = "2006-01-02"

// Store implements roster.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = dbPath + "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Physician registry
	CREATE TABLE IF NOT EXISTS physicians (
		id TEXT PRIMARY KEY,
		environment_id TEXT NOT NULL,
		name TEXT NOT NULL,
		surname TEXT,
		specialization TEXT,
		competencies_json TEXT NOT NULL,
		min_hours INTEGER DEFAULT 0,
		max_hours INTEGER DEFAULT 0,
		fixed_hours INTEGER DEFAULT 0,
		priority TEXT,
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_physicians_environment
		ON physicians(environment_id);

	-- Monthly availability declarations
	CREATE TABLE IF NOT EXISTS availability (
		physician_id TEXT NOT NULL REFERENCES physicians(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		environment_id TEXT NOT NULL,
		days_json TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (physician_id, year, month)
	);

	-- Leave and permits
	CREATE TABLE IF NOT EXISTS leave_periods (
		id TEXT PRIMARY KEY,
		physician_id TEXT NOT NULL REFERENCES physicians(id) ON DELETE CASCADE,
		environment_id TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		kind TEXT NOT NULL,
		daily_hours TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_physician_dates
		ON leave_periods(physician_id, start_date, end_date);

	-- Fixed rotations
	CREATE TABLE IF NOT EXISTS rotations (
		id TEXT PRIMARY KEY,
		physician_id TEXT NOT NULL REFERENCES physicians(id) ON DELETE CASCADE,
		environment_id TEXT NOT NULL,
		sequence_json TEXT NOT NULL,
		start_date TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rotations_environment
		ON rotations(environment_id);

	-- Coverage requirements
	CREATE TABLE IF NOT EXISTS coverage (
		environment_id TEXT NOT NULL,
		box INTEGER NOT NULL,
		band TEXT NOT NULL,
		required INTEGER NOT NULL,
		PRIMARY KEY (environment_id, box, band)
	);

	-- Generated rosters
	CREATE TABLE IF NOT EXISTS rosters (
		id TEXT PRIMARY KEY,
		environment_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		cells_json TEXT NOT NULL,
		assignments_json TEXT NOT NULL,
		statistics_json TEXT NOT NULL,
		parameters_json TEXT NOT NULL,
		strategy TEXT,
		generated_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- At most one roster per key; SaveRoster upserts on it
	CREATE UNIQUE INDEX IF NOT EXISTS idx_rosters_key
		ON rosters(environment_id, year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// withTx runs fn in a database transaction. Caller holds s.mu.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// PHYSICIAN REGISTRY
// =============================================================================

// SavePhysician inserts or updates a physician. A missing ID is generated.
func (s *Store) SavePhysician(ctx context.Context, p roster.Physician) (roster.Physician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = roster.PhysicianID(uuid.NewString())
	}
	competencies, err := json.Marshal(competencyList(p.Competencies))
	if err != nil {
		return p, err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO physicians (id, environment_id, name, surname, specialization, competencies_json,
			min_hours, max_hours, fixed_hours, priority, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			environment_id = excluded.environment_id,
			name = excluded.name,
			surname = excluded.surname,
			specialization = excluded.specialization,
			competencies_json = excluded.competencies_json,
			min_hours = excluded.min_hours,
			max_hours = excluded.max_hours,
			fixed_hours = excluded.fixed_hours,
			priority = excluded.priority,
			note = excluded.note,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		string(p.ID), p.EnvironmentID, p.Name, p.Surname, p.Specialization, string(competencies),
		p.MinHours, p.MaxHours, boolToInt(p.FixedHours), string(p.Priority), p.Note, now, now,
	)
	return p, err
}

const physicianColumns = `id, environment_id, name, surname, specialization, competencies_json,
	min_hours, max_hours, fixed_hours, priority, note`

// GetPhysician returns a physician or nil.
func (s *Store) GetPhysician(ctx context.Context, id roster.PhysicianID) (*roster.Physician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+physicianColumns+" FROM physicians WHERE id = ?", string(id))
	p, err := scanPhysician(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPhysicians returns the physicians of an environment (all when empty)
// in insertion order.
func (s *Store) ListPhysicians(ctx context.Context, environmentID string) ([]roster.Physician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + physicianColumns + " FROM physicians"
	var args []any
	if environmentID != "" {
		query += " WHERE environment_id = ?"
		args = append(args, environmentID)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Physician
	for rows.Next() {
		p, err := scanPhysician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePhysician removes a physician with its availability, leave and rotations.
func (s *Store) DeletePhysician(ctx context.Context, id roster.PhysicianID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM physicians WHERE id = ?", string(id))
	return err
}

// ListEnvironments returns every environment that has physicians.
func (s *Store) ListEnvironments(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT environment_id FROM physicians ORDER BY environment_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var envs []string
	for rows.Next() {
		var env string
		if err := rows.Scan(&env); err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPhysician(row scanner) (roster.Physician, error) {
	var p roster.Physician
	var id, competencies, priority string
	var surname, specialization, note sql.NullString
	var fixed int
	if err := row.Scan(&id, &p.EnvironmentID, &p.Name, &surname, &specialization, &competencies,
		&p.MinHours, &p.MaxHours, &fixed, &priority, &note); err != nil {
		return p, err
	}
	p.ID = roster.PhysicianID(id)
	p.Surname = surname.String
	p.Specialization = specialization.String
	p.Note = note.String
	p.FixedHours = fixed != 0
	p.Priority = roster.Priority(priority)

	var boxes []int
	if err := json.Unmarshal([]byte(competencies), &boxes); err != nil {
		return p, fmt.Errorf("physician %s: competencies: %w", id, err)
	}
	p.Competencies = make(map[roster.Box]bool, len(boxes))
	for _, b := range boxes {
		p.Competencies[roster.Box(b)] = true
	}
	return p, nil
}

// competencyList stores competencies as a sorted list of box numbers.
func competencyList(m map[roster.Box]bool) []int {
	out := []int{}
	for _, b := range roster.Boxes() {
		if m[b] {
			out = append(out, int(b))
		}
	}
	return out
}

// =============================================================================
// AVAILABILITY STORE
// =============================================================================

// SaveAvailability replaces a physician's declaration for one month.
func (s *Store) SaveAvailability(ctx context.Context, rec roster.AvailabilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, err := json.Marshal(rec.Days)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO availability (physician_id, year, month, environment_id, days_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(physician_id, year, month) DO UPDATE SET
			environment_id = excluded.environment_id,
			days_json = excluded.days_json,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		string(rec.PhysicianID), rec.Year, int(rec.Month), rec.EnvironmentID, string(days),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetAvailability returns the declaration or nil.
func (s *Store) GetAvailability(ctx context.Context, id roster.PhysicianID, year int, month time.Month) (*roster.AvailabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := roster.AvailabilityRecord{PhysicianID: id, Year: year, Month: month}
	var days string
	err := s.db.QueryRowContext(ctx,
		"SELECT environment_id, days_json FROM availability WHERE physician_id = ? AND year = ? AND month = ?",
		string(id), year, int(month),
	).Scan(&rec.EnvironmentID, &days)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(days), &rec.Days); err != nil {
		return nil, fmt.Errorf("availability %s %d-%02d: %w", id, year, month, err)
	}
	return &rec, nil
}

// =============================================================================
// LEAVE STORE
// =============================================================================

// AddLeave validates and stores a leave period. Overlaps with the
// physician's existing leave fail with *leave.OverlapError.
func (s *Store) AddLeave(ctx context.Context, p leave.Period) (leave.Period, error) {
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := queryLeave(ctx, tx, "WHERE physician_id = ?", p.PhysicianID)
		if err != nil {
			return err
		}
		if err := leave.CheckOverlap(existing, p); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO leave_periods (id, physician_id, environment_id, start_date, end_date, kind, daily_hours, note, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.PhysicianID, p.EnvironmentID,
			p.Start.Format(dateLayout), p.End.Format(dateLayout),
			string(p.Kind), p.DailyHours.String(), p.Note,
			time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
	return p, err
}

// GetLeavePeriods returns a physician's leave ordered by start date.
func (s *Store) GetLeavePeriods(ctx context.Context, id roster.PhysicianID) ([]leave.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryLeave(ctx, s.db, "WHERE physician_id = ?", string(id))
}

// DeleteLeave removes a leave period. Reports whether a row was deleted.
func (s *Store) DeleteLeave(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM leave_periods WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryLeave(ctx context.Context, db querier, where string, args ...any) ([]leave.Period, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, physician_id, environment_id, start_date, end_date, kind, daily_hours, note
		FROM leave_periods `+where+` ORDER BY start_date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.Period
	for rows.Next() {
		var p leave.Period
		var env, note sql.NullString
		var start, end, kind, hours string
		if err := rows.Scan(&p.ID, &p.PhysicianID, &env, &start, &end, &kind, &hours, &note); err != nil {
			return nil, err
		}
		p.EnvironmentID = env.String
		p.Note = note.String
		p.Kind = leave.Kind(kind)
		p.Start, _ = time.Parse(dateLayout, start)
		p.End, _ = time.Parse(dateLayout, end)
		if p.DailyHours, err = decimal.NewFromString(hours); err != nil {
			return nil, fmt.Errorf("leave %s: daily hours: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// ROTATION STORE
// =============================================================================

// SaveRotation inserts or updates a fixed rotation. A missing ID is generated.
func (s *Store) SaveRotation(ctx context.Context, fr roster.FixedRotation) (roster.FixedRotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fr.ID == "" {
		fr.ID = uuid.NewString()
	}
	seq, err := json.Marshal(fr.Sequence)
	if err != nil {
		return fr, err
	}
	var start any
	if !fr.StartDate.IsZero() {
		start = fr.StartDate.Format(dateLayout)
	}

	query := `
		INSERT INTO rotations (id, physician_id, environment_id, sequence_json, start_date, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			physician_id = excluded.physician_id,
			environment_id = excluded.environment_id,
			sequence_json = excluded.sequence_json,
			start_date = excluded.start_date,
			active = excluded.active,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		fr.ID, string(fr.PhysicianID), fr.EnvironmentID, string(seq), start, boolToInt(fr.Active),
		time.Now().UTC().Format(time.RFC3339),
	)
	return fr, err
}

// ListRotations returns the rotations of an environment (all when empty).
func (s *Store) ListRotations(ctx context.Context, environmentID string) ([]roster.FixedRotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, physician_id, environment_id, sequence_json, start_date, active FROM rotations"
	var args []any
	if environmentID != "" {
		query += " WHERE environment_id = ?"
		args = append(args, environmentID)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.FixedRotation
	for rows.Next() {
		var fr roster.FixedRotation
		var physicianID, seq string
		var start sql.NullString
		var active int
		if err := rows.Scan(&fr.ID, &physicianID, &fr.EnvironmentID, &seq, &start, &active); err != nil {
			return nil, err
		}
		fr.PhysicianID = roster.PhysicianID(physicianID)
		fr.Active = active != 0
		if start.Valid {
			fr.StartDate, _ = time.Parse(dateLayout, start.String)
		}
		if err := json.Unmarshal([]byte(seq), &fr.Sequence); err != nil {
			return nil, fmt.Errorf("rotation %s: %w", fr.ID, err)
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// =============================================================================
// COVERAGE CONFIG
// =============================================================================

// SetCoverage replaces the requirements of an environment.
func (s *Store) SetCoverage(ctx context.Context, environmentID string, cv roster.Coverage) error {
	if err := cv.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM coverage WHERE environment_id = ?", environmentID); err != nil {
			return err
		}
		for _, req := range cv {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO coverage (environment_id, box, band, required) VALUES (?, ?, ?, ?)",
				environmentID, int(req.Box), string(req.Band), req.Required,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCoverageRequirements returns the stored requirements in box/band
// order, or nil when the environment has none.
func (s *Store) GetCoverageRequirements(ctx context.Context, environmentID string) (roster.Coverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT box, band, required FROM coverage WHERE environment_id = ?", environmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stored := make(map[roster.Cell]int)
	for rows.Next() {
		var box, required int
		var band string
		if err := rows.Scan(&box, &band, &required); err != nil {
			return nil, err
		}
		stored[roster.Cell{Box: roster.Box(box), Band: roster.Band(band)}] = required
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, nil
	}

	var cv roster.Coverage
	for _, b := range roster.Boxes() {
		for _, band := range roster.Bands() {
			if n, ok := stored[roster.Cell{Box: b, Band: band}]; ok {
				cv = append(cv, roster.CoverageRequirement{Box: b, Band: band, Required: n})
			}
		}
	}
	return cv, nil
}

// =============================================================================
// ROSTER SINK
// =============================================================================

// SaveRoster upserts a roster on (environment, year, month). The stored ID
// and generation time of an existing row are kept.
func (s *Store) SaveRoster(ctx context.Context, rec roster.RosterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	cells, err := json.Marshal(rec.Cells)
	if err != nil {
		return err
	}
	assignments, err := json.Marshal(rec.Assignments)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(rec.Statistics)
	if err != nil {
		return err
	}
	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rosters (id, environment_id, year, month, cells_json, assignments_json,
			statistics_json, parameters_json, strategy, generated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(environment_id, year, month) DO UPDATE SET
			cells_json = excluded.cells_json,
			assignments_json = excluded.assignments_json,
			statistics_json = excluded.statistics_json,
			parameters_json = excluded.parameters_json,
			strategy = excluded.strategy,
			generated_at = excluded.generated_at,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.EnvironmentID, rec.Year, int(rec.Month),
		string(cells), string(assignments), string(stats), string(params), rec.Strategy,
		rec.GeneratedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadRoster returns the stored roster or nil.
func (s *Store) LoadRoster(ctx context.Context, year int, month time.Month, environmentID string) (*roster.RosterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := roster.RosterRecord{Year: year, Month: month, EnvironmentID: environmentID}
	var cells, assignments, stats, params, generatedAt, updatedAt string
	var strategy sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, cells_json, assignments_json, statistics_json, parameters_json, strategy, generated_at, updated_at
		FROM rosters WHERE environment_id = ? AND year = ? AND month = ?`,
		environmentID, year, int(month),
	).Scan(&rec.ID, &cells, &assignments, &stats, &params, &strategy, &generatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		data string
		into any
	}{
		{cells, &rec.Cells},
		{assignments, &rec.Assignments},
		{stats, &rec.Statistics},
		{params, &rec.Parameters},
	} {
		if err := json.Unmarshal([]byte(f.data), f.into); err != nil {
			return nil, fmt.Errorf("roster %s: %w", rec.ID, err)
		}
	}
	rec.Strategy = strategy.String
	rec.GeneratedAt, _ = time.Parse(time.RFC3339Nano, generatedAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &rec, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes all data (for scenario loading and tests).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"rosters", "coverage", "rotations", "leave_periods", "availability", "physicians"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
