/*
Package sqlite provides a SQLite-backed implementation of study.Store.

PURPOSE:
  Persists reserve studies (property info, financial inputs, funding policies
  and the component inventory) so projections can be re-run after restarts.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  study.Store: Study, policy and component persistence

KEY TABLES:
  studies:          One row per study (property + financial inputs)
  funding_policies: Named annual contributions, ordered by position
  components:       Inventory rows, ordered by position

ORDERING:
  Policies and components carry a position column. The engine's category
  totals follow inventory order, so the store must hand back components in
  the order they were saved. New components are appended after the current
  maximum position; updated components keep theirs.

MONEY:
  All amounts are stored as TEXT decimal strings and parsed back with
  shopspring/decimal. REAL would lose cents on large balances.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/reserve.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := study.NewService(store, reserve.Engine{}, logger)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - study/store.go: Interface definition
  - study/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
)

// Store implements study.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ study.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
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
	CREATE TABLE IF NOT EXISTS studies (
		id TEXT PRIMARY KEY,
		property_name TEXT NOT NULL,
		address TEXT,
		construction_year INTEGER DEFAULT 0,
		building_count INTEGER DEFAULT 0,
		total_units INTEGER DEFAULT 0,
		last_inspection TEXT,
		starting_balance TEXT NOT NULL,
		start_year INTEGER NOT NULL,
		horizon_years INTEGER NOT NULL,
		selected_policy TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_studies_name
		ON studies(property_name);

	CREATE TABLE IF NOT EXISTS funding_policies (
		study_id TEXT NOT NULL REFERENCES studies(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		annual_contribution TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (study_id, name)
	);

	CREATE TABLE IF NOT EXISTS components (
		study_id TEXT NOT NULL REFERENCES studies(id) ON DELETE CASCADE,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		quantity TEXT,
		unit TEXT,
		useful_life INTEGER DEFAULT 0,
		remaining_life REAL NOT NULL,
		replacement_cost TEXT NOT NULL,
		condition TEXT,
		last_replaced TEXT,
		position INTEGER NOT NULL,
		PRIMARY KEY (study_id, id)
	);

	-- Inventory reads are always per study, in saved order
	CREATE INDEX IF NOT EXISTS idx_components_study_position
		ON components(study_id, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// STUDIES
// =============================================================================

// SaveStudy upserts the study row and replaces its policies and components.
func (s *Store) SaveStudy(ctx context.Context, st study.Study) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO studies
		(id, property_name, address, construction_year, building_count, total_units,
		 last_inspection, starting_balance, start_year, horizon_years, selected_policy,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_name = excluded.property_name,
			address = excluded.address,
			construction_year = excluded.construction_year,
			building_count = excluded.building_count,
			total_units = excluded.total_units,
			last_inspection = excluded.last_inspection,
			starting_balance = excluded.starting_balance,
			start_year = excluded.start_year,
			horizon_years = excluded.horizon_years,
			selected_policy = excluded.selected_policy,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		st.ID,
		st.Property.Name,
		nullString(st.Property.Address),
		st.Property.ConstructionYear,
		st.Property.BuildingCount,
		st.Property.TotalUnits,
		nullTime(st.Property.LastInspection),
		st.StartingBalance.String(),
		st.StartYear,
		st.HorizonYears,
		nullString(st.SelectedPolicy),
		formatTime(st.CreatedAt),
		formatTime(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save study: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM funding_policies WHERE study_id = ?", st.ID); err != nil {
		return fmt.Errorf("failed to clear policies: %w", err)
	}
	for i, p := range st.Policies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO funding_policies (study_id, name, annual_contribution, position)
			VALUES (?, ?, ?, ?)
		`, st.ID, p.Name, p.AnnualContribution.String(), i)
		if err != nil {
			return fmt.Errorf("failed to save policy %s: %w", p.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM components WHERE study_id = ?", st.ID); err != nil {
		return fmt.Errorf("failed to clear components: %w", err)
	}
	for i, c := range st.Components {
		if err := insertComponent(ctx, tx, st.ID, c, i); err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("%w: %s", study.ErrDuplicateComponent, c.ID)
			}
			return err
		}
	}

	return tx.Commit()
}

// GetStudy loads a study with its policies and components in saved order.
func (s *Store) GetStudy(ctx context.Context, id string) (*study.Study, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, property_name, address, construction_year, building_count, total_units,
		       last_inspection, starting_balance, start_year, horizon_years, selected_policy,
		       created_at, updated_at
		FROM studies WHERE id = ?
	`
	var st study.Study
	var address, lastInspection, selected sql.NullString
	var balance, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID, &st.Property.Name, &address, &st.Property.ConstructionYear,
		&st.Property.BuildingCount, &st.Property.TotalUnits, &lastInspection,
		&balance, &st.StartYear, &st.HorizonYears, &selected, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, study.ErrStudyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load study: %w", err)
	}

	st.Property.Address = address.String
	st.SelectedPolicy = selected.String
	if lastInspection.Valid {
		st.Property.LastInspection, _ = time.Parse(time.RFC3339, lastInspection.String)
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	st.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if st.StartingBalance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("study %s: bad starting balance %q: %w", id, balance, err)
	}

	if st.Policies, err = s.loadPolicies(ctx, id); err != nil {
		return nil, err
	}
	if st.Components, err = s.loadComponents(ctx, id); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStudies returns study summaries ordered by property name.
func (s *Store) ListStudies(ctx context.Context) ([]study.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT s.id, s.property_name, s.address, s.start_year, s.horizon_years, s.updated_at,
		       (SELECT COUNT(*) FROM components c WHERE c.study_id = s.id)
		FROM studies s
		ORDER BY s.property_name, s.id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []study.Summary{}
	for rows.Next() {
		var sum study.Summary
		var address sql.NullString
		var updatedAt string
		if err := rows.Scan(&sum.ID, &sum.Name, &address, &sum.StartYear, &sum.HorizonYears, &updatedAt, &sum.ComponentCount); err != nil {
			return nil, err
		}
		sum.Address = address.String
		sum.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		result = append(result, sum)
	}
	return result, rows.Err()
}

// DeleteStudy removes a study; policies and components cascade.
func (s *Store) DeleteStudy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM studies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return study.ErrStudyNotFound
	}
	return nil
}

// =============================================================================
// INVENTORY
// =============================================================================

// SaveComponent updates the component in place, or appends it to the
// study's inventory.
func (s *Store) SaveComponent(ctx context.Context, studyID string, c reserve.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if ok, err := studyExists(ctx, tx, studyID); err != nil {
		return err
	} else if !ok {
		return study.ErrStudyNotFound
	}

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT position FROM components WHERE study_id = ? AND id = ?", studyID, c.ID,
	).Scan(&position)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(position) + 1, 0) FROM components WHERE study_id = ?", studyID,
		).Scan(&position); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.ExecContext(ctx, "DELETE FROM components WHERE study_id = ? AND id = ?", studyID, c.ID); err != nil {
			return err
		}
	}

	if err := insertComponent(ctx, tx, studyID, c, position); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE studies SET updated_at = ? WHERE id = ?", formatTime(time.Now()), studyID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteComponent removes one component from a study's inventory.
func (s *Store) DeleteComponent(ctx context.Context, studyID, componentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if ok, err := studyExists(ctx, tx, studyID); err != nil {
		return err
	} else if !ok {
		return study.ErrStudyNotFound
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM components WHERE study_id = ? AND id = ?", studyID, componentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return study.ErrComponentNotFound
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE studies SET updated_at = ? WHERE id = ?", formatTime(time.Now()), studyID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"components", "funding_policies", "studies"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func insertComponent(ctx context.Context, db execer, studyID string, c reserve.Component, position int) error {
	query := `
		INSERT INTO components
		(study_id, id, name, category, quantity, unit, useful_life, remaining_life,
		 replacement_cost, condition, last_replaced, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		studyID,
		c.ID,
		c.Name,
		c.Category,
		nullString(c.Quantity),
		nullString(c.Unit),
		c.UsefulLife,
		c.RemainingLife,
		c.ReplacementCost.String(),
		nullString(string(c.Condition)),
		nullString(c.LastReplaced),
		position,
	)
	if err != nil {
		return fmt.Errorf("failed to save component %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) loadPolicies(ctx context.Context, studyID string) ([]reserve.FundingPolicy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, annual_contribution FROM funding_policies
		WHERE study_id = ? ORDER BY position
	`, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []reserve.FundingPolicy
	for rows.Next() {
		var p reserve.FundingPolicy
		var amount string
		if err := rows.Scan(&p.Name, &amount); err != nil {
			return nil, err
		}
		if p.AnnualContribution, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("policy %s: bad contribution %q: %w", p.Name, amount, err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) loadComponents(ctx context.Context, studyID string) ([]reserve.Component, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, quantity, unit, useful_life, remaining_life,
		       replacement_cost, condition, last_replaced
		FROM components WHERE study_id = ? ORDER BY position
	`, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []reserve.Component
	for rows.Next() {
		var c reserve.Component
		var quantity, unit, condition, lastReplaced sql.NullString
		var cost string
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Category, &quantity, &unit, &c.UsefulLife,
			&c.RemainingLife, &cost, &condition, &lastReplaced,
		); err != nil {
			return nil, err
		}
		c.Quantity = quantity.String
		c.Unit = unit.String
		c.Condition = reserve.Condition(condition.String)
		c.LastReplaced = lastReplaced.String
		if c.ReplacementCost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("component %s: bad replacement cost %q: %w", c.ID, cost, err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// Helper functions

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func studyExists(ctx context.Context, db queryer, id string) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM studies WHERE id = ?", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed"))
}
