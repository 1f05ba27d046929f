// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"diet-optimizer/internal/models"
)

const (
	defaultRunLimit = 20
	// Fixed-width UTC timestamps keep text ordering chronological.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    PRAGMA foreign_keys = ON;

    CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        scenario_name TEXT NOT NULL,
        scenario TEXT NOT NULL,
        status TEXT NOT NULL,
        backend TEXT NOT NULL,
        cost_per_day REAL NOT NULL,
        calories REAL NOT NULL,
        calculated_calories REAL NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS allocations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        food_id TEXT NOT NULL,
        name TEXT NOT NULL,
        calories REAL NOT NULL,
        servings REAL NOT NULL,
        grams REAL NOT NULL,
        cost_per_day REAL NOT NULL,
        FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
    CREATE INDEX IF NOT EXISTS idx_allocations_run_id ON allocations(run_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveRun stores the run and its allocations in one transaction. An
// empty ID is replaced with a new UUID and a zero CreatedAt with now.
func (s *SQLiteStorage) SaveRun(run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	scenario := string(run.Scenario)
	if scenario == "" {
		scenario = "{}"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	runQuery := `
        INSERT INTO runs (id, scenario_name, scenario, status, backend, cost_per_day, calories, calculated_calories, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = tx.Exec(runQuery,
		run.ID, run.ScenarioName, scenario, run.Status, run.Backend,
		run.CostPerDay, run.Calories, run.CalculatedCalories,
		run.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	allocQuery := `
        INSERT INTO allocations (run_id, food_id, name, calories, servings, grams, cost_per_day)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	for _, a := range run.Allocations {
		_, err = tx.Exec(allocQuery,
			run.ID, string(a.Food), a.Name, a.Calories, a.Servings, a.Grams, a.CostPerDay)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %w", err)
		}
	}

	return tx.Commit()
}

// GetRuns returns runs created in [since, until], newest first. Zero
// times leave that side open; a non-positive limit uses the default.
func (s *SQLiteStorage) GetRuns(since, until time.Time, limit int) ([]*models.Run, error) {
	query := `
        SELECT id, scenario_name, scenario, status, backend, cost_per_day, calories, calculated_calories, created_at
        FROM runs
        WHERE 1=1
    `
	args := []interface{}{}

	if !since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, since.UTC().Format(timeLayout))
	}
	if !until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, until.UTC().Format(timeLayout))
	}
	if limit <= 0 {
		limit = defaultRunLimit
	}

	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run := &models.Run{}
		var scenario, createdAtStr string

		err := rows.Scan(
			&run.ID, &run.ScenarioName, &scenario, &run.Status, &run.Backend,
			&run.CostPerDay, &run.Calories, &run.CalculatedCalories, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Scenario = []byte(scenario)

		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	rows.Close()

	for _, run := range runs {
		if err := s.loadAllocations(run); err != nil {
			return nil, fmt.Errorf("failed to load allocations for run %s: %w", run.ID, err)
		}
	}

	return runs, nil
}

func (s *SQLiteStorage) loadAllocations(run *models.Run) error {
	query := `
        SELECT food_id, name, calories, servings, grams, cost_per_day
        FROM allocations
        WHERE run_id = ?
        ORDER BY id
    `

	rows, err := s.db.Query(query, run.ID)
	if err != nil {
		return fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []models.Allocation
	for rows.Next() {
		var a models.Allocation
		var foodID string

		err := rows.Scan(&foodID, &a.Name, &a.Calories, &a.Servings, &a.Grams, &a.CostPerDay)
		if err != nil {
			return fmt.Errorf("failed to scan allocation: %w", err)
		}

		a.Food = models.FoodID(foodID)
		allocations = append(allocations, a)
	}

	run.Allocations = allocations
	return rows.Err()
}
