package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore implements storage using SQLite (the default local catalog)
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	// Enable foreign keys and WAL mode for better concurrency
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	// Initialize schema
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		sha256 TEXT NOT NULL UNIQUE,
		fmi_version TEXT,
		model_name TEXT,
		guid TEXT,
		generation_tool TEXT,
		platforms TEXT,
		variable_count INTEGER,
		inspected_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS variables (
		model_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		value_reference TEXT,
		type TEXT,
		causality TEXT,
		variability TEXT,
		unit TEXT,
		description TEXT,
		dimensions TEXT,
		PRIMARY KEY (model_id, position),
		FOREIGN KEY (model_id) REFERENCES models(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_variables_name ON variables(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveModel(ctx context.Context, path, sha256 string, result *models.ParseResult) (*models.CatalogModel, error) {
	model, vars := newRecords(path, sha256, result)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.GetContext(ctx, &existing, `SELECT id FROM models WHERE sha256 = ?`, sha256)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup model: %w", err)
	}
	assignModelID(model, vars, existing)

	if existing != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variables WHERE model_id = ?`, existing); err != nil {
			return nil, fmt.Errorf("delete variables: %w", err)
		}
	}

	query := `
		INSERT INTO models (id, path, sha256, fmi_version, model_name, guid,
			generation_tool, platforms, variable_count, inspected_at)
		VALUES (:id, :path, :sha256, :fmi_version, :model_name, :guid,
			:generation_tool, :platforms, :variable_count, :inspected_at)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			fmi_version = excluded.fmi_version,
			model_name = excluded.model_name,
			guid = excluded.guid,
			generation_tool = excluded.generation_tool,
			platforms = excluded.platforms,
			variable_count = excluded.variable_count,
			inspected_at = excluded.inspected_at
	`
	if _, err := tx.NamedExecContext(ctx, query, model); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}

	varQuery := `
		INSERT INTO variables (model_id, position, name, value_reference, type,
			causality, variability, unit, description, dimensions)
		VALUES (:model_id, :position, :name, :value_reference, :type,
			:causality, :variability, :unit, :description, :dimensions)
	`
	for _, v := range vars {
		if _, err := tx.NamedExecContext(ctx, varQuery, v); err != nil {
			return nil, fmt.Errorf("save variable %s: %w", v.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":        model.ID,
		"model":     model.ModelName,
		"variables": len(vars),
	}).Debug("Saved model to catalog")

	return model, nil
}

func (s *SQLiteStore) GetModel(ctx context.Context, id string) (*models.CatalogModel, []models.CatalogVariable, error) {
	var model models.CatalogModel
	err := s.db.GetContext(ctx, &model, `SELECT * FROM models WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get model: %w", err)
	}

	vars := []models.CatalogVariable{}
	err = s.db.SelectContext(ctx, &vars, `SELECT * FROM variables WHERE model_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get variables: %w", err)
	}

	return &model, vars, nil
}

func (s *SQLiteStore) ListModels(ctx context.Context, limit int) ([]models.CatalogModel, error) {
	list := []models.CatalogModel{}
	err := s.db.SelectContext(ctx, &list,
		`SELECT * FROM models ORDER BY inspected_at DESC, model_name LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return list, nil
}

func (s *SQLiteStore) SearchVariables(ctx context.Context, substr string, limit int) ([]models.VariableMatch, error) {
	matches := []models.VariableMatch{}
	query := `
		SELECT v.*, m.model_name, m.path
		FROM variables v
		JOIN models m ON m.id = v.model_id
		WHERE lower(v.name) LIKE lower(?) ESCAPE '\'
		ORDER BY m.model_name, v.position
		LIMIT ?
	`
	if err := s.db.SelectContext(ctx, &matches, query, containsPattern(substr), listLimit(limit)); err != nil {
		return nil, fmt.Errorf("search variables: %w", err)
	}
	return matches, nil
}
