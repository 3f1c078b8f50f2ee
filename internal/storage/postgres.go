package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/halentin/FMI-Viewer/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// PostgresStore implements storage using PostgreSQL (shared team catalog).
// Platforms and dimensions are stored as TEXT[] columns.
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// Array columns are flattened back to comma-separated text on read.
const (
	pgModelColumns = `id, path, sha256, fmi_version, model_name, guid, generation_tool,
		array_to_string(platforms, ',') AS platforms, variable_count, inspected_at`
	pgVariableColumns = `v.model_id, v.position, v.name, v.value_reference, v.type, v.causality,
		v.variability, v.unit, v.description, array_to_string(v.dimensions, ',') AS dimensions`
)

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{
		db:     db,
		logger: logger,
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS models (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		sha256 TEXT NOT NULL UNIQUE,
		fmi_version TEXT,
		model_name TEXT,
		guid TEXT,
		generation_tool TEXT,
		platforms TEXT[] NOT NULL DEFAULT '{}',
		variable_count INTEGER,
		inspected_at TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS variables (
		model_id TEXT NOT NULL REFERENCES models(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		value_reference TEXT,
		type TEXT,
		causality TEXT,
		variability TEXT,
		unit TEXT,
		description TEXT,
		dimensions TEXT[] NOT NULL DEFAULT '{}',
		PRIMARY KEY (model_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_variables_name ON variables(lower(name));
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) SaveModel(ctx context.Context, path, sha256 string, result *models.ParseResult) (*models.CatalogModel, error) {
	model, vars := newRecords(path, sha256, result)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.GetContext(ctx, &existing, `SELECT id FROM models WHERE sha256 = $1`, sha256)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup model: %w", err)
	}
	assignModelID(model, vars, existing)

	if existing != "" {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variables WHERE model_id = $1`, existing); err != nil {
			return nil, fmt.Errorf("delete variables: %w", err)
		}
	}

	query := `
		INSERT INTO models (id, path, sha256, fmi_version, model_name, guid,
			generation_tool, platforms, variable_count, inspected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			path = EXCLUDED.path,
			fmi_version = EXCLUDED.fmi_version,
			model_name = EXCLUDED.model_name,
			guid = EXCLUDED.guid,
			generation_tool = EXCLUDED.generation_tool,
			platforms = EXCLUDED.platforms,
			variable_count = EXCLUDED.variable_count,
			inspected_at = EXCLUDED.inspected_at
	`
	_, err = tx.ExecContext(ctx, query,
		model.ID, model.Path, model.SHA256, model.FMIVersion, model.ModelName, model.GUID,
		model.GenerationTool, pq.Array(result.Platforms), model.VariableCount, model.InspectedAt)
	if err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}

	varQuery := `
		INSERT INTO variables (model_id, position, name, value_reference, type,
			causality, variability, unit, description, dimensions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i, v := range vars {
		dims := result.Variables[i].Dimensions
		if dims == nil {
			dims = []string{}
		}
		_, err := tx.ExecContext(ctx, varQuery,
			v.ModelID, v.Position, v.Name, v.ValueReference, v.Type,
			v.Causality, v.Variability, v.Unit, v.Description, pq.Array(dims))
		if err != nil {
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

func (s *PostgresStore) GetModel(ctx context.Context, id string) (*models.CatalogModel, []models.CatalogVariable, error) {
	var model models.CatalogModel
	err := s.db.GetContext(ctx, &model, `SELECT `+pgModelColumns+` FROM models WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get model: %w", err)
	}

	vars := []models.CatalogVariable{}
	query := `SELECT ` + pgVariableColumns + ` FROM variables v WHERE v.model_id = $1 ORDER BY v.position`
	if err := s.db.SelectContext(ctx, &vars, query, id); err != nil {
		return nil, nil, fmt.Errorf("get variables: %w", err)
	}

	return &model, vars, nil
}

func (s *PostgresStore) ListModels(ctx context.Context, limit int) ([]models.CatalogModel, error) {
	list := []models.CatalogModel{}
	query := `SELECT ` + pgModelColumns + ` FROM models ORDER BY inspected_at DESC, model_name LIMIT $1`
	if err := s.db.SelectContext(ctx, &list, query, listLimit(limit)); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) SearchVariables(ctx context.Context, substr string, limit int) ([]models.VariableMatch, error) {
	matches := []models.VariableMatch{}
	query := `
		SELECT ` + pgVariableColumns + `, m.model_name, m.path
		FROM variables v
		JOIN models m ON m.id = v.model_id
		WHERE v.name ILIKE $1::text ESCAPE '\'
		ORDER BY m.model_name, v.position
		LIMIT $2
	`
	if err := s.db.SelectContext(ctx, &matches, query, containsPattern(substr), listLimit(limit)); err != nil {
		return nil, fmt.Errorf("search variables: %w", err)
	}
	return matches, nil
}
