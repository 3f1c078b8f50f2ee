package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/models"
	"github.com/sirupsen/logrus"
)

// Common errors
var (
	ErrNotFound = errors.New("not found")
)

// DefaultListLimit caps list and search queries when the caller passes limit <= 0.
const DefaultListLimit = 100

// Store defines the catalog storage interface
type Store interface {
	// SaveModel records an inspected archive. Saving the same archive content
	// again replaces the previous record and keeps its ID.
	SaveModel(ctx context.Context, path, sha256 string, result *models.ParseResult) (*models.CatalogModel, error)
	GetModel(ctx context.Context, id string) (*models.CatalogModel, []models.CatalogVariable, error)
	ListModels(ctx context.Context, limit int) ([]models.CatalogModel, error)
	// SearchVariables finds variables whose name contains substr, case-insensitively.
	SearchVariables(ctx context.Context, substr string, limit int) ([]models.VariableMatch, error)

	// Close connection
	Close() error
}

// Open connects to the catalog backend named by driver ("sqlite" or "postgres").
func Open(driver, sqlitePath, dsn string, logger *logrus.Logger) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLiteStore(sqlitePath, logger)
	case "postgres":
		if dsn == "" {
			return nil, fmierrors.ConfigError("postgres catalog requires a DSN (catalog.postgres_dsn or DATABASE_URL)")
		}
		return NewPostgresStore(dsn, logger)
	default:
		return nil, fmierrors.ConfigErrorf("unknown catalog driver %q", driver)
	}
}

// newRecords flattens a parse result into catalog rows. The model ID is left
// empty for the store to assign.
func newRecords(path, sha256 string, result *models.ParseResult) (*models.CatalogModel, []models.CatalogVariable) {
	model := &models.CatalogModel{
		Path:           path,
		SHA256:         sha256,
		FMIVersion:     result.FMIVersion,
		ModelName:      result.ModelName,
		GUID:           result.GUID,
		GenerationTool: result.GenerationTool,
		Platforms:      strings.Join(result.Platforms, ","),
		VariableCount:  len(result.Variables),
		InspectedAt:    time.Now().UTC().Truncate(time.Second),
	}

	vars := make([]models.CatalogVariable, 0, len(result.Variables))
	for i, v := range result.Variables {
		vars = append(vars, models.CatalogVariable{
			Position:       i,
			Name:           v.Name,
			ValueReference: v.ValueReference,
			Type:           v.Type,
			Causality:      v.Causality,
			Variability:    v.Variability,
			Unit:           v.Unit,
			Description:    v.Description,
			Dimensions:     strings.Join(v.Dimensions, ","),
		})
	}
	return model, vars
}

func assignModelID(model *models.CatalogModel, vars []models.CatalogVariable, existing string) {
	if existing == "" {
		existing = uuid.New().String()
	}
	model.ID = existing
	for i := range vars {
		vars[i].ModelID = existing
	}
}

// likeEscaper escapes LIKE wildcards; queries pair it with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches substr literally anywhere in a LIKE operand.
func containsPattern(substr string) string {
	return "%" + likeEscaper.Replace(substr) + "%"
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
