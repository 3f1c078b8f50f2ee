package tools

import (
	"context"
	"strings"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/models"
)

// Inspector is the extraction backend shared by all tools
type Inspector interface {
	Inspect(ctx context.Context, path string) (*models.ParseResult, error)
}

// InspectTool implements the fmi.inspect tool
type InspectTool struct {
	inspector Inspector
	root      string
}

// NewInspectTool creates a new InspectTool
func NewInspectTool(inspector Inspector, root string) *InspectTool {
	return &InspectTool{inspector: inspector, root: root}
}

func (t *InspectTool) Description() string {
	return "Extract the full model description, platforms and archive entries of an FMU"
}

func (t *InspectTool) GetSchema() map[string]interface{} {
	return pathSchema(nil)
}

// Execute executes the fmi.inspect tool
func (t *InspectTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	result, err := inspectArg(ctx, t.inspector, t.root, args)
	if err != nil {
		return nil, err
	}

	if include, ok := args["include_entries"].(bool); ok && !include {
		trimmed := *result
		trimmed.Entries = []string{}
		return &trimmed, nil
	}
	return result, nil
}

// VariablesTool implements the fmi.variables tool
type VariablesTool struct {
	inspector Inspector
	root      string
}

// NewVariablesTool creates a new VariablesTool
func NewVariablesTool(inspector Inspector, root string) *VariablesTool {
	return &VariablesTool{inspector: inspector, root: root}
}

func (t *VariablesTool) Description() string {
	return "List the variables of an FMU, optionally filtered by causality and name"
}

func (t *VariablesTool) GetSchema() map[string]interface{} {
	return pathSchema(map[string]interface{}{
		"causality": map[string]interface{}{
			"type":        "string",
			"description": "Keep only variables with this causality (input, output, parameter, ...)",
		},
		"name_contains": map[string]interface{}{
			"type":        "string",
			"description": "Keep only variables whose name contains this text (case-insensitive)",
		},
		"limit": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum number of variables to return (0 = all)",
		},
	})
}

// Execute executes the fmi.variables tool
func (t *VariablesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	result, err := inspectArg(ctx, t.inspector, t.root, args)
	if err != nil {
		return nil, err
	}

	causality, _ := args["causality"].(string)
	nameContains, _ := args["name_contains"].(string)
	nameContains = strings.ToLower(nameContains)

	// JSON numbers decode as float64
	limit := 0
	if val, ok := args["limit"].(float64); ok && val > 0 {
		limit = int(val)
	}

	out := &VariablesResult{
		ModelName: result.ModelName,
		Total:     len(result.Variables),
		Variables: []models.Variable{},
	}
	for _, v := range result.Variables {
		if causality != "" && v.Causality != causality {
			continue
		}
		if nameContains != "" && !strings.Contains(strings.ToLower(v.Name), nameContains) {
			continue
		}
		out.Variables = append(out.Variables, v)
		if limit > 0 && len(out.Variables) == limit {
			break
		}
	}
	out.Count = len(out.Variables)
	return out, nil
}

// PlatformsTool implements the fmi.platforms tool
type PlatformsTool struct {
	inspector Inspector
	root      string
}

// NewPlatformsTool creates a new PlatformsTool
func NewPlatformsTool(inspector Inspector, root string) *PlatformsTool {
	return &PlatformsTool{inspector: inspector, root: root}
}

func (t *PlatformsTool) Description() string {
	return "List the binary platforms an FMU ships and whether it carries sources"
}

func (t *PlatformsTool) GetSchema() map[string]interface{} {
	return pathSchema(nil)
}

// Execute executes the fmi.platforms tool
func (t *PlatformsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	result, err := inspectArg(ctx, t.inspector, t.root, args)
	if err != nil {
		return nil, err
	}

	out := &PlatformsResult{
		ModelName:   result.ModelName,
		Platforms:   result.Platforms,
		HasBinaries: len(result.Platforms) > 0,
	}
	for _, e := range result.Entries {
		if strings.HasPrefix(e, "sources/") {
			out.HasSources = true
			break
		}
	}
	return out, nil
}

func inspectArg(ctx context.Context, inspector Inspector, root string, args map[string]interface{}) (*models.ParseResult, error) {
	raw, ok := args["path"].(string)
	if !ok || raw == "" {
		return nil, fmierrors.ValidationError("path is required")
	}
	path, err := ResolveArchivePath(raw, root)
	if err != nil {
		return nil, err
	}
	return inspector.Inspect(ctx, path)
}

func pathSchema(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Path to the .fmu archive (relative to the served directory)",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}
