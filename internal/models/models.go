package models

import (
	"strings"
	"time"
)

// ParseResult is everything extracted from one FMU: descriptor metadata plus archive facts.
type ParseResult struct {
	FMIVersion               string `json:"fmiVersion,omitempty" yaml:"fmiVersion,omitempty"`
	ModelName                string `json:"modelName,omitempty" yaml:"modelName,omitempty"`
	Description              string `json:"description,omitempty" yaml:"description,omitempty"`
	Author                   string `json:"author,omitempty" yaml:"author,omitempty"`
	Version                  string `json:"version,omitempty" yaml:"version,omitempty"`
	Copyright                string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	License                  string `json:"license,omitempty" yaml:"license,omitempty"`
	GenerationTool           string `json:"generationTool,omitempty" yaml:"generationTool,omitempty"`
	GenerationDateAndTime    string `json:"generationDateAndTime,omitempty" yaml:"generationDateAndTime,omitempty"`
	GUID                     string `json:"guid,omitempty" yaml:"guid,omitempty"`
	VariableNamingConvention string `json:"variableNamingConvention,omitempty" yaml:"variableNamingConvention,omitempty"`

	NumberOfContinuousStates *int `json:"numberOfContinuousStates,omitempty" yaml:"numberOfContinuousStates,omitempty"`
	NumberOfEventIndicators  *int `json:"numberOfEventIndicators,omitempty" yaml:"numberOfEventIndicators,omitempty"`

	ModelExchange      *Capability `json:"modelExchange,omitempty" yaml:"modelExchange,omitempty"`
	CoSimulation       *Capability `json:"coSimulation,omitempty" yaml:"coSimulation,omitempty"`
	ScheduledExecution *Capability `json:"scheduledExecution,omitempty" yaml:"scheduledExecution,omitempty"`

	Variables         []Variable        `json:"variables" yaml:"variables"`
	TypeDefinitions   []TypeDefinition  `json:"typeDefinitions" yaml:"typeDefinitions"`
	UnitDefinitions   []UnitDefinition  `json:"unitDefinitions" yaml:"unitDefinitions"`
	DefaultExperiment map[string]string `json:"defaultExperiment,omitempty" yaml:"defaultExperiment,omitempty"`

	Platforms []string `json:"platforms" yaml:"platforms"`
	Entries   []string `json:"entries" yaml:"entries"`
}

// Capability is one interface-type block (ModelExchange, CoSimulation, ScheduledExecution).
// Flags holds every attribute except modelIdentifier, uninterpreted.
type Capability struct {
	ModelIdentifier string            `json:"modelIdentifier,omitempty" yaml:"modelIdentifier,omitempty"`
	Flags           map[string]string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Variable is one exposed model quantity.
type Variable struct {
	Name           string   `json:"name" yaml:"name"`
	ValueReference string   `json:"valueReference" yaml:"valueReference"`
	Type           string   `json:"type" yaml:"type"`
	Causality      string   `json:"causality,omitempty" yaml:"causality,omitempty"`
	Variability    string   `json:"variability,omitempty" yaml:"variability,omitempty"`
	Initial        string   `json:"initial,omitempty" yaml:"initial,omitempty"`
	Start          *string  `json:"start,omitempty" yaml:"start,omitempty"`
	DeclaredType   string   `json:"declaredType,omitempty" yaml:"declaredType,omitempty"`
	Unit           string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Dimensions     []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// IsArray reports whether the variable carries at least one Dimension.
func (v Variable) IsArray() bool {
	return len(v.Dimensions) > 0
}

// TypeDefinition is a named reusable type. Items is only populated for enumerations.
type TypeDefinition struct {
	Name        string            `json:"name" yaml:"name"`
	Type        string            `json:"type,omitempty" yaml:"type,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Quantity    string            `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit        string            `json:"unit,omitempty" yaml:"unit,omitempty"`
	Items       []EnumerationItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// EnumerationItem is one Item of an enumeration type.
type EnumerationItem struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// UnitDefinition is a physical unit with its display conversions.
type UnitDefinition struct {
	Name         string            `json:"name" yaml:"name"`
	BaseUnit     map[string]string `json:"baseUnit,omitempty" yaml:"baseUnit,omitempty"`
	DisplayUnits []DisplayUnit     `json:"displayUnits,omitempty" yaml:"displayUnits,omitempty"`
}

// DisplayUnit converts a unit for display: display = factor*value + offset (inverse flips it).
type DisplayUnit struct {
	Name    string `json:"name" yaml:"name"`
	Factor  string `json:"factor,omitempty" yaml:"factor,omitempty"`
	Offset  string `json:"offset,omitempty" yaml:"offset,omitempty"`
	Inverse string `json:"inverse,omitempty" yaml:"inverse,omitempty"`
}

// CatalogModel is a catalog row describing one inspected archive.
type CatalogModel struct {
	ID             string    `json:"id" db:"id"`
	Path           string    `json:"path" db:"path"`
	SHA256         string    `json:"sha256" db:"sha256"`
	FMIVersion     string    `json:"fmi_version" db:"fmi_version"`
	ModelName      string    `json:"model_name" db:"model_name"`
	GUID           string    `json:"guid" db:"guid"`
	GenerationTool string    `json:"generation_tool" db:"generation_tool"`
	Platforms      string    `json:"platforms" db:"platforms"` // comma-separated
	VariableCount  int       `json:"variable_count" db:"variable_count"`
	InspectedAt    time.Time `json:"inspected_at" db:"inspected_at"`
}

// PlatformList splits Platforms back into platform ids.
func (m CatalogModel) PlatformList() []string {
	if m.Platforms == "" {
		return []string{}
	}
	return strings.Split(m.Platforms, ",")
}

// CatalogVariable is a catalog row for one variable of a CatalogModel.
// Dimensions holds the dimension expressions joined with commas.
type CatalogVariable struct {
	ModelID        string `json:"model_id" db:"model_id"`
	Position       int    `json:"position" db:"position"`
	Name           string `json:"name" db:"name"`
	ValueReference string `json:"value_reference" db:"value_reference"`
	Type           string `json:"type" db:"type"`
	Causality      string `json:"causality" db:"causality"`
	Variability    string `json:"variability" db:"variability"`
	Unit           string `json:"unit" db:"unit"`
	Description    string `json:"description" db:"description"`
	Dimensions     string `json:"dimensions" db:"dimensions"`
}

// VariableMatch is a variable search hit together with its owning model.
type VariableMatch struct {
	CatalogVariable
	ModelName string `json:"model_name" db:"model_name"`
	Path      string `json:"path" db:"path"`
}
