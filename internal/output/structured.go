package output

import (
	"encoding/json"
	"io"

	"github.com/halentin/FMI-Viewer/internal/models"
	"gopkg.in/yaml.v3"
)

// JSONFormatter writes the full result as JSON
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) Format(result *models.ParseResult, w io.Writer) error {
	return WriteJSON(w, result, f.Indent)
}

// YAMLFormatter writes the full result as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(result *models.ParseResult, w io.Writer) error {
	return WriteYAML(w, result)
}

// WriteJSON encodes any value (results, batch reports, catalog rows) as JSON.
func WriteJSON(w io.Writer, v interface{}, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteYAML encodes any value as YAML with two-space indentation.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
