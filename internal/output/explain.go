package output

import (
	"fmt"
	"io"

	"github.com/halentin/FMI-Viewer/internal/models"
)

// ExplainFormatter outputs everything StandardFormatter does plus metadata,
// interface flags, type and unit definitions and the archive entries
type ExplainFormatter struct{}

func (f *ExplainFormatter) Format(result *models.ParseResult, w io.Writer) error {
	fmt.Fprintf(w, "🔍 %s\n", modelLabel(result))
	meta := []struct{ label, value string }{
		{"FMI version", result.FMIVersion},
		{"GUID", result.GUID},
		{"Description", result.Description},
		{"Author", result.Author},
		{"Version", result.Version},
		{"Copyright", result.Copyright},
		{"License", result.License},
		{"Generation tool", result.GenerationTool},
		{"Generated", result.GenerationDateAndTime},
		{"Naming convention", result.VariableNamingConvention},
	}
	for _, m := range meta {
		fmt.Fprintf(w, "%s: %s\n", m.label, orDash(m.value))
	}
	fmt.Fprintf(w, "\n")

	writeInterfaces(w, result, true)

	fmt.Fprintf(w, "Continuous states: %s\n", optInt(result.NumberOfContinuousStates))
	fmt.Fprintf(w, "Event indicators: %s\n\n", optInt(result.NumberOfEventIndicators))

	if len(result.DefaultExperiment) > 0 {
		fmt.Fprintf(w, "Default experiment: %s\n\n", joinAttrs(result.DefaultExperiment))
	}

	if err := writeVariables(w, result.Variables); err != nil {
		return err
	}

	fmt.Fprintf(w, "Type definitions (%d):\n", len(result.TypeDefinitions))
	for _, td := range result.TypeDefinitions {
		fmt.Fprintf(w, "- %s: %s", td.Name, orDash(td.Type))
		if td.Unit != "" {
			fmt.Fprintf(w, " [%s]", td.Unit)
		}
		fmt.Fprintf(w, "\n")
		for _, item := range td.Items {
			fmt.Fprintf(w, "    %s = %s\n", item.Name, item.Value)
		}
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Unit definitions (%d):\n", len(result.UnitDefinitions))
	for _, u := range result.UnitDefinitions {
		fmt.Fprintf(w, "- %s", u.Name)
		if len(u.BaseUnit) > 0 {
			fmt.Fprintf(w, " (%s)", joinAttrs(u.BaseUnit))
		}
		fmt.Fprintf(w, "\n")
		for _, du := range u.DisplayUnits {
			fmt.Fprintf(w, "    display %s: factor=%s offset=%s\n", du.Name, orDash(du.Factor), orDash(du.Offset))
		}
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Platforms (%d):\n", len(result.Platforms))
	for _, p := range result.Platforms {
		fmt.Fprintf(w, "- %s\n", p)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Entries (%d):\n", len(result.Entries))
	for _, e := range result.Entries {
		fmt.Fprintf(w, "- %s\n", e)
	}
	return nil
}

func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}
