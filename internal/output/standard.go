package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/halentin/FMI-Viewer/internal/models"
)

// StandardFormatter outputs metadata, interfaces and the variable table (default on a terminal)
type StandardFormatter struct{}

func (f *StandardFormatter) Format(result *models.ParseResult, w io.Writer) error {
	// Header
	fmt.Fprintf(w, "🔍 %s\n", modelLabel(result))
	fmt.Fprintf(w, "FMI version: %s\n", orDash(result.FMIVersion))
	if result.GUID != "" {
		fmt.Fprintf(w, "GUID: %s\n", result.GUID)
	}
	if result.GenerationTool != "" {
		fmt.Fprintf(w, "Generation tool: %s\n", result.GenerationTool)
	}
	if result.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", result.Description)
	}
	fmt.Fprintf(w, "\n")

	writeInterfaces(w, result, false)

	if result.NumberOfContinuousStates != nil || result.NumberOfEventIndicators != nil {
		if result.NumberOfContinuousStates != nil {
			fmt.Fprintf(w, "Continuous states: %d\n", *result.NumberOfContinuousStates)
		}
		if result.NumberOfEventIndicators != nil {
			fmt.Fprintf(w, "Event indicators: %d\n", *result.NumberOfEventIndicators)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(result.DefaultExperiment) > 0 {
		fmt.Fprintf(w, "Default experiment: %s\n\n", joinAttrs(result.DefaultExperiment))
	}

	if err := writeVariables(w, result.Variables); err != nil {
		return err
	}

	if len(result.Platforms) > 0 {
		fmt.Fprintf(w, "Platforms: %s\n", strings.Join(result.Platforms, ", "))
	} else {
		fmt.Fprintf(w, "Platforms: none (source-only or empty binaries/)\n")
	}
	return nil
}

func writeInterfaces(w io.Writer, result *models.ParseResult, withFlags bool) {
	caps := []struct {
		label string
		cap   *models.Capability
	}{
		{"Model Exchange", result.ModelExchange},
		{"Co-Simulation", result.CoSimulation},
		{"Scheduled Execution", result.ScheduledExecution},
	}

	fmt.Fprintf(w, "Interfaces:\n")
	found := false
	for _, c := range caps {
		if c.cap == nil {
			continue
		}
		found = true
		fmt.Fprintf(w, "- %s (%s)\n", c.label, orDash(c.cap.ModelIdentifier))
		if withFlags && len(c.cap.Flags) > 0 {
			fmt.Fprintf(w, "    %s\n", joinAttrs(c.cap.Flags))
		}
	}
	if !found {
		fmt.Fprintf(w, "- none declared\n")
	}
	fmt.Fprintf(w, "\n")
}

func writeVariables(w io.Writer, vars []models.Variable) error {
	fmt.Fprintf(w, "Variables (%d):\n", len(vars))
	if len(vars) == 0 {
		fmt.Fprintf(w, "\n")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  NAME\tVR\tTYPE\tCAUSALITY\tVARIABILITY\tUNIT\tSTART\n")
	for _, v := range vars {
		typ := v.Type
		if v.IsArray() {
			typ += "[" + strings.Join(v.Dimensions, ",") + "]"
		}
		start := "-"
		if v.Start != nil {
			start = *v.Start
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Name, v.ValueReference, typ,
			orDash(v.Causality), orDash(v.Variability), orDash(v.Unit), start)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n")
	return nil
}

// joinAttrs renders a map as sorted key=value pairs.
func joinAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, ", ")
}
