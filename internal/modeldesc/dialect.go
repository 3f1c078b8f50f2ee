package modeldesc

import "strings"

// dialect is the grammar-specific half of the parser. Implementations only
// mutate the builders they are handed.
type dialect interface {
	openVariable(b *variableBuilder, e element)
	closeVariable(b *variableBuilder, name string, depth int)

	// typeDefinition reports whether a TypeDefinitions child opens a new
	// definition, and its base type if the tag name fixes one.
	typeDefinition(name string) (baseType string, ok bool)
	typeChild(b *typeBuilder, e element)

	openStructure(c *structureCounter, e element)
	closeStructure(c *structureCounter, name string)
}

// FMI 2.x primitive type elements.
var fmi2Types = map[string]bool{
	"Real":        true,
	"Integer":     true,
	"Boolean":     true,
	"String":      true,
	"Enumeration": true,
}

// FMI 3.x variable elements.
var fmi3Types = map[string]bool{
	"Float32":     true,
	"Float64":     true,
	"Int8":        true,
	"UInt8":       true,
	"Int16":       true,
	"UInt16":      true,
	"Int32":       true,
	"UInt32":      true,
	"Int64":       true,
	"UInt64":      true,
	"Boolean":     true,
	"String":      true,
	"Binary":      true,
	"Enumeration": true,
	"Clock":       true,
}

// detectDialect picks a grammar from the leading digit of fmiVersion.
func detectDialect(version string) dialect {
	v := strings.TrimSpace(version)
	switch {
	case strings.HasPrefix(v, "2"):
		return fmi2{}
	case strings.HasPrefix(v, "3"):
		return fmi3{}
	default:
		return noDialect{}
	}
}

// noDialect is used when fmiVersion is absent or unknown: only the
// dialect-independent elements are extracted.
type noDialect struct{}

func (noDialect) openVariable(*variableBuilder, element) {}
func (noDialect) closeVariable(*variableBuilder, string, int) {}
func (noDialect) typeDefinition(string) (string, bool) { return "", false }
func (noDialect) typeChild(*typeBuilder, element) {}
func (noDialect) openStructure(*structureCounter, element) {}
func (noDialect) closeStructure(*structureCounter, string) {}

// fmi2 reads FMI 2.x descriptors (dialect A).
//
//	<ScalarVariable name=".." valueReference=".." causality="..">
//	  <Real start="1.0" unit="m"/>
//	</ScalarVariable>
type fmi2 struct{}

func (fmi2) openVariable(b *variableBuilder, e element) {
	switch {
	case e.name == "ScalarVariable":
		b.begin(e)
	case fmi2Types[e.name] && e.parent == "ScalarVariable":
		b.setType(e)
	}
}

func (fmi2) closeVariable(b *variableBuilder, name string, depth int) {
	if name == "ScalarVariable" {
		b.commit(depth)
	}
}

func (fmi2) typeDefinition(name string) (string, bool) {
	return "", name == "SimpleType"
}

func (fmi2) typeChild(b *typeBuilder, e element) {
	if e.parent != "SimpleType" || !fmi2Types[e.name] {
		return
	}
	b.setBaseType(e.name, e.name == "Enumeration")
	b.fillUnit(e)
}

func (fmi2) openStructure(c *structureCounter, e element) {
	switch e.name {
	case "Derivatives":
		c.inDerivatives = true
	case "Unknown":
		if c.inDerivatives {
			c.states.inc()
		}
	}
}

func (fmi2) closeStructure(c *structureCounter, name string) {
	if name == "Derivatives" {
		c.inDerivatives = false
	}
}

// fmi3 reads FMI 3.x descriptors (dialect B). The type tag is the variable
// element itself; Dimension and Start children enrich the open variable.
//
//	<Float64 name=".." valueReference=".." start="0">
//	  <Dimension start="3"/>
//	</Float64>
type fmi3 struct{}

func (fmi3) openVariable(b *variableBuilder, e element) {
	switch {
	case fmi3Types[e.name] && e.parent == sectionVariables:
		b.appendOpen(e)
	case e.name == "Dimension":
		b.addDimension(e)
	case e.name == "Start":
		b.overrideStart(e)
	}
}

func (fmi3) closeVariable(b *variableBuilder, _ string, depth int) {
	b.release(depth)
}

func (fmi3) typeDefinition(name string) (string, bool) {
	base, ok := strings.CutSuffix(name, "Type")
	if !ok || !fmi3Types[base] {
		return "", false
	}
	return base, true
}

func (fmi3) typeChild(*typeBuilder, element) {}

func (fmi3) openStructure(c *structureCounter, e element) {
	switch e.name {
	case "ContinuousStateDerivative":
		c.states.inc()
	case "EventIndicator":
		c.indicators.inc()
	}
}

func (fmi3) closeStructure(*structureCounter, string) {}
