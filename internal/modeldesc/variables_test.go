package modeldesc

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func el(name, parent string, depth int, kv ...string) element {
	e := element{name: name, parent: parent, depth: depth}
	for i := 0; i+1 < len(kv); i += 2 {
		e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: kv[i]}, Value: kv[i+1]})
	}
	return e
}

func TestVariableBuilder_WrappedCommitsOnClose(t *testing.T) {
	b := newVariableBuilder()

	b.begin(el("ScalarVariable", "ModelVariables", 2, "name", "x", "valueReference", "7", "causality", "input"))
	assert.Empty(t, b.variables(), "nothing is committed while the wrapper is open")

	b.setType(el("Integer", "ScalarVariable", 3, "start", "4", "unit", "rpm"))
	b.setType(el("Real", "ScalarVariable", 3, "start", "9"))
	b.commit(2)

	require.Len(t, b.variables(), 1)
	v := b.variables()[0]
	assert.Equal(t, "x", v.Name)
	assert.Equal(t, "7", v.ValueReference)
	assert.Equal(t, "Integer", v.Type, "only the first type child counts")
	assert.Equal(t, "4", *v.Start)
	assert.Equal(t, "rpm", v.Unit)

	b.commit(2)
	assert.Len(t, b.variables(), 1, "a variable is committed once")
}

func TestVariableBuilder_OpenVariableEnrichment(t *testing.T) {
	b := newVariableBuilder()

	b.appendOpen(el("Float64", "ModelVariables", 2, "name", "a", "valueReference", "1"))
	require.Len(t, b.variables(), 1, "appended on open")

	b.addDimension(el("Dimension", "Float64", 3, "start", "3"))
	b.addDimension(el("Dimension", "Float64", 3, "valueReference", "12"))
	b.overrideStart(el("Start", "Float64", 3, "value", "1 2 3"))
	// Grandchildren do not belong to the variable.
	b.addDimension(el("Dimension", "Annotation", 4, "start", "99"))
	b.release(2)

	b.appendOpen(el("Int8", "ModelVariables", 2, "name", "b", "valueReference", "2", "start", "1"))
	b.release(2)
	b.addDimension(el("Dimension", "ModelVariables", 2, "start", "4"))
	b.overrideStart(el("Start", "ModelVariables", 2, "value", "x"))

	vars := b.variables()
	require.Len(t, vars, 2)
	assert.Equal(t, []string{"3", "vr:12"}, vars[0].Dimensions)
	assert.Equal(t, "1 2 3", *vars[0].Start)
	assert.Empty(t, vars[1].Dimensions)
	assert.Equal(t, "1", *vars[1].Start)
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		version string
		want    dialect
	}{
		{"2.0", fmi2{}},
		{"2.0.4", fmi2{}},
		{" 3.0 ", fmi3{}},
		{"3.0-rc.1", fmi3{}},
		{"1.0", noDialect{}},
		{"", noDialect{}},
		{"x", noDialect{}},
	}
	for _, tt := range tests {
		assert.IsType(t, tt.want, detectDialect(tt.version), tt.version)
	}
}

func TestTypeBuilder_EnumerationLocksBaseType(t *testing.T) {
	var b typeBuilder
	d := fmi2{}

	b.open(d, el("SimpleType", "TypeDefinitions", 2, "name", "E"))
	b.open(d, el("Enumeration", "SimpleType", 3))
	b.open(d, el("Item", "Enumeration", 4, "name", "a", "value", "1"))
	b.open(d, el("Integer", "SimpleType", 3))
	b.close("SimpleType", 2)

	defs := b.definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "Enumeration", defs[0].Type)
	assert.Len(t, defs[0].Items, 1)
}

func TestCounter(t *testing.T) {
	var c counter
	assert.Nil(t, c.value())
	c.inc()
	c.inc()
	require.NotNil(t, c.value())
	assert.Equal(t, 2, *c.value())
}
