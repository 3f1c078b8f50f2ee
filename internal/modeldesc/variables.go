package modeldesc

import "github.com/halentin/FMI-Viewer/internal/models"

// variableBuilder accumulates variables in document order.
//
// FMI 2 variables are held in pending until their wrapper closes. FMI 3
// variables are appended on open and stay addressable through open (an index
// into vars) until their element closes, so Dimension and Start children can
// enrich them.
type variableBuilder struct {
	vars []models.Variable

	pending      *models.Variable
	pendingDepth int

	open      int
	openDepth int
}

func newVariableBuilder() variableBuilder {
	return variableBuilder{vars: []models.Variable{}, open: -1}
}

func identity(e element) models.Variable {
	return models.Variable{
		Name:           e.attrOr("name"),
		ValueReference: e.attrOr("valueReference"),
		Causality:      e.attrOr("causality"),
		Variability:    e.attrOr("variability"),
		Initial:        e.attrOr("initial"),
		Description:    e.attrOr("description"),
	}
}

func optional(e element, name string) *string {
	if v, ok := e.attr(name); ok {
		return &v
	}
	return nil
}

// begin starts a wrapped variable (FMI 2).
func (b *variableBuilder) begin(e element) {
	v := identity(e)
	b.pending = &v
	b.pendingDepth = e.depth
}

// setType applies the first primitive-type child of a wrapped variable.
func (b *variableBuilder) setType(e element) {
	if b.pending == nil || b.pending.Type != "" || e.depth != b.pendingDepth+1 {
		return
	}
	b.pending.Type = e.name
	b.pending.Start = optional(e, "start")
	b.pending.Unit = e.attrOr("unit")
	b.pending.DeclaredType = e.attrOr("declaredType")
}

// commit appends the pending variable when its wrapper closes at depth.
func (b *variableBuilder) commit(depth int) {
	if b.pending == nil || depth != b.pendingDepth {
		return
	}
	b.vars = append(b.vars, *b.pending)
	b.pending = nil
}

// appendOpen appends a self-describing variable element (FMI 3) and keeps it
// open for enrichment.
func (b *variableBuilder) appendOpen(e element) {
	v := identity(e)
	v.Type = e.name
	v.Start = optional(e, "start")
	v.Unit = e.attrOr("unit")
	v.DeclaredType = e.attrOr("declaredType")

	b.vars = append(b.vars, v)
	b.open = len(b.vars) - 1
	b.openDepth = e.depth
}

func (b *variableBuilder) current(e element) *models.Variable {
	if b.open < 0 || e.depth != b.openDepth+1 {
		return nil
	}
	return &b.vars[b.open]
}

// addDimension appends one dimension expression: the fixed start size, or
// the structural parameter it refers to as "vr:<valueReference>".
func (b *variableBuilder) addDimension(e element) {
	v := b.current(e)
	if v == nil {
		return
	}
	expr := e.attrOr("start")
	if expr == "" {
		if vr, ok := e.attr("valueReference"); ok {
			expr = "vr:" + vr
		}
	}
	v.Dimensions = append(v.Dimensions, expr)
}

// overrideStart replaces the start value with a Start child's value.
func (b *variableBuilder) overrideStart(e element) {
	v := b.current(e)
	if v == nil {
		return
	}
	if val, ok := e.attr("value"); ok {
		v.Start = &val
	}
}

// release closes the open variable once its element ends at depth.
func (b *variableBuilder) release(depth int) {
	if b.open >= 0 && depth == b.openDepth {
		b.open = -1
	}
}

func (b *variableBuilder) variables() []models.Variable {
	return b.vars
}
