package modeldesc

import "github.com/halentin/FMI-Viewer/internal/models"

// typeBuilder accumulates TypeDefinitions entries. At most one definition
// is in flight.
type typeBuilder struct {
	defs    []models.TypeDefinition
	current *models.TypeDefinition
	depth   int
	locked  bool
}

func (b *typeBuilder) open(d dialect, e element) {
	if b.current == nil {
		base, ok := d.typeDefinition(e.name)
		if !ok {
			return
		}
		b.current = &models.TypeDefinition{
			Name:        e.attrOr("name"),
			Type:        base,
			Description: e.attrOr("description"),
			Quantity:    e.attrOr("quantity"),
			Unit:        e.attrOr("unit"),
		}
		b.depth = e.depth
		b.locked = false
		return
	}

	if e.name == "Item" {
		b.current.Items = append(b.current.Items, models.EnumerationItem{
			Name:        e.attrOr("name"),
			Value:       e.attrOr("value"),
			Description: e.attrOr("description"),
		})
		return
	}
	d.typeChild(b, e)
}

// setBaseType records the base type. Once an enumeration marker has been
// seen the type no longer changes.
func (b *typeBuilder) setBaseType(name string, enumeration bool) {
	if b.current == nil || b.locked {
		return
	}
	b.current.Type = name
	b.locked = enumeration
}

func (b *typeBuilder) fillUnit(e element) {
	if b.current == nil {
		return
	}
	if v, ok := e.attr("quantity"); ok && b.current.Quantity == "" {
		b.current.Quantity = v
	}
	if v, ok := e.attr("unit"); ok && b.current.Unit == "" {
		b.current.Unit = v
	}
}

func (b *typeBuilder) close(_ string, depth int) {
	if b.current == nil || depth != b.depth {
		return
	}
	b.defs = append(b.defs, *b.current)
	b.current = nil
}

func (b *typeBuilder) definitions() []models.TypeDefinition {
	if b.defs == nil {
		return []models.TypeDefinition{}
	}
	return b.defs
}

// unitBuilder accumulates UnitDefinitions entries. The grammar is the same
// in both dialects.
type unitBuilder struct {
	defs    []models.UnitDefinition
	current *models.UnitDefinition
	depth   int
}

func (b *unitBuilder) open(e element) {
	if b.current == nil {
		if e.name == "Unit" {
			b.current = &models.UnitDefinition{Name: e.attrOr("name")}
			b.depth = e.depth
		}
		return
	}

	switch e.name {
	case "BaseUnit":
		b.current.BaseUnit = e.attrMap()
	case "DisplayUnit":
		b.current.DisplayUnits = append(b.current.DisplayUnits, models.DisplayUnit{
			Name:    e.attrOr("name"),
			Factor:  e.attrOr("factor"),
			Offset:  e.attrOr("offset"),
			Inverse: e.attrOr("inverse"),
		})
	}
}

func (b *unitBuilder) close(name string, depth int) {
	if b.current == nil || name != "Unit" || depth != b.depth {
		return
	}
	b.defs = append(b.defs, *b.current)
	b.current = nil
}

func (b *unitBuilder) definitions() []models.UnitDefinition {
	if b.defs == nil {
		return []models.UnitDefinition{}
	}
	return b.defs
}
