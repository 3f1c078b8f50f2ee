package modeldesc

// counter is an occurrence count that stays undefined until the first
// increment, so "none declared" and "zero" remain distinguishable.
type counter struct {
	n   int
	set bool
}

func (c *counter) inc() {
	c.n++
	c.set = true
}

func (c counter) value() *int {
	if !c.set {
		return nil
	}
	n := c.n
	return &n
}

// structureCounter holds the ModelStructure-derived counts.
type structureCounter struct {
	inDerivatives bool
	states        counter
	indicators    counter
}
