// Package modeldesc parses FMI modelDescription.xml documents in a single
// streaming pass. FMI 2.x and FMI 3.x descriptors describe the same concepts
// with different grammars; a dialect strategy chosen from the root fmiVersion
// attribute decides how variables, type definitions and model structure are
// read, while the accumulators below are shared.
package modeldesc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	fmierrors "github.com/halentin/FMI-Viewer/internal/errors"
	"github.com/halentin/FMI-Viewer/internal/models"
	"golang.org/x/net/html/charset"
)

const rootElement = "fmiModelDescription"

// Section wrappers, all direct children of the root element.
const (
	sectionVariables = "ModelVariables"
	sectionTypes     = "TypeDefinitions"
	sectionUnits     = "UnitDefinitions"
	sectionStructure = "ModelStructure"
)

var (
	errNoRoot        = errors.New("document has no " + rootElement + " root element")
	errMultipleRoots = errors.New("document has more than one root element")
)

// element is one start tag as seen by the handlers: its name, the name of
// the enclosing element and its depth (root = 0).
type element struct {
	name   string
	parent string
	depth  int
	attrs  []xml.Attr
}

func (e element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

func (e element) attrOr(name string) string {
	v, _ := e.attr(name)
	return v
}

// attrMap copies every unqualified attribute, skipping the names in except.
// Namespaced attributes (xsi:*, xmlns declarations) belong to other
// vocabularies and are left out.
func (e element) attrMap(except ...string) map[string]string {
	m := make(map[string]string, len(e.attrs))
outer:
	for _, a := range e.attrs {
		if a.Name.Space != "" || a.Name.Local == "xmlns" {
			continue
		}
		for _, x := range except {
			if a.Name.Local == x {
				continue outer
			}
		}
		m[a.Name.Local] = a.Value
	}
	return m
}

// parser is the complete state of one parse. Nothing here outlives Parse.
type parser struct {
	result  *models.ParseResult
	dialect dialect
	stack   []string
	sawRoot bool

	inVariables bool
	inTypes     bool
	inUnits     bool
	inStructure bool

	vars      variableBuilder
	types     typeBuilder
	units     unitBuilder
	structure structureCounter

	eventIndicatorsAttr *int
}

func newParser() *parser {
	return &parser{
		result:  &models.ParseResult{},
		dialect: noDialect{},
		vars:    newVariableBuilder(),
	}
}

// Parse reads a model description from r. Malformed markup fails with an
// error matching errors.ErrDescriptorSyntax and no result is returned.
func Parse(r io.Reader) (*models.ParseResult, error) {
	p := newParser()

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := dec.InputPos()
			return nil, fmierrors.DescriptorSyntaxError(err, line, col)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				line, col := dec.InputPos()
				return nil, fmierrors.DescriptorSyntaxError(err, line, col)
			}
		case xml.EndElement:
			p.end(t.Name.Local)
		}
	}

	if !p.sawRoot {
		line, col := dec.InputPos()
		return nil, fmierrors.DescriptorSyntaxError(errNoRoot, line, col)
	}

	return p.finish(), nil
}

// ParseBytes parses an in-memory descriptor.
func ParseBytes(data []byte) (*models.ParseResult, error) {
	return Parse(bytes.NewReader(data))
}

func (p *parser) start(se xml.StartElement) error {
	e := element{
		name:  se.Name.Local,
		depth: len(p.stack),
		attrs: se.Attr,
	}
	if e.depth > 0 {
		e.parent = p.stack[e.depth-1]
	}
	p.stack = append(p.stack, e.name)

	if e.depth == 0 {
		if p.sawRoot {
			return errMultipleRoots
		}
		return p.root(e)
	}

	if e.depth == 1 {
		switch e.name {
		case "ModelExchange":
			p.result.ModelExchange = capability(e)
			return nil
		case "CoSimulation":
			p.result.CoSimulation = capability(e)
			return nil
		case "ScheduledExecution":
			p.result.ScheduledExecution = capability(e)
			return nil
		case "DefaultExperiment":
			p.result.DefaultExperiment = e.attrMap()
			return nil
		case sectionVariables:
			p.inVariables = true
			return nil
		case sectionTypes:
			p.inTypes = true
			return nil
		case sectionUnits:
			p.inUnits = true
			return nil
		case sectionStructure:
			p.inStructure = true
			return nil
		}
	}

	switch {
	case p.inVariables:
		p.dialect.openVariable(&p.vars, e)
	case p.inTypes:
		p.types.open(p.dialect, e)
	case p.inUnits:
		p.units.open(e)
	case p.inStructure:
		p.dialect.openStructure(&p.structure, e)
	}
	return nil
}

func (p *parser) end(name string) {
	if len(p.stack) == 0 {
		return
	}
	p.stack = p.stack[:len(p.stack)-1]
	depth := len(p.stack)

	if depth == 1 {
		switch name {
		case sectionVariables:
			p.inVariables = false
			return
		case sectionTypes:
			p.inTypes = false
			return
		case sectionUnits:
			p.inUnits = false
			return
		case sectionStructure:
			p.inStructure = false
			return
		}
	}

	switch {
	case p.inVariables:
		p.dialect.closeVariable(&p.vars, name, depth)
	case p.inTypes:
		p.types.close(name, depth)
	case p.inUnits:
		p.units.close(name, depth)
	case p.inStructure:
		p.dialect.closeStructure(&p.structure, name)
	}
}

func (p *parser) root(e element) error {
	p.sawRoot = true
	if e.name != rootElement {
		return fmt.Errorf("root element <%s> is not <%s>", e.name, rootElement)
	}

	r := p.result
	r.FMIVersion = e.attrOr("fmiVersion")
	r.ModelName = e.attrOr("modelName")
	r.Description = e.attrOr("description")
	r.Author = e.attrOr("author")
	r.Version = e.attrOr("version")
	r.Copyright = e.attrOr("copyright")
	r.License = e.attrOr("license")
	r.GenerationTool = e.attrOr("generationTool")
	r.GenerationDateAndTime = e.attrOr("generationDateAndTime")
	r.VariableNamingConvention = e.attrOr("variableNamingConvention")

	for _, name := range []string{"guid", "instantiationToken"} {
		if v, ok := e.attr(name); ok {
			r.GUID = v
			break
		}
	}

	if raw, ok := e.attr("numberOfEventIndicators"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			return fmt.Errorf("numberOfEventIndicators %q is not a non-negative integer", raw)
		}
		p.eventIndicatorsAttr = &n
	}

	p.dialect = detectDialect(r.FMIVersion)
	return nil
}

func capability(e element) *models.Capability {
	c := &models.Capability{ModelIdentifier: e.attrOr("modelIdentifier")}
	if flags := e.attrMap("modelIdentifier"); len(flags) > 0 {
		c.Flags = flags
	}
	return c
}

// finish freezes the accumulators into the result.
func (p *parser) finish() *models.ParseResult {
	r := p.result
	r.Variables = p.vars.variables()
	r.TypeDefinitions = p.types.definitions()
	r.UnitDefinitions = p.units.definitions()
	r.NumberOfContinuousStates = p.structure.states.value()

	// Structural EventIndicator elements are authoritative over the root attribute.
	if n := p.structure.indicators.value(); n != nil {
		r.NumberOfEventIndicators = n
	} else {
		r.NumberOfEventIndicators = p.eventIndicatorsAttr
	}
	return r
}
