package entity

import (
	"log/slog"

	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

// elementComposition is the composition kind of an undivided spatial
// element.
const elementComposition = "ELEMENT"

// Object navigates one object-definition record: parent, children,
// declared type, property sets, and quantities, each resolved on first
// access and memoized. The loaded flags distinguish "not yet computed"
// from a computed nil or empty result.
type Object struct {
	*Base

	parentLoaded bool
	parent       *Object

	kidsLoaded bool
	kids       []*Object

	typeLoaded bool
	objType    *Object

	psetsLoaded bool
	psets       []PropertySet

	quantsLoaded bool
	quants       []Quantity
}

// NewObject wraps an object-definition record for navigation.
func NewObject(rec record.Record, reg *schema.Registry) (*Object, error) {
	return newObject(rec, reg, "IfcObjectDefinition")
}

func newObject(rec record.Record, reg *schema.Registry, expected ...string) (*Object, error) {
	base, err := NewBase(rec, reg, expected...)
	if err != nil {
		return nil, err
	}
	return &Object{Base: base}, nil
}

// CompositionType returns the spatial composition kind, "" when the record
// has none.
func (o *Object) CompositionType() string {
	return attrString(o.rec, "CompositionType")
}

// IsElement reports whether the record is an undivided spatial element.
func (o *Object) IsElement() bool {
	return o.CompositionType() == elementComposition
}

// Parent resolves the hierarchical parent, nil when the record has none.
//
// Resolution tries a fixed priority of relation kinds: an opening's voided
// element, then an element's containing spatial structure, then a general
// decomposition parent. The first rule whose relation kind applies wins;
// a relation collection with zero or multiple entries yields no parent
// rather than an arbitrary pick.
func (o *Object) Parent() *Object {
	if o.parentLoaded {
		return o.parent
	}
	o.parentLoaded = true
	o.parent = o.resolveParent()
	return o.parent
}

func (o *Object) resolveParent() *Object {
	var relName, targetAttr string
	switch {
	case o.rec.IsA("IfcFeatureElementSubtraction"):
		relName, targetAttr = "VoidsElements", "RelatingBuildingElement"
	case o.rec.IsA("IfcElement"):
		relName, targetAttr = "ContainedInStructure", "RelatingStructure"
	case o.rec.IsA("IfcObjectDefinition"):
		relName, targetAttr = "Decomposes", "RelatingObject"
	default:
		return nil
	}

	rels := o.rec.Related(relName)
	if len(rels) != 1 {
		return nil
	}
	targets := rels[0].Related(targetAttr)
	if len(targets) != 1 {
		return nil
	}
	parent, err := NewObject(targets[0], o.reg)
	if err != nil {
		slog.Warn("dropping unusable parent record",
			"type", targets[0].TypeName(), "id", targets[0].ID(), "err", err)
		return nil
	}
	return parent
}

// Kids resolves the decomposition children in relation order, not
// deduplicated. Zones collect through their grouping relations instead.
func (o *Object) Kids() []*Object {
	if o.kidsLoaded {
		return o.kids
	}
	o.kidsLoaded = true

	if !o.rec.IsA("IfcObjectDefinition") {
		return nil
	}
	relName := "IsDecomposedBy"
	if o.rec.IsA("IfcZone") {
		relName = "IsGroupedBy"
	}
	for _, rel := range o.rec.Related(relName) {
		for _, child := range rel.Related("RelatedObjects") {
			kid, err := NewObject(child, o.reg)
			if err != nil {
				slog.Warn("dropping unusable child record",
					"type", child.TypeName(), "id", child.ID(), "err", err)
				continue
			}
			o.kids = append(o.kids, kid)
		}
	}
	return o.kids
}

// ObjectType resolves the declared type record via the first defines-by-type
// relation, nil when the record has none.
func (o *Object) ObjectType() *Object {
	if o.typeLoaded {
		return o.objType
	}
	o.typeLoaded = true

	for _, rel := range o.rec.Related("IsDefinedBy") {
		if !rel.IsA("IfcRelDefinesByType") {
			continue
		}
		targets := rel.Related("RelatingType")
		if len(targets) != 1 {
			return nil
		}
		typ, err := newObject(targets[0], o.reg, "IfcTypeProduct")
		if err != nil {
			slog.Warn("dropping unusable type record",
				"type", targets[0].TypeName(), "id", targets[0].ID(), "err", err)
			return nil
		}
		o.objType = typ
		return o.objType
	}
	return nil
}

// PropertySets resolves the attached property sets. Object records collect
// defines-by-properties targets, quantity sets excluded; type-definition
// records read their declared property-set collection directly.
func (o *Object) PropertySets() []PropertySet {
	if o.psetsLoaded {
		return o.psets
	}
	o.psetsLoaded = true

	switch {
	case o.rec.IsA("IfcTypeObject"):
		for _, target := range o.rec.Related("HasPropertySets") {
			if ps := NewPropertySet(target, o.reg); ps != nil {
				o.psets = append(o.psets, ps)
			}
		}
	case o.rec.IsA("IfcObject"):
		for _, target := range o.definedBy() {
			if target.IsA("IfcElementQuantity") {
				continue
			}
			if ps := NewPropertySet(target, o.reg); ps != nil {
				o.psets = append(o.psets, ps)
			}
		}
	}
	return o.psets
}

// Quantities resolves the attached quantity sets expanded into their
// individual members, in relation order.
func (o *Object) Quantities() []Quantity {
	if o.quantsLoaded {
		return o.quants
	}
	o.quantsLoaded = true

	if !o.rec.IsA("IfcObject") {
		return nil
	}
	for _, target := range o.definedBy() {
		if !target.IsA("IfcElementQuantity") {
			continue
		}
		for _, member := range target.Related("Quantities") {
			if q := NewQuantity(member); q != nil {
				o.quants = append(o.quants, q)
			}
		}
	}
	return o.quants
}

// definedBy yields the property-definition targets of every
// defines-by-properties relation, in relation order.
func (o *Object) definedBy() []record.Record {
	var targets []record.Record
	for _, rel := range o.rec.Related("IsDefinedBy") {
		if !rel.IsA("IfcRelDefinesByProperties") {
			continue
		}
		targets = append(targets, rel.Related("RelatingPropertyDefinition")...)
	}
	return targets
}

// GetPropertySetCodenames lists the codenames of the attached property
// sets, in resolution order.
func (o *Object) GetPropertySetCodenames() []string {
	sets := o.PropertySets()
	names := make([]string, len(sets))
	for i, ps := range sets {
		names[i] = ps.Codename()
	}
	return names
}

// GetPropertySet returns the first attached set with the given codename,
// nil when absent.
func (o *Object) GetPropertySet(codename string) PropertySet {
	want := naming.SpacedCodename(codename)
	for _, ps := range o.PropertySets() {
		if ps.Codename() == want {
			return ps
		}
	}
	return nil
}

// GetPropertyCodenames lists property codenames, flattened across every
// attached set when psetCodename is "".
func (o *Object) GetPropertyCodenames(psetCodename string) []string {
	var names []string
	for _, p := range o.GetProperties(psetCodename) {
		names = append(names, p.Codename())
	}
	return names
}

// GetProperties returns the properties of the named set, or of every
// attached set when psetCodename is "". An unknown set name yields nil.
func (o *Object) GetProperties(psetCodename string) []Property {
	if psetCodename == "" {
		var props []Property
		for _, ps := range o.PropertySets() {
			props = append(props, ps.Properties()...)
		}
		return props
	}
	ps := o.GetPropertySet(psetCodename)
	if ps == nil {
		return nil
	}
	return ps.Properties()
}

// GetProperty returns the first property matching the name's codename
// within the filtered sets, nil when absent.
func (o *Object) GetProperty(name, psetCodename string) Property {
	want := naming.Codename(name)
	for _, p := range o.GetProperties(psetCodename) {
		if p.Codename() == want {
			return p
		}
	}
	return nil
}

// GetPropertyValue returns the value and unit of the named property, or
// (nil, nil) when the property or the named set does not exist. Missing
// names never raise.
func (o *Object) GetPropertyValue(name, psetCodename string) (any, any) {
	p := o.GetProperty(name, psetCodename)
	if p == nil {
		return nil, nil
	}
	return p.Value(), p.Unit()
}
