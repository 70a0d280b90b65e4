package entity

import (
	"log/slog"

	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

// PropertySet is a named grouping of properties attached to an object.
// Two concrete shapes exist: plain sets owning an explicit member list,
// and type-level sets synthesizing one pseudo-property per declared
// attribute of a type-definition record.
//
// Property-set codenames preserve interior spaces, unlike entity and
// property codenames.
type PropertySet interface {
	Name() string
	Codename() string
	Properties() []Property
	PropertyCodenames() []string
	Property(codename string) Property
}

// NewPropertySet selects the set shape by type membership. Quantity sets
// are not property sets; they and other unrecognized shapes yield nil
// with a diagnostic.
func NewPropertySet(rec record.Record, reg *schema.Registry) PropertySet {
	switch {
	case rec.IsA("IfcElementQuantity"):
		slog.Warn("dropping quantity set offered as property set",
			"type", rec.TypeName(), "id", rec.ID())
		return nil
	case rec.IsA("IfcPropertySet"):
		return &propertySet{rec: rec}
	case rec.IsA("IfcPropertySetDefinition"):
		return &typePropertySet{rec: rec, reg: reg}
	}
	slog.Warn("dropping unsupported property set shape",
		"type", rec.TypeName(), "id", rec.ID())
	return nil
}

// propertySet owns the explicit member list of a plain property-set
// record.
type propertySet struct {
	rec record.Record

	propsLoaded bool
	props       []Property
}

func (s *propertySet) Name() string     { return attrString(s.rec, "Name") }
func (s *propertySet) Codename() string { return naming.SpacedCodename(s.Name()) }

func (s *propertySet) Properties() []Property {
	if s.propsLoaded {
		return s.props
	}
	s.propsLoaded = true
	for _, member := range s.rec.Related("HasProperties") {
		if p := newProperty(member); p != nil {
			s.props = append(s.props, p)
		}
	}
	return s.props
}

func (s *propertySet) PropertyCodenames() []string {
	return propertyCodenames(s.Properties())
}

func (s *propertySet) Property(codename string) Property {
	return findProperty(s.Properties(), codename)
}

// typePropertySet synthesizes pseudo-properties from the declared
// attributes of a predefined property-set record. Attribute names come
// from schema metadata, own scope only, so inherited identity fields are
// not exposed as properties.
type typePropertySet struct {
	rec record.Record
	reg *schema.Registry

	propsLoaded bool
	props       []Property
}

func (s *typePropertySet) Name() string     { return attrString(s.rec, "Name") }
func (s *typePropertySet) Codename() string { return naming.SpacedCodename(s.Name()) }

func (s *typePropertySet) Properties() []Property {
	if s.propsLoaded {
		return s.props
	}
	s.propsLoaded = true

	if s.reg == nil {
		slog.Warn("cannot synthesize type properties without schema",
			"type", s.rec.TypeName(), "id", s.rec.ID())
		return nil
	}
	meta, err := s.reg.GetEntity(s.rec.TypeName())
	if err != nil {
		slog.Warn("dropping type property set without schema entity",
			"type", s.rec.TypeName(), "id", s.rec.ID(), "err", err)
		return nil
	}
	for _, attr := range meta.AttributeNames() {
		s.props = append(s.props, &typeProperty{rec: s.rec, attr: attr, reg: s.reg})
	}
	return s.props
}

func (s *typePropertySet) PropertyCodenames() []string {
	return propertyCodenames(s.Properties())
}

func (s *typePropertySet) Property(codename string) Property {
	return findProperty(s.Properties(), codename)
}

func propertyCodenames(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Codename()
	}
	return names
}

func findProperty(props []Property, codename string) Property {
	want := naming.Codename(codename)
	for _, p := range props {
		if p.Codename() == want {
			return p
		}
	}
	return nil
}
