package entity

import (
	"log/slog"

	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

// Property is one named value attached to an object through a property
// set. Two concrete shapes exist: single-value property records, and
// type-definition attributes reinterpreted as properties.
type Property interface {
	// Name returns the property's declared name.
	Name() string

	// Codename returns the normalized lookup key for the name.
	Codename() string

	// Value returns the bare value, unwrapped from its nominal-value
	// wrapper when the record carries one. Nil when unset.
	Value() any

	// ValueType returns the value's declared type name, "" when unknown.
	ValueType() string

	// Unit returns the explicit unit field, nil when absent.
	Unit() any
}

// newProperty selects the property shape by type membership. Unrecognized
// shapes yield nil with a diagnostic, never an error.
func newProperty(rec record.Record) Property {
	if rec.IsA("IfcSimpleProperty") {
		return &simpleProperty{rec: rec}
	}
	slog.Warn("dropping unsupported property shape",
		"type", rec.TypeName(), "id", rec.ID())
	return nil
}

// simpleProperty reads its value from the nominal-value wrapper of a
// simple property record. Subtypes without a nominal value report nil.
type simpleProperty struct {
	rec record.Record
}

func (p *simpleProperty) Name() string     { return attrString(p.rec, "Name") }
func (p *simpleProperty) Codename() string { return naming.Codename(p.Name()) }

func (p *simpleProperty) Value() any {
	return attrValue(p.rec, "NominalValue")
}

func (p *simpleProperty) ValueType() string {
	if v, ok := p.rec.Attr("NominalValue"); ok {
		if tv, ok := v.(record.Value); ok {
			return tv.TypeName
		}
	}
	return ""
}

func (p *simpleProperty) Unit() any {
	v, ok := p.rec.Attr("Unit")
	if !ok {
		return nil
	}
	return v
}

// typeProperty reinterprets one declared attribute of a type-definition
// record as a property. The value comes from direct field access; the
// value type comes from schema metadata, so a bare scalar field still
// reports its declared type.
type typeProperty struct {
	rec  record.Record
	attr string
	reg  *schema.Registry
}

func (p *typeProperty) Name() string     { return p.attr }
func (p *typeProperty) Codename() string { return naming.Codename(p.attr) }

func (p *typeProperty) Value() any {
	return attrValue(p.rec, p.attr)
}

func (p *typeProperty) ValueType() string {
	if p.reg == nil {
		return ""
	}
	meta, err := p.reg.GetEntity(p.rec.TypeName())
	if err != nil {
		return ""
	}
	for _, a := range meta.AllAttributes(true) {
		if a.Name == p.attr {
			return a.TypeName
		}
	}
	return ""
}

func (p *typeProperty) Unit() any { return nil }
