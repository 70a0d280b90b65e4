// Package entity wraps raw records in a navigable object model: a
// validation base exposing identity fields, a navigation layer resolving
// parents, children, declared types, property sets, and quantities, and a
// closed family of property and quantity variants.
//
// All resolution is lazy and memoized. Raw records and the registry are
// immutable after construction, so memoized results are never invalidated
// and entities are safe for concurrent reads.
package entity

import (
	"fmt"
	"strings"

	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

// Base validates one raw record against a set of acceptable type names and
// exposes its common identity fields. The registry may be nil; schema
// dependent accessors then fail with ErrNoSchema at first use.
type Base struct {
	rec record.Record
	reg *schema.Registry
}

// NewBase wraps rec after checking it satisfies at least one of the
// expected type names.
func NewBase(rec record.Record, reg *schema.Registry, expected ...string) (*Base, error) {
	if rec == nil {
		return nil, &ValidationError{Reason: "no record given"}
	}
	if len(expected) == 0 {
		return nil, &ValidationError{Reason: "no expected types given"}
	}
	for _, name := range expected {
		if rec.IsA(name) {
			return &Base{rec: rec, reg: reg}, nil
		}
	}
	return nil, &ValidationError{Reason: fmt.Sprintf(
		"record %s satisfies none of %s", rec.TypeName(), strings.Join(expected, ", "))}
}

// Record returns the wrapped raw record.
func (b *Base) Record() record.Record { return b.rec }

// TypeName returns the record's declared type name.
func (b *Base) TypeName() string { return b.rec.TypeName() }

// GlobalID returns the record's stable identifier.
func (b *Base) GlobalID() string { return b.rec.ID() }

// Name returns the display name, "" when unset.
func (b *Base) Name() string { return attrString(b.rec, "Name") }

// Description returns the description field, "" when unset.
func (b *Base) Description() string { return attrString(b.rec, "Description") }

// Codename returns the normalized lookup key derived from the display
// name: punctuation-stripped, lower-cased, spaces removed.
func (b *Base) Codename() string { return naming.Codename(b.Name()) }

// IsA reports type membership through the record's inheritance chain.
func (b *Base) IsA(typeName string) bool { return b.rec.IsA(typeName) }

// SchemaVersion returns the registry's schema version name.
func (b *Base) SchemaVersion() (string, error) {
	if b.reg == nil {
		return "", ErrNoSchema
	}
	return b.reg.Version(), nil
}

// Metadata returns the schema entity for the record's declared type.
func (b *Base) Metadata() (*schema.Entity, error) {
	if b.reg == nil {
		return nil, ErrNoSchema
	}
	return b.reg.GetEntity(b.TypeName())
}

// Equal reports identity by stable record identifier.
func (b *Base) Equal(other *Base) bool {
	return other != nil && b.GlobalID() == other.GlobalID()
}

// attrString reads a string-valued field, unwrapping a typed value if the
// field carries one.
func attrString(rec record.Record, name string) string {
	v, ok := rec.Attr(name)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case record.Value:
		if s, ok := t.Raw.(string); ok {
			return s
		}
	}
	return ""
}

// attrValue reads a field and unwraps a typed value to its bare value.
// Returns nil when the field is absent.
func attrValue(rec record.Record, name string) any {
	v, ok := rec.Attr(name)
	if !ok {
		return nil
	}
	if tv, ok := v.(record.Value); ok {
		return tv.Raw
	}
	return v
}
