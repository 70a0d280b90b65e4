package schema

import (
	"slices"
	"sort"
	"strings"
)

// Element is implemented by every parsed grammar element. GetElement returns
// it when probing across the four registry maps.
type Element interface {
	ElementName() string
	Kind() ElementKind
}

// simpleTypeNames is the fixed primitive set of the grammar. A defined type
// whose expression names none of these is a reference to another defined
// type.
var simpleTypeNames = []string{
	"INTEGER", "REAL", "STRING", "NUMBER", "LOGICAL", "BOOLEAN",
}

// DefinedType is a named type alias: either a primitive expression or a
// reference to another defined type.
type DefinedType struct {
	Name string

	reg      *Registry
	rawValue string
}

// ElementName implements Element.
func (t *DefinedType) ElementName() string { return t.Name }

// Kind implements Element.
func (t *DefinedType) Kind() ElementKind { return KindDefinedType }

// RawValue returns the raw type expression as read from the grammar.
func (t *DefinedType) RawValue() string { return t.rawValue }

// IsRef reports whether the type expression references another defined type
// rather than one of the primitive types.
func (t *DefinedType) IsRef() bool {
	for _, tok := range strings.FieldsFunc(t.rawValue, func(r rune) bool {
		return r == ' ' || r == '(' || r == ')'
	}) {
		if slices.Contains(simpleTypeNames, tok) {
			return false
		}
	}
	return true
}

// RefType resolves the referenced defined type against the registry.
// Returns nil without error when the type is primitive, and a LookupError
// when the reference is undefined.
func (t *DefinedType) RefType() (*DefinedType, error) {
	if !t.IsRef() {
		return nil, nil
	}
	return t.reg.GetDefinedType(t.rawValue)
}

// SelectType is a union of named entities.
type SelectType struct {
	Name string

	reg      *Registry
	rawTypes string
}

// ElementName implements Element.
func (t *SelectType) ElementName() string { return t.Name }

// Kind implements Element.
func (t *SelectType) Kind() ElementKind { return KindSelectType }

// EntityNames returns the member names, ascendingly sorted.
func (t *SelectType) EntityNames() []string {
	names := splitList(t.rawTypes)
	sort.Strings(names)
	return names
}

// Entities resolves every member against the registry. A single undefined
// member fails the whole resolution with a LookupError.
func (t *SelectType) Entities() ([]*Entity, error) {
	names := t.EntityNames()
	ents := make([]*Entity, 0, len(names))
	for _, name := range names {
		ent, err := t.reg.GetEntity(name)
		if err != nil {
			return nil, err
		}
		ents = append(ents, ent)
	}
	return ents, nil
}

// Enum is a named enumeration of literal values.
type Enum struct {
	Name string

	reg       *Registry
	rawValues string
}

// ElementName implements Element.
func (e *Enum) ElementName() string { return e.Name }

// Kind implements Element.
func (e *Enum) Kind() ElementKind { return KindEnumeration }

// Values returns the enumeration literals, ascendingly sorted.
func (e *Enum) Values() []string {
	values := splitList(e.rawValues)
	sort.Strings(values)
	return values
}

// Attribute is one attribute declaration in an entity's own scope.
type Attribute struct {
	Name     string
	Entity   *Entity
	Optional bool

	// IsCollection is true when the declaration carries explicit SET or
	// LIST cardinality bounds. Lo and Hi hold the literal bounds; an
	// unbounded side is the "?" symbol.
	IsCollection bool
	Lo, Hi       string

	// TypeName is the referenced type name, "" when nothing resolvable.
	TypeName string
}

// TypeInfo resolves the referenced type across all four registry maps.
// Returns nil for an unknown name.
func (a *Attribute) TypeInfo() Element {
	return a.Entity.reg.GetElement(a.TypeName)
}

// Inverse is one inverse relation declaration: an attribute declaration plus
// the forward attribute name it corresponds to on the referencing type.
type Inverse struct {
	Attribute
	ForAttr string
}

// IsRelation reports whether the referencing type is a relationship type.
// Computed via the inheritance chain, never stored: an inverse value is not
// always a relationship.
func (v *Inverse) IsRelation() bool {
	ent, err := v.Entity.reg.GetEntity(v.TypeName)
	if err != nil {
		return false
	}
	return ent.Inherits(relationshipRoot, true)
}

// relationshipRoot is the entity every relation kind derives from.
const relationshipRoot = "IfcRelationship"

// Entity is one entity definition: an optional single supertype plus the
// attribute and inverse declarations of its own scope. Merged views over the
// supertype chain are provided by the All* methods.
type Entity struct {
	Name string

	// SupertypeName is "" for a root entity. Multiple inheritance does
	// not exist in this grammar.
	SupertypeName string

	reg      *Registry
	attrs    map[string]*Attribute
	inverses map[string]*Inverse
}

// Supertype resolves the immediate supertype. Returns nil for a root entity
// or a dangling supertype name.
func (e *Entity) Supertype() *Entity {
	if e.SupertypeName == "" {
		return nil
	}
	sup, err := e.reg.GetEntity(e.SupertypeName)
	if err != nil {
		return nil
	}
	return sup
}

// ElementName implements Element.
func (e *Entity) ElementName() string { return e.Name }

// Kind implements Element.
func (e *Entity) Kind() ElementKind { return KindEntity }

// AttributeNames returns the own-scope attribute names, ascendingly sorted.
func (e *Entity) AttributeNames() []string {
	return sortedKeys(e.attrs)
}

// Attributes returns the own-scope attributes, ascendingly sorted by name.
func (e *Entity) Attributes() []*Attribute {
	out := make([]*Attribute, 0, len(e.attrs))
	for _, name := range e.AttributeNames() {
		out = append(out, e.attrs[name])
	}
	return out
}

// RequiredAttributeNames returns the own-scope attribute names with the
// optional ones filtered out, ascendingly sorted.
func (e *Entity) RequiredAttributeNames() []string {
	var out []string
	for _, a := range e.Attributes() {
		if !a.Optional {
			out = append(out, a.Name)
		}
	}
	return out
}

// InverseNames returns the own-scope inverse names, ascendingly sorted.
func (e *Entity) InverseNames() []string {
	return sortedKeys(e.inverses)
}

// Inverses returns the own-scope inverses, ascendingly sorted by name.
func (e *Entity) Inverses() []*Inverse {
	out := make([]*Inverse, 0, len(e.inverses))
	for _, name := range e.InverseNames() {
		out = append(out, e.inverses[name])
	}
	return out
}

// GetAttribute looks up an own-scope attribute by name.
func (e *Entity) GetAttribute(name string) (*Attribute, error) {
	a, ok := e.attrs[name]
	if !ok {
		return nil, &LookupError{Kind: KindAttribute, Name: name}
	}
	return a, nil
}

// GetInverse looks up an own-scope inverse by name.
func (e *Entity) GetInverse(name string) (*Inverse, error) {
	v, ok := e.inverses[name]
	if !ok {
		return nil, &LookupError{Kind: KindInverse, Name: name}
	}
	return v, nil
}

// AllAttributes walks the supertype chain to the root and concatenates the
// attribute lists root-first, leaf-last. A name redeclared in a subtype does
// not shadow its ancestor: both occurrences stay visible.
func (e *Entity) AllAttributes(includeOptional bool) []*Attribute {
	var own []*Attribute
	if includeOptional {
		own = e.Attributes()
	} else {
		for _, a := range e.Attributes() {
			if !a.Optional {
				own = append(own, a)
			}
		}
	}
	if sup := e.Supertype(); sup != nil {
		return append(sup.AllAttributes(includeOptional), own...)
	}
	return own
}

// AllAttributeNames returns the merged attribute names, root-first. When
// qualified is true each name carries its declaring entity as a dotted
// prefix, disambiguating same-named attributes across levels.
func (e *Entity) AllAttributeNames(includeOptional, qualified bool) []string {
	attrs := e.AllAttributes(includeOptional)
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if qualified {
			names = append(names, a.Entity.Name+"."+a.Name)
		} else {
			names = append(names, a.Name)
		}
	}
	return names
}

// AllInverses walks the supertype chain and concatenates the inverse lists
// root-first, leaf-last.
func (e *Entity) AllInverses() []*Inverse {
	own := e.Inverses()
	if sup := e.Supertype(); sup != nil {
		return append(sup.AllInverses(), own...)
	}
	return own
}

// AllInverseNames returns the merged inverse names, root-first, optionally
// qualified by declaring entity.
func (e *Entity) AllInverseNames(qualified bool) []string {
	invs := e.AllInverses()
	names := make([]string, 0, len(invs))
	for _, v := range invs {
		if qualified {
			names = append(names, v.Entity.Name+"."+v.Name)
		} else {
			names = append(names, v.Name)
		}
	}
	return names
}

// Inherits reports whether name is the immediate supertype, or, when deep is
// true, any ancestor on the chain. A root entity inherits nothing.
func (e *Entity) Inherits(name string, deep bool) bool {
	if e.SupertypeName == "" {
		return false
	}
	if e.SupertypeName == name {
		return true
	}
	if deep {
		if sup := e.Supertype(); sup != nil {
			return sup.Inherits(name, deep)
		}
	}
	return false
}

// Subtypes scans every entity in the registry and retains those inheriting
// from this one. The registry is read-only after construction, so the O(N)
// scan needs no caching.
func (e *Entity) Subtypes(deep bool) []*Entity {
	var out []*Entity
	for _, cand := range e.reg.Entities() {
		if cand.Inherits(e.Name, deep) {
			out = append(out, cand)
		}
	}
	return out
}

// SubtypeNames returns the names of Subtypes(deep).
func (e *Entity) SubtypeNames(deep bool) []string {
	subs := e.Subtypes(deep)
	names := make([]string, 0, len(subs))
	for _, s := range subs {
		names = append(names, s.Name)
	}
	return names
}

// parseEntity builds an Entity from one segmented ENTITY block.
func parseEntity(b block, reg *Registry) *Entity {
	e := &Entity{
		Name:     b.name,
		reg:      reg,
		attrs:    map[string]*Attribute{},
		inverses: map[string]*Inverse{},
	}

	if i := strings.LastIndex(b.body, "SUBTYPE OF ("); i >= 0 {
		rest := b.body[i+len("SUBTYPE OF ("):]
		if j := strings.Index(rest, ");"); j >= 0 {
			e.SupertypeName = rest[:j]
		}
	}

	// declarations start after the block header's terminating semicolon
	var inner string
	if _, rest, ok := strings.Cut(b.body, ";"); ok {
		inner = rest
	}

	for _, pair := range scanDecls(beforeSections(inner)) {
		name, raw := pair[0], pair[1]
		d := parseDecl(raw)
		e.attrs[name] = &Attribute{
			Name:         name,
			Entity:       e,
			Optional:     d.optional,
			IsCollection: d.isCollection,
			Lo:           d.lo,
			Hi:           d.hi,
			TypeName:     d.typeName,
		}
	}

	for _, pair := range scanDecls(afterInverse(inner)) {
		name, raw := pair[0], pair[1]
		d := parseDecl(raw)
		e.inverses[name] = &Inverse{
			Attribute: Attribute{
				Name:         name,
				Entity:       e,
				Optional:     d.optional,
				IsCollection: d.isCollection,
				Lo:           d.lo,
				Hi:           d.hi,
				TypeName:     d.typeName,
			},
			ForAttr: d.forAttr,
		}
	}

	return e
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
