package schema

import (
	"embed"
	"fmt"
)

//go:embed specs/*.exp
var specFS embed.FS

// builtinSpecs maps a schema version name to its embedded grammar file.
var builtinSpecs = map[string]string{
	"IFC2X3": "specs/IFC2X3.exp",
	"IFC4":   "specs/IFC4.exp",
}

// Registry owns every parsed grammar element, indexed by name across four
// independent maps. It is built once per schema version and read-only
// thereafter: a single Registry is safely shared by any number of entity
// nodes without locking, provided construction completed before sharing.
type Registry struct {
	version string

	definedTypes map[string]*DefinedType
	selectTypes  map[string]*SelectType
	enums        map[string]*Enum
	entities     map[string]*Entity
}

// Load parses one of the built-in grammar specifications by version name.
func Load(name string) (*Registry, error) {
	path, ok := builtinSpecs[name]
	if !ok {
		return nil, &UnknownSchemaError{Name: name}
	}
	src, err := specFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}
	return Parse(string(src)), nil
}

// Parse segments grammar text and builds the registry. Constructs with
// malformed markers are skipped, not reported: the grammar source defines
// this reader's scope, it is not user input.
func Parse(src string) *Registry {
	r := &Registry{
		version:      scanVersion(src),
		definedTypes: map[string]*DefinedType{},
		selectTypes:  map[string]*SelectType{},
		enums:        map[string]*Enum{},
		entities:     map[string]*Entity{},
	}
	for _, b := range scanDefinedTypes(src) {
		r.definedTypes[b.name] = &DefinedType{Name: b.name, reg: r, rawValue: b.body}
	}
	for _, b := range scanSelectTypes(src) {
		r.selectTypes[b.name] = &SelectType{Name: b.name, reg: r, rawTypes: b.body}
	}
	for _, b := range scanEnumerations(src) {
		r.enums[b.name] = &Enum{Name: b.name, reg: r, rawValues: b.body}
	}
	for _, b := range scanEntities(src) {
		r.entities[b.name] = parseEntity(b, r)
	}
	return r
}

// Version returns the version identifier from the grammar header.
func (r *Registry) Version() string { return r.version }

// Same reports registry equality, which compares the version identifier
// only: two registries built from the same grammar text are interchangeable.
func (r *Registry) Same(other *Registry) bool {
	return other != nil && r.version == other.version
}

// GetDefinedType looks up a defined type by name.
func (r *Registry) GetDefinedType(name string) (*DefinedType, error) {
	t, ok := r.definedTypes[name]
	if !ok {
		return nil, &LookupError{Kind: KindDefinedType, Name: name}
	}
	return t, nil
}

// GetSelectType looks up a select type by name.
func (r *Registry) GetSelectType(name string) (*SelectType, error) {
	t, ok := r.selectTypes[name]
	if !ok {
		return nil, &LookupError{Kind: KindSelectType, Name: name}
	}
	return t, nil
}

// GetEnumeration looks up an enumeration by name.
func (r *Registry) GetEnumeration(name string) (*Enum, error) {
	e, ok := r.enums[name]
	if !ok {
		return nil, &LookupError{Kind: KindEnumeration, Name: name}
	}
	return e, nil
}

// GetEntity looks up an entity by name.
func (r *Registry) GetEntity(name string) (*Entity, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, &LookupError{Kind: KindEntity, Name: name}
	}
	return e, nil
}

// GetElement probes all four maps in fixed order: defined type, select
// type, enumeration, entity. Returns the first hit, or nil when the name is
// nothing at all. Never fails.
func (r *Registry) GetElement(name string) Element {
	if t, ok := r.definedTypes[name]; ok {
		return t
	}
	if t, ok := r.selectTypes[name]; ok {
		return t
	}
	if e, ok := r.enums[name]; ok {
		return e
	}
	if e, ok := r.entities[name]; ok {
		return e
	}
	return nil
}

// EntityInherits reports whether parent is a supertype of the named entity.
func (r *Registry) EntityInherits(name, parent string, deep bool) (bool, error) {
	e, err := r.GetEntity(name)
	if err != nil {
		return false, err
	}
	return e.Inherits(parent, deep), nil
}

// DefinedTypeNames returns every defined type name, ascendingly sorted.
func (r *Registry) DefinedTypeNames() []string { return sortedKeys(r.definedTypes) }

// SelectTypeNames returns every select type name, ascendingly sorted.
func (r *Registry) SelectTypeNames() []string { return sortedKeys(r.selectTypes) }

// EnumerationNames returns every enumeration name, ascendingly sorted.
func (r *Registry) EnumerationNames() []string { return sortedKeys(r.enums) }

// EntityNames returns every entity name, ascendingly sorted.
func (r *Registry) EntityNames() []string { return sortedKeys(r.entities) }

// DefinedTypes returns every defined type, ascendingly sorted by name.
func (r *Registry) DefinedTypes() []*DefinedType {
	out := make([]*DefinedType, 0, len(r.definedTypes))
	for _, name := range r.DefinedTypeNames() {
		out = append(out, r.definedTypes[name])
	}
	return out
}

// SelectTypes returns every select type, ascendingly sorted by name.
func (r *Registry) SelectTypes() []*SelectType {
	out := make([]*SelectType, 0, len(r.selectTypes))
	for _, name := range r.SelectTypeNames() {
		out = append(out, r.selectTypes[name])
	}
	return out
}

// Enumerations returns every enumeration, ascendingly sorted by name.
func (r *Registry) Enumerations() []*Enum {
	out := make([]*Enum, 0, len(r.enums))
	for _, name := range r.EnumerationNames() {
		out = append(out, r.enums[name])
	}
	return out
}

// Entities returns every entity, ascendingly sorted by name.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.entities))
	for _, name := range r.EntityNames() {
		out = append(out, r.entities[name])
	}
	return out
}
