package schema

import (
	"errors"
	"fmt"
)

// ElementKind identifies which registry map an element belongs to.
type ElementKind string

const (
	KindDefinedType ElementKind = "defined type"
	KindSelectType  ElementKind = "select type"
	KindEnumeration ElementKind = "enumeration"
	KindEntity      ElementKind = "entity"
	KindAttribute   ElementKind = "attribute"
	KindInverse     ElementKind = "inverse"
)

// LookupError reports a name queried against a registry map that does not
// contain it. Lookups never fuzzy-match: an exact miss is an error at the
// point of the named query, not at registry construction.
type LookupError struct {
	Kind ElementKind
	Name string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// IsLookup returns true if the error is a registry lookup miss.
// Uses errors.As to handle wrapped errors.
func IsLookup(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

// UnknownSchemaError reports a schema name outside the built-in set.
type UnknownSchemaError struct {
	Name string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("invalid schema name: %q", e.Name)
}
