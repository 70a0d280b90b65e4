// Package record defines the raw-record contract consumed by the navigation
// and reader layers, plus a reference graph builder that turns neutral
// record documents into a queryable in-memory provider.
//
// A Record is one typed entity instance: addressable by stable identifier,
// introspectable for type membership, and carrying named relation
// collections on both the forward and the inverse side. Records are owned
// by their provider; consumers hold references and never mutate them.
package record

import (
	"errors"
	"fmt"
)

// Record is one raw typed entity instance.
type Record interface {
	// ID returns the stable identifier, "" when the record kind has none.
	ID() string

	// TypeName returns the declared type name.
	TypeName() string

	// IsA reports type membership, honoring the record's own inheritance
	// chain: a record is-a its declared type and every supertype of it.
	IsA(typeName string) bool

	// Attr returns the field value for a declared attribute name. Scalar
	// fields yield their bare value, typed wrappers yield a Value, and
	// reference fields yield a Record or []Record. The second result is
	// false when the field is absent or unset.
	Attr(name string) (any, bool)

	// Related returns the relation collection for a forward reference
	// attribute or an inverse relation name. The collection may have 0,
	// 1, or many entries depending on the relation kind; unknown names
	// yield nil.
	Related(name string) []Record
}

// Value is a typed scalar wrapper: a bare value carrying its declared type
// name, the shape a "nominal value" field takes.
type Value struct {
	TypeName string
	Raw      any
}

// Provider supplies raw records by type name.
type Provider interface {
	// ByType returns every record satisfying the named type, its own
	// subtypes included, in stable document order. An unrecognized type
	// name is an InvalidTypeError, distinct from an empty result.
	ByType(typeName string) ([]Record, error)
}

// InvalidTypeError reports a type name the provider's schema does not know.
type InvalidTypeError struct {
	Name string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid entity name: %q", e.Name)
}

// IsInvalidType returns true if the error is an unrecognized type name.
// Uses errors.As to handle wrapped errors.
func IsInvalidType(err error) bool {
	var ie *InvalidTypeError
	return errors.As(err, &ie)
}
