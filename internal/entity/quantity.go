package entity

import (
	"log/slog"
	"strings"

	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/record"
)

const quantityTypePrefix = "IfcQuantity"

// Quantity is one measured value attached to an object through a quantity
// set. A single concrete shape exists today.
type Quantity interface {
	Name() string
	Codename() string

	// Value returns the measure, read from the value field derived from
	// the record's type name (IfcQuantityLength reads LengthValue).
	Value() any

	// Unit returns the explicit unit field, nil when absent.
	Unit() any
}

// NewQuantity wraps a simple-quantity record. Unrecognized shapes yield
// nil with a diagnostic, never an error.
func NewQuantity(rec record.Record) Quantity {
	if rec.IsA("IfcPhysicalSimpleQuantity") {
		return &simpleQuantity{rec: rec}
	}
	slog.Warn("dropping unsupported quantity shape",
		"type", rec.TypeName(), "id", rec.ID())
	return nil
}

type simpleQuantity struct {
	rec record.Record
}

func (q *simpleQuantity) Name() string     { return attrString(q.rec, "Name") }
func (q *simpleQuantity) Codename() string { return naming.Codename(q.Name()) }

func (q *simpleQuantity) Value() any {
	field := strings.TrimPrefix(q.rec.TypeName(), quantityTypePrefix) + "Value"
	return attrValue(q.rec, field)
}

func (q *simpleQuantity) Unit() any {
	v, ok := q.rec.Attr("Unit")
	if !ok {
		return nil
	}
	return v
}
