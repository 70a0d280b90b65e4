// Package reader exposes the outward query surface over a record model:
// the unique project root, by-type entity listings with parent filtering,
// and convenience queries for the common spatial and element kinds.
package reader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/ifcread/internal/entity"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

const complexComposition = "COMPLEX"

// StructuralError reports a cardinality violation: zero or multiple
// records found where exactly one is required.
type StructuralError struct {
	TypeName string
	Count    int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("expected exactly one %s record, found %d", e.TypeName, e.Count)
}

// IsStructural returns true if the error is a cardinality violation.
// Uses errors.As to handle wrapped errors.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// DataReader answers queries against one record model. Construction
// resolves the unique project root; a model without exactly one project
// is structurally invalid.
type DataReader struct {
	provider record.Provider
	reg      *schema.Registry
	project  *entity.Object
}

// New builds a reader over a provider and its schema registry.
func New(provider record.Provider, reg *schema.Registry) (*DataReader, error) {
	recs, err := provider.ByType("IfcProject")
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}
	if len(recs) != 1 {
		return nil, &StructuralError{TypeName: "IfcProject", Count: len(recs)}
	}
	project, err := entity.NewObject(recs[0], reg)
	if err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}
	return &DataReader{provider: provider, reg: reg, project: project}, nil
}

// Project returns the unique project root.
func (r *DataReader) Project() *entity.Object { return r.project }

// Registry returns the schema registry the reader was built against.
func (r *DataReader) Registry() *schema.Registry { return r.reg }

// Object wraps one raw record in its navigation form.
func (r *DataReader) Object(rec record.Record) (*entity.Object, error) {
	return entity.NewObject(rec, r.reg)
}

// ReadEntities lists every record of the named type, subtypes included,
// optionally keeping only direct children of parent. An unrecognized type
// name fails with the provider's invalid-name error, distinct from an
// empty result.
func (r *DataReader) ReadEntities(typeName string, parent *entity.Object) ([]*entity.Object, error) {
	recs, err := r.provider.ByType(typeName)
	if err != nil {
		return nil, err
	}
	var out []*entity.Object
	for _, rec := range recs {
		obj, err := entity.NewObject(rec, r.reg)
		if err != nil {
			slog.Warn("skipping non-navigable record",
				"type", rec.TypeName(), "id", rec.ID(), "err", err)
			continue
		}
		if parent != nil {
			p := obj.Parent()
			if p == nil || !p.Equal(parent.Base) {
				continue
			}
		}
		out = append(out, obj)
	}
	return out, nil
}

// ReadSites lists the model's sites. With undividedOnly, a site is kept
// when its composition kind is ELEMENT; a COMPLEX site is replaced by its
// parent site when that parent qualifies.
func (r *DataReader) ReadSites(undividedOnly bool) ([]*entity.Object, error) {
	sites, err := r.ReadEntities("IfcSite", nil)
	if err != nil {
		return nil, err
	}
	if !undividedOnly {
		return sites, nil
	}
	var out []*entity.Object
	for _, site := range sites {
		switch {
		case site.IsElement():
			out = appendUnique(out, site)
		case site.CompositionType() == complexComposition:
			parent := site.Parent()
			if parent != nil && parent.IsA("IfcSite") && parent.IsElement() {
				out = appendUnique(out, parent)
			}
		}
	}
	return out, nil
}

// ReadBuildings lists buildings, optionally undivided-only and filtered
// by parent.
func (r *DataReader) ReadBuildings(undividedOnly bool, parent *entity.Object) ([]*entity.Object, error) {
	return r.readSpatial("IfcBuilding", undividedOnly, parent)
}

// ReadBuildingStoreys lists storeys, optionally undivided-only and
// filtered by parent.
func (r *DataReader) ReadBuildingStoreys(undividedOnly bool, parent *entity.Object) ([]*entity.Object, error) {
	return r.readSpatial("IfcBuildingStorey", undividedOnly, parent)
}

// ReadSpaces lists spaces, optionally undivided-only and filtered by
// parent.
func (r *DataReader) ReadSpaces(undividedOnly bool, parent *entity.Object) ([]*entity.Object, error) {
	return r.readSpatial("IfcSpace", undividedOnly, parent)
}

// ReadZones lists every zone in the model.
func (r *DataReader) ReadZones() ([]*entity.Object, error) {
	return r.ReadEntities("IfcZone", nil)
}

// ReadWalls lists every wall, standard-case walls included exactly once.
func (r *DataReader) ReadWalls() ([]*entity.Object, error) {
	walls, err := r.ReadEntities("IfcWall", nil)
	if err != nil {
		return nil, err
	}
	cases, err := r.ReadEntities("IfcWallStandardCase", nil)
	if err != nil {
		return nil, err
	}
	for _, wall := range cases {
		walls = appendUnique(walls, wall)
	}
	return walls, nil
}

// ReadWindows lists every window in the model.
func (r *DataReader) ReadWindows() ([]*entity.Object, error) {
	return r.ReadEntities("IfcWindow", nil)
}

func (r *DataReader) readSpatial(typeName string, undividedOnly bool, parent *entity.Object) ([]*entity.Object, error) {
	objs, err := r.ReadEntities(typeName, parent)
	if err != nil {
		return nil, err
	}
	if !undividedOnly {
		return objs, nil
	}
	var out []*entity.Object
	for _, obj := range objs {
		if obj.IsElement() {
			out = append(out, obj)
		}
	}
	return out, nil
}

// appendUnique appends obj unless an object with the same identifier is
// already present.
func appendUnique(objs []*entity.Object, obj *entity.Object) []*entity.Object {
	for _, existing := range objs {
		if existing.Equal(obj.Base) {
			return objs
		}
	}
	return append(objs, obj)
}
