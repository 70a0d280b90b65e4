package record

import (
	"fmt"

	"github.com/roach88/ifcread/internal/schema"
)

// Graph is an in-memory record provider built from documents. Construction
// resolves every reference and derives the inverse relation collections the
// navigation layer reads; after BuildGraph returns, the graph is immutable
// and safe to share.
type Graph struct {
	reg     *schema.Registry
	ordered []*memRecord
	byID    map[string]*memRecord
}

// BuildGraph resolves a document set against a schema registry.
//
// Every document type must name a known entity, and every $ref must target
// a document in the set. Inverse relation collections are derived from the
// forward attributes of relationship records, guided by the inverse
// declarations of each record's entity: a record's "IsDefinedBy" collection
// holds every IfcRelDefines whose RelatedObjects references it.
func BuildGraph(reg *schema.Registry, docs []Doc) (*Graph, error) {
	g := &Graph{reg: reg, byID: make(map[string]*memRecord, len(docs))}

	for _, doc := range docs {
		if _, err := reg.GetEntity(doc.Type); err != nil {
			return nil, fmt.Errorf("record %q: %w", doc.ID, err)
		}
		if doc.ID == "" {
			return nil, fmt.Errorf("record of type %s: missing id", doc.Type)
		}
		if _, dup := g.byID[doc.ID]; dup {
			return nil, fmt.Errorf("record %q: duplicate id", doc.ID)
		}
		rec := &memRecord{
			id:       doc.ID,
			typeName: doc.Type,
			reg:      reg,
			attrs:    make(map[string]any, len(doc.Attrs)),
			inverses: map[string][]Record{},
		}
		g.ordered = append(g.ordered, rec)
		g.byID[doc.ID] = rec
	}

	for i, doc := range docs {
		rec := g.ordered[i]
		for name, raw := range doc.Attrs {
			v, err := g.resolveValue(raw)
			if err != nil {
				return nil, fmt.Errorf("record %q, attribute %s: %w", doc.ID, name, err)
			}
			rec.attrs[name] = v
		}
	}

	g.deriveInverses()
	return g, nil
}

// resolveValue turns one document attribute value into its runtime form.
func (g *Graph) resolveValue(raw any) (any, error) {
	if id, ok := refID(raw); ok {
		target, ok := g.byID[id]
		if !ok {
			return nil, fmt.Errorf("dangling reference %q", id)
		}
		return target, nil
	}
	if v, ok := typedValue(raw); ok {
		return v, nil
	}
	if list, ok := raw.([]any); ok {
		resolved := make([]any, len(list))
		records := true
		for i, item := range list {
			v, err := g.resolveValue(item)
			if err != nil {
				return nil, err
			}
			resolved[i] = v
			if _, isRec := v.(*memRecord); !isRec {
				records = false
			}
		}
		if records {
			recs := make([]Record, len(resolved))
			for i, v := range resolved {
				recs[i] = v.(*memRecord)
			}
			return recs, nil
		}
		return resolved, nil
	}
	return raw, nil
}

// deriveInverses fills each record's inverse relation collections in
// document order, so relation iteration is stable across runs.
func (g *Graph) deriveInverses() {
	for _, rec := range g.ordered {
		meta, err := g.reg.GetEntity(rec.typeName)
		if err != nil {
			continue
		}
		for _, inv := range meta.AllInverses() {
			var related []Record
			for _, cand := range g.ordered {
				if !cand.IsA(inv.TypeName) {
					continue
				}
				if refersTo(cand.attrs[inv.ForAttr], rec) {
					related = append(related, cand)
				}
			}
			rec.inverses[inv.Name] = related
		}
	}
}

// refersTo reports whether a resolved attribute value references rec,
// directly or as a collection member.
func refersTo(v any, rec *memRecord) bool {
	switch t := v.(type) {
	case *memRecord:
		return t == rec
	case []Record:
		for _, r := range t {
			if r == Record(rec) {
				return true
			}
		}
	}
	return false
}

// ByType implements Provider.
func (g *Graph) ByType(typeName string) ([]Record, error) {
	if _, err := g.reg.GetEntity(typeName); err != nil {
		return nil, &InvalidTypeError{Name: typeName}
	}
	var out []Record
	for _, rec := range g.ordered {
		if rec.IsA(typeName) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Record returns one record by id.
func (g *Graph) Record(id string) (Record, bool) {
	rec, ok := g.byID[id]
	return rec, ok
}

// Len returns the number of records in the graph.
func (g *Graph) Len() int { return len(g.ordered) }

// memRecord is the Graph's Record implementation.
type memRecord struct {
	id       string
	typeName string
	reg      *schema.Registry
	attrs    map[string]any
	inverses map[string][]Record
}

// ID implements Record.
func (r *memRecord) ID() string { return r.id }

// TypeName implements Record.
func (r *memRecord) TypeName() string { return r.typeName }

// IsA implements Record, walking the schema inheritance chain.
func (r *memRecord) IsA(typeName string) bool {
	if r.typeName == typeName {
		return true
	}
	ok, err := r.reg.EntityInherits(r.typeName, typeName, true)
	return err == nil && ok
}

// Attr implements Record.
func (r *memRecord) Attr(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// Related implements Record. Inverse collections take precedence over
// forward attributes of the same name; the grammar never declares both.
func (r *memRecord) Related(name string) []Record {
	if related, ok := r.inverses[name]; ok {
		return related
	}
	switch t := r.attrs[name].(type) {
	case *memRecord:
		return []Record{t}
	case []Record:
		return t
	}
	return nil
}
