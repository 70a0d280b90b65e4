// Package fixture loads YAML record fixtures into a schema registry and a
// resolved record graph. Files are shape-checked against an embedded CUE
// schema before decoding, so malformed fixtures fail with a structural
// error instead of a confusing resolution error downstream.
package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ifcread/internal/naming"
	"github.com/roach88/ifcread/internal/record"
	"github.com/roach88/ifcread/internal/schema"
)

//go:embed fixture.cue
var fixtureCUE []byte

// File is one decoded fixture file: a schema version name plus the record
// documents to build the graph from.
type File struct {
	Schema  string       `yaml:"schema"`
	Records []record.Doc `yaml:"records"`
}

// Load reads, validates, and resolves a fixture file. Records without an
// id are assigned a fresh compressed guid, in file order, before the graph
// is built.
func Load(path string) (*schema.Registry, *record.Graph, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return f.Build()
}

// Parse is Load for in-memory fixture content.
func Parse(data []byte) (*schema.Registry, *record.Graph, error) {
	f, err := Read(data)
	if err != nil {
		return nil, nil, err
	}
	return f.Build()
}

// ReadFile reads and validates a fixture file without building the graph.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Read(data)
}

// Read validates fixture content and decodes it, assigning a fresh
// compressed guid to every record lacking an id.
func Read(data []byte) (*File, error) {
	if err := validateShape(data); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	for i := range f.Records {
		if f.Records[i].ID == "" {
			f.Records[i].ID = naming.NewGlobalID()
		}
	}
	return &f, nil
}

// Build loads the named built-in grammar and resolves the record graph.
func (f *File) Build() (*schema.Registry, *record.Graph, error) {
	reg, err := schema.Load(f.Schema)
	if err != nil {
		return nil, nil, err
	}
	graph, err := record.BuildGraph(reg, f.Records)
	if err != nil {
		return nil, nil, err
	}
	return reg, graph, nil
}

// validateShape unifies the decoded document with the embedded CUE schema.
func validateShape(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}

	ctx := cuecontext.New()
	schemaVal := ctx.CompileBytes(fixtureCUE)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("compile fixture schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Fixture"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup fixture schema: %w", err)
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
