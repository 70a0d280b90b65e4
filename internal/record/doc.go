package record

// Doc is the neutral document form of one raw record, the shape shared by
// the YAML fixture format and the SQLite store.
//
// Attribute values are plain scalars, lists, or one of two tagged maps:
//
//	{$ref: <id>}                          reference to another record
//	{$type: <name>, $value: <scalar>}     typed value wrapper
//
// Lists may mix scalars and tagged maps. Nested inline records are not
// supported: every record is addressed by id.
type Doc struct {
	ID    string         `yaml:"id" json:"id"`
	Type  string         `yaml:"type" json:"type"`
	Attrs map[string]any `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

const (
	refKey       = "$ref"
	valueTypeKey = "$type"
	valueKey     = "$value"
)

// refID extracts the target id from a {$ref: id} map, if v is one.
func refID(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	id, ok := m[refKey].(string)
	return id, ok
}

// typedValue extracts a {$type, $value} map into a Value, if v is one.
func typedValue(v any) (Value, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 2 {
		return Value{}, false
	}
	name, ok := m[valueTypeKey].(string)
	if !ok {
		return Value{}, false
	}
	raw, ok := m[valueKey]
	if !ok {
		return Value{}, false
	}
	return Value{TypeName: name, Raw: raw}, true
}
