package schema

import "strings"

// The segmenter locates grammar constructs by their fixed start/end markers:
//
//	TYPE <name> = <expr>;                          (single line)
//	TYPE <name> = SELECT\n\t(<list>);              (list continuation style)
//	TYPE <name> = ENUMERATION OF\n\t(<list>);
//	ENTITY <name> ... END_ENTITY;                  (non-greedy, spans lines)
//
// A construct with malformed markers produces no block. That is deliberate:
// the grammar source is trusted, a missing terminator means the construct is
// out of this reader's scope, not a recoverable fault.

// block is one segmented construct: its name and raw inner text.
type block struct {
	name string
	body string
}

// scanVersion extracts the schema version from the "SCHEMA <name>;" header.
// Returns "" when no header is present.
func scanVersion(src string) string {
	i := strings.Index(src, "SCHEMA ")
	if i < 0 {
		return ""
	}
	rest := src[i+len("SCHEMA "):]
	j := strings.IndexByte(rest, ';')
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// scanDefinedTypes collects single-line "TYPE <name> = <expr>;" aliases.
// Multi-line SELECT and ENUMERATION constructs never match because their
// opening line carries no terminating semicolon.
func scanDefinedTypes(src string) []block {
	var out []block
	for _, line := range strings.Split(src, "\n") {
		if !strings.HasPrefix(line, "TYPE ") || !strings.HasSuffix(line, ";") {
			continue
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(line, "TYPE "), ";")
		name, expr, ok := strings.Cut(inner, " = ")
		if !ok {
			continue
		}
		out = append(out, block{name: name, body: expr})
	}
	return out
}

// scanSelectTypes collects "TYPE <name> = SELECT" constructs.
func scanSelectTypes(src string) []block {
	return scanListTypes(src, "SELECT")
}

// scanEnumerations collects "TYPE <name> = ENUMERATION OF" constructs.
func scanEnumerations(src string) []block {
	return scanListTypes(src, "ENUMERATION OF")
}

// scanListTypes collects list-bodied TYPE constructs of the form
//
//	TYPE <name> = <marker>
//		(<item>
//		,<item>);
//
// The body is the raw parenthesized list, continuation separators included.
func scanListTypes(src, marker string) []block {
	var out []block
	lead := " = " + marker + "\n\t("
	for i := 0; ; {
		j := strings.Index(src[i:], "TYPE ")
		if j < 0 {
			return out
		}
		pos := i + j + len("TYPE ")
		k := strings.Index(src[pos:], lead)
		if k < 0 {
			return out
		}
		name := src[pos : pos+k]
		if strings.ContainsAny(name, "\n;") {
			// the marker belongs to a later construct, retry after this TYPE
			i = pos
			continue
		}
		bodyStart := pos + k + len(lead)
		end := strings.Index(src[bodyStart:], ");")
		if end < 0 {
			return out
		}
		out = append(out, block{name: name, body: src[bodyStart : bodyStart+end]})
		i = bodyStart + end + len(");")
	}
}

// scanEntities collects "ENTITY <name> ... END_ENTITY;" spans. Matching is
// non-greedy: each block ends at the earliest terminator, so same-named
// markers never swallow a following entity. The name runs to the first
// semicolon or whitespace of the block.
func scanEntities(src string) []block {
	var out []block
	for i := 0; ; {
		j := strings.Index(src[i:], "ENTITY ")
		if j < 0 {
			return out
		}
		// accept matches at text start or line start only
		pos := i + j
		if pos > 0 && src[pos-1] != '\n' {
			i = pos + len("ENTITY ")
			continue
		}
		bodyStart := pos + len("ENTITY ")
		end := strings.Index(src[bodyStart:], "END_ENTITY;")
		if end < 0 {
			return out
		}
		body := src[bodyStart : bodyStart+end]
		if name := entityName(body); name != "" {
			out = append(out, block{name: name, body: body})
		}
		i = bodyStart + end + len("END_ENTITY;")
	}
}

// entityName returns the text preceding the first semicolon or whitespace.
func entityName(body string) string {
	if i := strings.IndexAny(body, "; \t\n"); i >= 0 {
		return body[:i]
	}
	return body
}

// splitList turns a raw parenthesized list body into its items, removing the
// newline-tab continuation joints.
func splitList(body string) []string {
	return strings.Split(strings.ReplaceAll(body, "\n\t", ""), ",")
}
