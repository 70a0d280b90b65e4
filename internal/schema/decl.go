package schema

import "strings"

// sectionKeywords are the entity-block section markers that terminate a run
// of declarations. Keywords are not guaranteed to appear in source order
// (other than after INVERSE), so splitting always takes the earliest
// boundary, never the first keyword in declared order.
var sectionKeywords = []string{
	"WHERE", "INVERSE", "WR2", "WR3", "WR4", "WR5", "UNIQUE", "DERIVE",
}

// decl is one parsed attribute or inverse declaration.
type decl struct {
	optional     bool
	isCollection bool
	lo, hi       string // literal bounds, "?" when unbounded
	typeName     string // referenced type name, "" when nothing resolvable
	forAttr      string // inverse declarations only
}

// parseDecl parses the type side of one declaration:
//
//	[OPTIONAL] [(SET|LIST) [lo:hi] OF] TypeName [FOR attr]
//
// An empty or type-less string yields a zero declaration rather than an
// error; callers treat that as nothing resolvable.
func parseDecl(raw string) decl {
	d := decl{optional: strings.HasPrefix(raw, "OPTIONAL")}

	head := raw
	if i := strings.Index(head, " FOR "); i >= 0 {
		d.forAttr = head[i+len(" FOR "):]
		head = head[:i]
	}

	// the referenced type is the innermost identifier, anchored at the end
	fields := strings.Fields(head)
	if len(fields) == 0 || !isTypeIdent(fields[len(fields)-1]) {
		// no resolvable type: keep the raw expression, minus the
		// optionality keyword, as an opaque type name
		d.typeName = strings.TrimPrefix(raw, "OPTIONAL ")
		d.forAttr = ""
		return d
	}
	d.typeName = fields[len(fields)-1]

	for i, f := range fields {
		if f != "SET" && f != "LIST" {
			continue
		}
		if i+1 < len(fields) {
			if lo, hi, ok := parseBounds(fields[i+1]); ok {
				d.lo, d.hi = lo, hi
				d.isCollection = true
			}
		}
		break
	}
	return d
}

// parseBounds parses a "[lo:hi]" cardinality expression.
func parseBounds(s string) (lo, hi string, ok bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return "", "", false
	}
	lo, hi, ok = strings.Cut(s[1:len(s)-1], ":")
	if !ok || !isBound(lo) || !isBound(hi) {
		return "", "", false
	}
	return lo, hi, true
}

func isBound(s string) bool {
	if s == "?" {
		return true
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isTypeIdent reports whether s looks like a schema type identifier.
func isTypeIdent(s string) bool {
	if !strings.HasPrefix(s, "Ifc") || len(s) == len("Ifc") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// beforeSections returns the prefix of s ending at the earliest section
// keyword boundary. Boundaries match a keyword at the start of a line,
// indented by exactly one space.
func beforeSections(s string) string {
	cut := len(s)
	for _, kw := range sectionKeywords {
		if i := strings.Index(s, "\n "+kw); i >= 0 && i < cut {
			cut = i
		}
	}
	return s[:cut]
}

// afterInverse returns the text following the INVERSE section marker,
// trimmed at the earliest remaining section boundary. Returns "" when the
// entity block has no INVERSE section.
func afterInverse(s string) string {
	_, rest, ok := strings.Cut(s, "\n INVERSE")
	if !ok {
		return ""
	}
	return beforeSections(rest)
}

// scanDecls walks a declaration region, yielding (name, rawType) pairs from
// each "name : type;" declaration. Declarations may span lines; the
// newline-tab continuation joints are removed from both sides.
func scanDecls(s string) [][2]string {
	var out [][2]string
	for {
		i := strings.Index(s, " : ")
		if i < 0 {
			return out
		}
		name := s[:i]
		rest := s[i+len(" : "):]
		j := strings.IndexByte(rest, ';')
		if j < 0 {
			return out
		}
		out = append(out, [2]string{unfold(name), unfold(rest[:j])})
		s = rest[j+1:]
	}
}

// unfold removes list-continuation joints from a declaration fragment.
func unfold(s string) string {
	return strings.Trim(strings.ReplaceAll(s, "\n\t", ""), " \n")
}
