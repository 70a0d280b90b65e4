// Package schema parses the EXPRESS-style grammar that describes an IFC
// type system into a queryable, read-only type registry.
//
// The registry is the foundational layer: every other internal package
// consumes it, it imports nothing internal. It answers name lookups,
// inheritance and subtype queries, and supertype-chain attribute merges
// (root-first, leaf-last).
//
// Key design constraints:
//   - A Registry is immutable once Parse returns and is shared by reference
//     across every entity node built against it.
//   - Name lookups are exact; a miss is a LookupError at the query site.
//   - Declaration regions split at the earliest section-keyword boundary,
//     never at the first keyword in declared order.
package schema
