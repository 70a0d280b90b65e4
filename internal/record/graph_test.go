package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ifcread/internal/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Load("IFC4")
	require.NoError(t, err)
	return reg
}

func ref(id string) map[string]any {
	return map[string]any{"$ref": id}
}

func typed(name string, raw any) map[string]any {
	return map[string]any{"$type": name, "$value": raw}
}

// siteDocs is a minimal spatial graph: one site aggregating two buildings,
// one wall contained in the first building.
func siteDocs() []Doc {
	return []Doc{
		{ID: "site", Type: "IfcSite", Attrs: map[string]any{
			"Name":            "Yard",
			"CompositionType": "ELEMENT",
		}},
		{ID: "b1", Type: "IfcBuilding", Attrs: map[string]any{"Name": "North"}},
		{ID: "b2", Type: "IfcBuilding", Attrs: map[string]any{"Name": "South"}},
		{ID: "wall", Type: "IfcWallStandardCase", Attrs: map[string]any{
			"Name": "W1",
			"Tag":  typed("IfcLabel", "W-001"),
		}},
		{ID: "agg1", Type: "IfcRelAggregates", Attrs: map[string]any{
			"RelatingObject": ref("site"),
			"RelatedObjects": []any{ref("b1")},
		}},
		{ID: "agg2", Type: "IfcRelAggregates", Attrs: map[string]any{
			"RelatingObject": ref("site"),
			"RelatedObjects": []any{ref("b2")},
		}},
		{ID: "contains", Type: "IfcRelContainedInSpatialStructure", Attrs: map[string]any{
			"RelatingStructure": ref("b1"),
			"RelatedElements":   []any{ref("wall")},
		}},
	}
}

func TestBuildGraphErrors(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		docs []Doc
		want string
	}{
		{
			name: "unknown type",
			docs: []Doc{{ID: "x", Type: "IfcSpaceship"}},
			want: "record \"x\"",
		},
		{
			name: "missing id",
			docs: []Doc{{Type: "IfcSite"}},
			want: "missing id",
		},
		{
			name: "duplicate id",
			docs: []Doc{{ID: "x", Type: "IfcSite"}, {ID: "x", Type: "IfcSite"}},
			want: "duplicate id",
		},
		{
			name: "dangling reference",
			docs: []Doc{{ID: "x", Type: "IfcRelAggregates", Attrs: map[string]any{
				"RelatingObject": ref("nope"),
			}}},
			want: "dangling reference",
		},
		{
			name: "dangling reference in list",
			docs: []Doc{{ID: "x", Type: "IfcRelAggregates", Attrs: map[string]any{
				"RelatedObjects": []any{ref("nope")},
			}}},
			want: "dangling reference",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildGraph(reg, tc.docs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestGraphAttr(t *testing.T) {
	reg := testRegistry(t)
	g, err := BuildGraph(reg, siteDocs())
	require.NoError(t, err)

	site, ok := g.Record("site")
	require.True(t, ok)

	name, ok := site.Attr("Name")
	require.True(t, ok)
	assert.Equal(t, "Yard", name)

	_, ok = site.Attr("Description")
	assert.False(t, ok)

	wall, ok := g.Record("wall")
	require.True(t, ok)
	tag, ok := wall.Attr("Tag")
	require.True(t, ok)
	assert.Equal(t, Value{TypeName: "IfcLabel", Raw: "W-001"}, tag)

	agg, ok := g.Record("agg1")
	require.True(t, ok)
	relating, ok := agg.Attr("RelatingObject")
	require.True(t, ok)
	assert.Same(t, site, relating)
}

func TestGraphIsA(t *testing.T) {
	reg := testRegistry(t)
	g, err := BuildGraph(reg, siteDocs())
	require.NoError(t, err)

	wall, ok := g.Record("wall")
	require.True(t, ok)

	assert.True(t, wall.IsA("IfcWallStandardCase"))
	assert.True(t, wall.IsA("IfcWall"))
	assert.True(t, wall.IsA("IfcElement"))
	assert.True(t, wall.IsA("IfcRoot"))
	assert.False(t, wall.IsA("IfcSite"))
	assert.False(t, wall.IsA("NotAType"))
}

func TestGraphRelatedForward(t *testing.T) {
	reg := testRegistry(t)
	g, err := BuildGraph(reg, siteDocs())
	require.NoError(t, err)

	agg, ok := g.Record("agg1")
	require.True(t, ok)

	relating := agg.Related("RelatingObject")
	require.Len(t, relating, 1)
	assert.Equal(t, "site", relating[0].ID())

	related := agg.Related("RelatedObjects")
	require.Len(t, related, 1)
	assert.Equal(t, "b1", related[0].ID())

	assert.Nil(t, agg.Related("NoSuchRelation"))
}

func TestGraphRelatedInverse(t *testing.T) {
	reg := testRegistry(t)
	g, err := BuildGraph(reg, siteDocs())
	require.NoError(t, err)

	site, ok := g.Record("site")
	require.True(t, ok)

	// Derived from the two aggregation records, in document order.
	decomposed := site.Related("IsDecomposedBy")
	require.Len(t, decomposed, 2)
	assert.Equal(t, "agg1", decomposed[0].ID())
	assert.Equal(t, "agg2", decomposed[1].ID())

	b1, ok := g.Record("b1")
	require.True(t, ok)
	up := b1.Related("Decomposes")
	require.Len(t, up, 1)
	assert.Equal(t, "agg1", up[0].ID())

	contains := b1.Related("ContainsElements")
	require.Len(t, contains, 1)
	assert.Equal(t, "contains", contains[0].ID())

	wall, ok := g.Record("wall")
	require.True(t, ok)
	in := wall.Related("ContainedInStructure")
	require.Len(t, in, 1)
	assert.Equal(t, "contains", in[0].ID())

	// Declared inverse with no matching relations is empty, not missing.
	b2, ok := g.Record("b2")
	require.True(t, ok)
	assert.Empty(t, b2.Related("ContainsElements"))
}

func TestGraphByType(t *testing.T) {
	reg := testRegistry(t)
	g, err := BuildGraph(reg, siteDocs())
	require.NoError(t, err)

	buildings, err := g.ByType("IfcBuilding")
	require.NoError(t, err)
	require.Len(t, buildings, 2)
	assert.Equal(t, "b1", buildings[0].ID())
	assert.Equal(t, "b2", buildings[1].ID())

	// Subtype-inclusive: IfcWall matches the standard-case wall.
	walls, err := g.ByType("IfcWall")
	require.NoError(t, err)
	require.Len(t, walls, 1)
	assert.Equal(t, "IfcWallStandardCase", walls[0].TypeName())

	spatial, err := g.ByType("IfcSpatialStructureElement")
	require.NoError(t, err)
	assert.Len(t, spatial, 3)

	none, err := g.ByType("IfcSpace")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = g.ByType("IfcNothing")
	require.Error(t, err)
	assert.True(t, IsInvalidType(err))
}

func TestGraphLen(t *testing.T) {
	reg := testRegistry(t)
	g, err := BuildGraph(reg, siteDocs())
	require.NoError(t, err)
	assert.Equal(t, 7, g.Len())
}

func TestDocTaggedMaps(t *testing.T) {
	id, ok := refID(map[string]any{"$ref": "abc"})
	require.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = refID(map[string]any{"$ref": "abc", "extra": 1})
	assert.False(t, ok)

	_, ok = refID("abc")
	assert.False(t, ok)

	v, ok := typedValue(map[string]any{"$type": "IfcLabel", "$value": "x"})
	require.True(t, ok)
	assert.Equal(t, Value{TypeName: "IfcLabel", Raw: "x"}, v)

	_, ok = typedValue(map[string]any{"$type": "IfcLabel"})
	assert.False(t, ok)

	_, ok = typedValue(map[string]any{"$value": "x", "other": 1})
	assert.False(t, ok)
}
