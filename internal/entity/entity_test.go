package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ifcread/internal/record"
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

func refs(ids ...string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = ref(id)
	}
	return out
}

func typed(name string, raw any) map[string]any {
	return map[string]any{"$type": name, "$value": raw}
}

// houseDocs is the shared navigation fixture: a spatial hierarchy with a
// zone, a voided wall carrying property and quantity sets, and a typed
// door carrying a plain and a predefined property set.
func houseDocs() []record.Doc {
	return []record.Doc{
		{ID: "project", Type: "IfcProject", Attrs: map[string]any{"Name": "House Project"}},
		{ID: "site", Type: "IfcSite", Attrs: map[string]any{
			"Name": "Site", "CompositionType": "ELEMENT",
		}},
		{ID: "building", Type: "IfcBuilding", Attrs: map[string]any{
			"Name": "House", "CompositionType": "ELEMENT",
		}},
		{ID: "storey1", Type: "IfcBuildingStorey", Attrs: map[string]any{
			"Name": "Ground Floor", "CompositionType": "ELEMENT",
		}},
		{ID: "storey2", Type: "IfcBuildingStorey", Attrs: map[string]any{
			"Name": "First Floor", "CompositionType": "ELEMENT",
		}},
		{ID: "space1", Type: "IfcSpace", Attrs: map[string]any{
			"Name": "Living Room", "CompositionType": "ELEMENT",
		}},
		{ID: "space2", Type: "IfcSpace", Attrs: map[string]any{
			"Name": "Kitchen", "CompositionType": "ELEMENT",
		}},
		{ID: "zone", Type: "IfcZone", Attrs: map[string]any{"Name": "Day Zone"}},
		{ID: "wall", Type: "IfcWallStandardCase", Attrs: map[string]any{"Name": "South Wall"}},
		{ID: "wall2", Type: "IfcWall", Attrs: map[string]any{"Name": "North Wall"}},
		{ID: "window", Type: "IfcWindow", Attrs: map[string]any{"Name": "Window"}},
		{ID: "door", Type: "IfcDoor", Attrs: map[string]any{"Name": "Front Door"}},
		{ID: "opening", Type: "IfcOpeningElement", Attrs: map[string]any{"Name": "Opening"}},

		{ID: "style", Type: "IfcDoorStyle", Attrs: map[string]any{
			"Name":            "Standard Door",
			"HasPropertySets": refs("lining", "pset-style"),
		}},
		{ID: "lining", Type: "IfcDoorLiningProperties", Attrs: map[string]any{
			"Name":        "Lining",
			"LiningDepth": 0.04,
		}},
		{ID: "pset-style", Type: "IfcPropertySet", Attrs: map[string]any{
			"Name":          "Pset_DoorCommon",
			"HasProperties": refs("prop-acoustic"),
		}},
		{ID: "prop-acoustic", Type: "IfcPropertySingleValue", Attrs: map[string]any{
			"Name":         "AcousticRating",
			"NominalValue": typed("IfcLabel", "R2"),
		}},

		{ID: "pset-wall", Type: "IfcPropertySet", Attrs: map[string]any{
			"Name":          "Pset_WallCommon",
			"HasProperties": refs("prop-ext", "prop-fire"),
		}},
		{ID: "prop-ext", Type: "IfcPropertySingleValue", Attrs: map[string]any{
			"Name":         "IsExternal",
			"NominalValue": typed("IfcBoolean", true),
		}},
		{ID: "prop-fire", Type: "IfcPropertySingleValue", Attrs: map[string]any{
			"Name":         "FireRating",
			"NominalValue": typed("IfcLabel", "F30"),
		}},

		{ID: "qset", Type: "IfcElementQuantity", Attrs: map[string]any{
			"Name":       "BaseQuantities",
			"Quantities": refs("qty-len", "qty-area"),
		}},
		{ID: "qty-len", Type: "IfcQuantityLength", Attrs: map[string]any{
			"Name":        "Width",
			"LengthValue": 0.3,
		}},
		{ID: "qty-area", Type: "IfcQuantityArea", Attrs: map[string]any{
			"Name":      "GrossSideArea",
			"AreaValue": 12.5,
		}},

		{ID: "pset-door", Type: "IfcPropertySet", Attrs: map[string]any{
			"Name":          "Door Dimensions",
			"HasProperties": refs("prop-height"),
		}},
		{ID: "prop-height", Type: "IfcPropertySingleValue", Attrs: map[string]any{
			"Name":         "Height",
			"NominalValue": typed("IfcPositiveLengthMeasure", 2.1),
		}},

		{ID: "agg-project", Type: "IfcRelAggregates", Attrs: map[string]any{
			"RelatingObject": ref("project"), "RelatedObjects": refs("site"),
		}},
		{ID: "agg-site", Type: "IfcRelAggregates", Attrs: map[string]any{
			"RelatingObject": ref("site"), "RelatedObjects": refs("building"),
		}},
		{ID: "agg-building", Type: "IfcRelAggregates", Attrs: map[string]any{
			"RelatingObject": ref("building"), "RelatedObjects": refs("storey1", "storey2"),
		}},
		{ID: "agg-storey1", Type: "IfcRelAggregates", Attrs: map[string]any{
			"RelatingObject": ref("storey1"), "RelatedObjects": refs("space1", "space2"),
		}},
		{ID: "contains1", Type: "IfcRelContainedInSpatialStructure", Attrs: map[string]any{
			"RelatingStructure": ref("storey1"),
			"RelatedElements":   refs("wall", "wall2", "door", "window"),
		}},
		{ID: "voids", Type: "IfcRelVoidsElement", Attrs: map[string]any{
			"RelatingBuildingElement": ref("wall"),
			"RelatedOpeningElement":   ref("opening"),
		}},
		{ID: "group-zone", Type: "IfcRelAssignsToGroup", Attrs: map[string]any{
			"RelatingGroup": ref("zone"), "RelatedObjects": refs("space1", "space2"),
		}},
		{ID: "def-wall-pset", Type: "IfcRelDefinesByProperties", Attrs: map[string]any{
			"RelatingPropertyDefinition": ref("pset-wall"),
			"RelatedObjects":             refs("wall"),
		}},
		{ID: "def-wall-qset", Type: "IfcRelDefinesByProperties", Attrs: map[string]any{
			"RelatingPropertyDefinition": ref("qset"),
			"RelatedObjects":             refs("wall"),
		}},
		{ID: "def-door-pset", Type: "IfcRelDefinesByProperties", Attrs: map[string]any{
			"RelatingPropertyDefinition": ref("pset-door"),
			"RelatedObjects":             refs("door"),
		}},
		{ID: "def-door-style", Type: "IfcRelDefinesByType", Attrs: map[string]any{
			"RelatingType": ref("style"), "RelatedObjects": refs("door"),
		}},
	}
}

// houseGraph builds the shared fixture graph once per test.
func houseGraph(t *testing.T) (*schema.Registry, *record.Graph) {
	t.Helper()
	reg := testRegistry(t)
	g, err := record.BuildGraph(reg, houseDocs())
	require.NoError(t, err)
	return reg, g
}

func houseObject(t *testing.T, id string) *Object {
	t.Helper()
	reg, g := houseGraph(t)
	rec, ok := g.Record(id)
	require.True(t, ok)
	obj, err := NewObject(rec, reg)
	require.NoError(t, err)
	return obj
}
