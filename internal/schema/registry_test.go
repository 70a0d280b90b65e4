package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadIFC4(t *testing.T) *Registry {
	t.Helper()
	reg, err := Load("IFC4")
	require.NoError(t, err)
	return reg
}

func TestLoad(t *testing.T) {
	reg := loadIFC4(t)
	assert.Equal(t, "IFC4", reg.Version())

	reg23, err := Load("IFC2X3")
	require.NoError(t, err)
	assert.Equal(t, "IFC2X3", reg23.Version())
	assert.False(t, reg.Same(reg23))
}

func TestLoadUnknownSchema(t *testing.T) {
	_, err := Load("IFC9000")
	require.Error(t, err)
	var ue *UnknownSchemaError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "IFC9000", ue.Name)
}

func TestSame(t *testing.T) {
	a := loadIFC4(t)
	b := loadIFC4(t)
	assert.True(t, a.Same(b), "equality compares version only")
	assert.False(t, a.Same(nil))
}

func TestTypedLookups(t *testing.T) {
	reg := loadIFC4(t)

	dt, err := reg.GetDefinedType("IfcLabel")
	require.NoError(t, err)
	assert.Equal(t, "IfcLabel", dt.Name)

	st, err := reg.GetSelectType("IfcValue")
	require.NoError(t, err)
	assert.Equal(t, []string{"IfcMeasureValue", "IfcSimpleValue"}, st.EntityNames())

	en, err := reg.GetEnumeration("IfcElementCompositionEnum")
	require.NoError(t, err)
	assert.Equal(t, []string{"COMPLEX", "ELEMENT", "PARTIAL"}, en.Values())

	ent, err := reg.GetEntity("IfcWall")
	require.NoError(t, err)
	assert.Equal(t, "IfcBuildingElement", ent.SupertypeName)

	_, err = reg.GetEntity("IfcTeleporter")
	require.Error(t, err)
	assert.True(t, IsLookup(err))
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, KindEntity, le.Kind)
}

func TestGetElementProbeOrder(t *testing.T) {
	// a name present in two maps resolves to the earlier map in the fixed
	// probe order: defined type, select type, enumeration, entity
	src := "SCHEMA X;\n" +
		"TYPE IfcShadow = REAL;\n" +
		"END_TYPE;\n" +
		"ENTITY IfcShadow;\nEND_ENTITY;\n"
	reg := Parse(src)

	el := reg.GetElement("IfcShadow")
	require.NotNil(t, el)
	assert.Equal(t, KindDefinedType, el.Kind())
}

func TestGetElement(t *testing.T) {
	reg := loadIFC4(t)

	assert.Equal(t, KindDefinedType, reg.GetElement("IfcLengthMeasure").Kind())
	assert.Equal(t, KindSelectType, reg.GetElement("IfcValue").Kind())
	assert.Equal(t, KindEnumeration, reg.GetElement("IfcElementCompositionEnum").Kind())
	assert.Equal(t, KindEntity, reg.GetElement("IfcDoor").Kind())
	assert.Nil(t, reg.GetElement("IfcNothingAtAll"), "unknown names are nothing, not an error")
}

func TestDefinedTypeRef(t *testing.T) {
	reg := loadIFC4(t)

	plain, err := reg.GetDefinedType("IfcLengthMeasure")
	require.NoError(t, err)
	assert.False(t, plain.IsRef())
	ref, err := plain.RefType()
	require.NoError(t, err)
	assert.Nil(t, ref)

	alias, err := reg.GetDefinedType("IfcPositiveLengthMeasure")
	require.NoError(t, err)
	assert.True(t, alias.IsRef())
	ref, err = alias.RefType()
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "IfcLengthMeasure", ref.Name)
}

func TestDefinedTypeDanglingRef(t *testing.T) {
	reg := Parse("SCHEMA X;\nTYPE IfcA = IfcMissing;\nEND_TYPE;\n")
	dt, err := reg.GetDefinedType("IfcA")
	require.NoError(t, err)
	require.True(t, dt.IsRef())
	_, err = dt.RefType()
	assert.True(t, IsLookup(err))
}

func TestSelectTypeEntities(t *testing.T) {
	reg := loadIFC4(t)

	sel, err := reg.GetSelectType("IfcDefinitionSelect")
	require.NoError(t, err)
	ents, err := sel.Entities()
	require.NoError(t, err)
	require.Len(t, ents, 2)
	assert.Equal(t, "IfcObjectDefinition", ents[0].Name)
	assert.Equal(t, "IfcPropertyDefinition", ents[1].Name)

	// members that are not entities fail resolution
	val, err := reg.GetSelectType("IfcValue")
	require.NoError(t, err)
	_, err = val.Entities()
	assert.True(t, IsLookup(err))
}

func TestEntityOwnScope(t *testing.T) {
	reg := loadIFC4(t)

	root, err := reg.GetEntity("IfcRoot")
	require.NoError(t, err)
	assert.Equal(t, []string{"Description", "GlobalId", "Name", "OwnerHistory"}, root.AttributeNames())
	assert.Equal(t, []string{"GlobalId"}, root.RequiredAttributeNames())

	attr, err := root.GetAttribute("GlobalId")
	require.NoError(t, err)
	assert.Equal(t, "IfcGloballyUniqueId", attr.TypeName)
	assert.False(t, attr.Optional)
	assert.False(t, attr.IsCollection)

	_, err = root.GetAttribute("Nope")
	assert.True(t, IsLookup(err))

	od, err := reg.GetEntity("IfcObjectDefinition")
	require.NoError(t, err)
	assert.Equal(t, []string{"Decomposes", "IsDecomposedBy"}, od.InverseNames())
	inv, err := od.GetInverse("Decomposes")
	require.NoError(t, err)
	assert.Equal(t, "RelatedObjects", inv.ForAttr)
	assert.Equal(t, "0", inv.Lo)
	assert.Equal(t, "1", inv.Hi)
	assert.True(t, inv.IsCollection)
}

func TestAttributeTypeInfo(t *testing.T) {
	reg := loadIFC4(t)

	sse, err := reg.GetEntity("IfcSpatialStructureElement")
	require.NoError(t, err)
	attr, err := sse.GetAttribute("CompositionType")
	require.NoError(t, err)
	info := attr.TypeInfo()
	require.NotNil(t, info)
	assert.Equal(t, KindEnumeration, info.Kind())
}

func TestAllAttributesMergeOrder(t *testing.T) {
	reg := loadIFC4(t)

	door, err := reg.GetEntity("IfcDoor")
	require.NoError(t, err)

	names := door.AllAttributeNames(true, false)
	// root-first, leaf-last: IfcRoot scope precedes IfcObject and IfcDoor
	assert.Equal(t, []string{
		"Description", "GlobalId", "Name", "OwnerHistory", // IfcRoot
		"ObjectType",                    // IfcObject
		"Tag",                           // IfcElement
		"OverallHeight", "OverallWidth", // IfcDoor
	}, names)

	qualified := door.AllAttributeNames(true, true)
	assert.Equal(t, "IfcRoot.GlobalId", qualified[1])
	assert.Equal(t, "IfcDoor.OverallHeight", qualified[6])

	// the name-count property: one entry per (declaring entity, name) pair
	attrs := door.AllAttributes(true)
	assert.Len(t, names, len(attrs))

	required := door.AllAttributeNames(false, false)
	assert.Equal(t, []string{"GlobalId"}, required)
}

func TestAllInverses(t *testing.T) {
	reg := loadIFC4(t)

	wall, err := reg.GetEntity("IfcWall")
	require.NoError(t, err)
	names := wall.AllInverseNames(false)
	assert.Equal(t, []string{
		"Decomposes", "IsDecomposedBy", // IfcObjectDefinition
		"IsDefinedBy",                          // IfcObject
		"ContainedInStructure", "HasOpenings", // IfcElement
	}, names)

	qualified := wall.AllInverseNames(true)
	assert.Contains(t, qualified, "IfcObject.IsDefinedBy")
}

func TestInverseIsRelation(t *testing.T) {
	reg := loadIFC4(t)

	od, err := reg.GetEntity("IfcObjectDefinition")
	require.NoError(t, err)
	inv, err := od.GetInverse("Decomposes")
	require.NoError(t, err)
	assert.True(t, inv.IsRelation())

	// an inverse value is not always a relationship
	psd, err := reg.GetEntity("IfcPropertySetDefinition")
	require.NoError(t, err)
	dt, err := psd.GetInverse("DefinesType")
	require.NoError(t, err)
	assert.False(t, dt.IsRelation())
}

func TestInherits(t *testing.T) {
	reg := loadIFC4(t)

	wall, err := reg.GetEntity("IfcWall")
	require.NoError(t, err)

	assert.True(t, wall.Inherits("IfcBuildingElement", false), "immediate supertype")
	assert.False(t, wall.Inherits("IfcElement", false), "shallow check stops at the immediate supertype")
	assert.True(t, wall.Inherits("IfcElement", true))
	assert.True(t, wall.Inherits("IfcRoot", true))
	assert.False(t, wall.Inherits("IfcWall", true), "no entity is its own subtype")

	root, err := reg.GetEntity("IfcRoot")
	require.NoError(t, err)
	assert.False(t, root.Inherits("IfcWall", true), "a root entity never inherits anything")

	ok, err := reg.EntityInherits("IfcWallStandardCase", "IfcWall", false)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = reg.EntityInherits("IfcNothing", "IfcWall", true)
	assert.True(t, IsLookup(err))
}

func TestSubtypes(t *testing.T) {
	reg := loadIFC4(t)

	wall, err := reg.GetEntity("IfcWall")
	require.NoError(t, err)
	assert.Equal(t, []string{"IfcWallStandardCase"}, wall.SubtypeNames(false))

	be, err := reg.GetEntity("IfcBuildingElement")
	require.NoError(t, err)
	assert.Equal(t, []string{"IfcDoor", "IfcWall", "IfcWindow"}, be.SubtypeNames(false))
	assert.Equal(t, []string{"IfcDoor", "IfcWall", "IfcWallStandardCase", "IfcWindow"}, be.SubtypeNames(true))

	// a deep subtype scan from the root covers every entity under it, and
	// never the root itself
	root, err := reg.GetEntity("IfcRoot")
	require.NoError(t, err)
	deep := root.SubtypeNames(true)
	assert.NotContains(t, deep, "IfcRoot")
	assert.Contains(t, deep, "IfcWallStandardCase")
	assert.Contains(t, deep, "IfcRelAggregates")
	shallow := root.SubtypeNames(false)
	assert.Subset(t, deep, shallow)
	assert.Greater(t, len(deep), len(shallow))
}

func TestSortedRegistryViews(t *testing.T) {
	reg := loadIFC4(t)

	names := reg.EntityNames()
	assert.IsIncreasing(t, names)
	assert.Len(t, reg.Entities(), len(names))

	dts := reg.DefinedTypeNames()
	assert.IsIncreasing(t, dts)
	assert.Contains(t, dts, "IfcPositiveLengthMeasure")
	assert.Len(t, reg.DefinedTypes(), len(dts))

	assert.IsIncreasing(t, reg.SelectTypeNames())
	assert.IsIncreasing(t, reg.EnumerationNames())
	assert.Len(t, reg.SelectTypes(), len(reg.SelectTypeNames()))
	assert.Len(t, reg.Enumerations(), len(reg.EnumerationNames()))
}
