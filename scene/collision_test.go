package scene

import (
	"image"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilescene/ldtk"
)

func TestDeriveGroupAssignments(t *testing.T) {
	p := testProject(t)
	def, err := p.Defs.Layer(10)
	require.NoError(t, err)

	got := DeriveGroupAssignments(def)
	want := []GroupAssignment{
		{Group: "", Index: 0},
		{Group: "groupA", Index: 1},
		{Group: "groupB", Index: 2},
	}
	assert.Equal(t, want, got, "ungrouped first, then named groups in declaration order")
}

func TestDeriveGroupAssignmentsSkipsEmptyGroups(t *testing.T) {
	def := &ldtk.LayerDefinition{
		IntGridValues: []ldtk.IntGridValueDef{
			{Value: 1, GroupUID: 200},
		},
		IntGridGroups: []ldtk.IntGridValueGroupDef{
			{UID: 100, Identifier: "orphan"},
			{UID: 200, Identifier: "solid"},
		},
	}
	got := DeriveGroupAssignments(def)
	// No ungrouped values, and groups owning nothing get no index.
	assert.Equal(t, []GroupAssignment{{Group: "solid", Index: 0}}, got)
}

func TestBuildCollisionLayersPartition(t *testing.T) {
	b := testBuilder(t, nil)
	li := layerByIdentifier(t, b.Project(), "Start", "Collisions")

	set, err := b.BuildCollisionLayers(li, nil)
	require.NoError(t, err)
	require.NotNil(t, set)
	require.Len(t, set.Layers, 3)

	byName := map[string]*CollisionLayer{}
	for _, cl := range set.Layers {
		byName[cl.GroupName] = cl
	}

	un := byName[UngroupedName]
	require.NotNil(t, un)
	assert.Equal(t, 0, un.Index)
	assert.Equal(t, []image.Point{image.Pt(1, 1)}, un.Cells)

	ga := byName["groupA"]
	require.NotNil(t, ga)
	assert.Equal(t, 1, ga.Index)
	assert.Equal(t, []image.Point{image.Pt(0, 0), image.Pt(0, 2)}, ga.Cells)

	gb := byName["groupB"]
	require.NotNil(t, gb)
	assert.Equal(t, 2, gb.Index)
	assert.Equal(t, []image.Point{image.Pt(4, 0)}, gb.Cells)

	// Distinct single-bit category per layer, no overlap across layers.
	seenBits := uint(0)
	seenCells := map[image.Point]string{}
	for _, cl := range set.Layers {
		f := cl.Filter()
		assert.EqualValues(t, cp.NO_GROUP, f.Group)
		assert.EqualValues(t, 1<<uint(cl.Index), f.Categories)
		assert.Zero(t, f.Mask)
		assert.Zero(t, seenBits&uint(f.Categories), "category bit reused")
		seenBits |= uint(f.Categories)

		for _, c := range cl.Cells {
			prev, dup := seenCells[c]
			assert.False(t, dup, "cell %v in both %s and %s", c, prev, cl.GroupName)
			seenCells[c] = cl.GroupName
		}
	}
}

func TestBuildCollisionLayersShapes(t *testing.T) {
	b := testBuilder(t, nil)
	li := layerByIdentifier(t, b.Project(), "Start", "Collisions")
	li.PxTotalOffsetX = 8
	li.PxTotalOffsetY = 4

	set, err := b.BuildCollisionLayers(li, nil)
	require.NoError(t, err)

	// Shape bounding boxes are cached on space insertion.
	set.AddToSpace(cp.NewSpace())

	for _, cl := range set.Layers {
		require.NotNil(t, cl.Body)
		require.Len(t, cl.Shapes(), len(cl.Cells))
		for i, s := range cl.Shapes() {
			c := cl.Cells[i]
			bb := s.BB()
			assert.InDelta(t, float64(c.X*16+8), bb.L, 1e-9)
			assert.InDelta(t, float64(c.Y*16+4), bb.B, 1e-9)
			assert.InDelta(t, float64(c.X*16+24), bb.R, 1e-9)
			assert.InDelta(t, float64(c.Y*16+20), bb.T, 1e-9)
			assert.Equal(t, cl.Filter(), s.Filter)
		}
	}
}

func TestBuildCollisionLayersCallerAssignments(t *testing.T) {
	b := testBuilder(t, nil)
	li := layerByIdentifier(t, b.Project(), "Start", "Collisions")

	set, err := b.BuildCollisionLayers(li, []GroupAssignment{
		{Group: "groupA", Index: 5},
		{Group: "groupB", Index: 5},
	})
	require.NoError(t, err)
	require.Len(t, set.Layers, 1, "shared index merges both groups into one layer")

	cl := set.Layers[0]
	assert.Equal(t, 5, cl.Index)
	assert.Equal(t, "groupA", cl.GroupName, "the first assignment for an index names the layer")
	assert.EqualValues(t, 1<<5, cl.Filter().Categories)
	// Ungrouped value 3 has no assignment and is dropped.
	assert.ElementsMatch(t,
		[]image.Point{image.Pt(0, 0), image.Pt(0, 2), image.Pt(4, 0)}, cl.Cells)
}

func TestBuildCollisionLayersNonIntGrid(t *testing.T) {
	b := testBuilder(t, nil)
	li := layerByIdentifier(t, b.Project(), "Start", "Ground")

	set, err := b.BuildCollisionLayers(li, nil)
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestBuildCollisionLayersEmptyGrid(t *testing.T) {
	b := testBuilder(t, nil)
	li := layerByIdentifier(t, b.Project(), "Start", "Collisions")
	for i := range li.IntGridCSV {
		li.IntGridCSV[i] = 0
	}

	set, err := b.BuildCollisionLayers(li, nil)
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestCollisionSetAddToSpace(t *testing.T) {
	b := testBuilder(t, nil)
	li := layerByIdentifier(t, b.Project(), "Start", "Collisions")

	set, err := b.BuildCollisionLayers(li, nil)
	require.NoError(t, err)

	space := cp.NewSpace()
	set.AddToSpace(space)

	shapes := 0
	space.EachShape(func(*cp.Shape) { shapes++ })
	assert.Equal(t, 4, shapes)
}
