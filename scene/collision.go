package scene

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tilescene/ldtk"
)

// UngroupedName tags collision layers built from int-grid values that do
// not belong to any named group.
const UngroupedName = "ungrouped"

// GroupAssignment binds one int-grid value group to a physics layer
// index. Group "" stands for ungrouped values. An ordered slice, not a
// map: index assignment must stay deterministic.
type GroupAssignment struct {
	Group string
	Index int
}

// CollisionLayer is the collision geometry for one physics layer index:
// a static body carrying one full-cell box shape per occupied cell. Every
// shape's filter has exactly the 1<<Index category bit set and an empty
// mask, since static tiles do not need to detect anything themselves.
type CollisionLayer struct {
	GroupName string
	Index     int
	GridSize  int
	OffsetX   int
	OffsetY   int
	Cells     []image.Point

	Body   *cp.Body
	shapes []*cp.Shape

	// placeholder is the 1x1 transparent template tile shared by all cells.
	placeholder *ebiten.Image
}

// Filter returns the shape filter applied to every cell shape.
func (cl *CollisionLayer) Filter() cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: 1 << uint(cl.Index), Mask: 0}
}

// Shapes returns the per-cell box shapes.
func (cl *CollisionLayer) Shapes() []*cp.Shape { return cl.shapes }

// AddToSpace attaches the layer's body and shapes to a physics space.
func (cl *CollisionLayer) AddToSpace(space *cp.Space) {
	if space == nil || cl.Body == nil {
		return
	}
	space.AddBody(cl.Body)
	for _, s := range cl.shapes {
		space.AddShape(s)
	}
}

// Draw satisfies Renderable. The template tile is transparent, so there is
// nothing to render; collision layers participate in the composite for
// z-order bookkeeping only.
func (cl *CollisionLayer) Draw(dst *ebiten.Image) {}

// CollisionSet holds the collision layers synthesized from one int-grid
// layer instance, one per used physics layer index.
type CollisionSet struct {
	Layers []*CollisionLayer
}

// AddToSpace attaches every layer in the set to a physics space.
func (cs *CollisionSet) AddToSpace(space *cp.Space) {
	for _, cl := range cs.Layers {
		cl.AddToSpace(space)
	}
}

// DeriveGroupAssignments produces the default group-to-physics-layer
// assignment for an int-grid layer definition: ungrouped values take index
// 0 when any exist, then each named group that owns at least one declared
// value gets the next index, in group declaration order.
func DeriveGroupAssignments(def *ldtk.LayerDefinition) []GroupAssignment {
	hasUngrouped := false
	used := make(map[ldtk.UID]bool, len(def.IntGridGroups))
	for _, v := range def.IntGridValues {
		if v.GroupUID == 0 {
			hasUngrouped = true
		} else {
			used[v.GroupUID] = true
		}
	}

	var out []GroupAssignment
	next := 0
	if hasUngrouped {
		out = append(out, GroupAssignment{Group: "", Index: next})
		next++
	}
	for _, g := range def.IntGridGroups {
		if !used[g.UID] {
			continue
		}
		out = append(out, GroupAssignment{Group: g.Identifier, Index: next})
		next++
	}
	return out
}

// BuildCollisionLayers partitions an int-grid layer's occupied cells into
// collision layers keyed by group-to-physics-layer assignment, one layer
// per used index. A nil assignments slice auto-derives one via
// DeriveGroupAssignments; assignments sharing an index merge into a single
// layer named after the first of them. Returns nil for layers of any other
// kind or with no occupied cells.
func (b *Builder) BuildCollisionLayers(li *ldtk.LayerInstance, assignments []GroupAssignment) (*CollisionSet, error) {
	if li.Type != ldtk.LayerIntGrid {
		return nil, nil
	}
	def, err := b.project.Defs.Layer(li.LayerDefUID)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", li.Identifier, err)
	}
	if assignments == nil {
		assignments = DeriveGroupAssignments(def)
	}

	valueToGroup := make(map[int]string, len(def.IntGridValues))
	for _, v := range def.IntGridValues {
		if name, ok := def.GroupIdentifier(v.GroupUID); ok {
			valueToGroup[v.Value] = name
		} else {
			valueToGroup[v.Value] = ""
		}
	}
	groupToIndex := make(map[string]int, len(assignments))
	for _, a := range assignments {
		groupToIndex[a.Group] = a.Index
	}

	gridSize := li.GridSize
	if gridSize <= 0 {
		gridSize = def.GridSize
	}

	// Partition occupied cells by resolved physics layer index, keeping
	// assignment order for the output.
	cellsByIndex := make(map[int][]image.Point)
	for y := 0; y < li.GridHei; y++ {
		for x := 0; x < li.GridWid; x++ {
			v := li.IntGridAt(x, y)
			if v == 0 {
				continue
			}
			group, declared := valueToGroup[v]
			if !declared {
				group = ""
			}
			idx, ok := groupToIndex[group]
			if !ok {
				continue
			}
			cellsByIndex[idx] = append(cellsByIndex[idx], image.Pt(x, y))
		}
	}
	if len(cellsByIndex) == 0 {
		return nil, nil
	}

	placeholder := ebiten.NewImage(1, 1)

	set := &CollisionSet{}
	for _, a := range assignments {
		cells, ok := cellsByIndex[a.Index]
		if !ok {
			continue
		}
		// Assignments sharing an index merge into one layer; the first
		// assignment supplies the group tag.
		delete(cellsByIndex, a.Index)
		name := a.Group
		if name == "" {
			name = UngroupedName
		}
		cl := &CollisionLayer{
			GroupName:   name,
			Index:       a.Index,
			GridSize:    gridSize,
			OffsetX:     li.PxTotalOffsetX,
			OffsetY:     li.PxTotalOffsetY,
			Cells:       cells,
			Body:        cp.NewStaticBody(),
			placeholder: placeholder,
		}
		filter := cl.Filter()
		gs := float64(gridSize)
		for _, c := range cells {
			x0 := float64(c.X)*gs + float64(li.PxTotalOffsetX)
			y0 := float64(c.Y)*gs + float64(li.PxTotalOffsetY)
			shape := cp.NewBox2(cl.Body, cp.BB{L: x0, B: y0, R: x0 + gs, T: y0 + gs}, 0)
			shape.SetFilter(filter)
			cl.shapes = append(cl.shapes, shape)
		}
		set.Layers = append(set.Layers, cl)
	}
	return set, nil
}
