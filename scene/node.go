package scene

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tilescene/ldtk"
)

// Renderable is anything the composite level can draw. Handles returned by
// entity mappers only have to satisfy this; the pipeline never looks
// inside them.
type Renderable interface {
	Draw(dst *ebiten.Image)
}

type zNode struct {
	z int
	r Renderable
}

// LevelNode is the composite result of building one level: background and
// synthesized layers in z order, plus the physics space holding all
// collision shapes.
type LevelNode struct {
	Level *ldtk.Level
	Space *cp.Space

	nodes  []zNode
	sorted bool
}

func newLevelNode(lvl *ldtk.Level) *LevelNode {
	return &LevelNode{
		Level: lvl,
		Space: cp.NewSpace(),
	}
}

// Attach adds a renderable at the given z index.
func (n *LevelNode) Attach(z int, r Renderable) {
	if r == nil {
		return
	}
	n.nodes = append(n.nodes, zNode{z: z, r: r})
	n.sorted = false
}

func (n *LevelNode) sortNodes() {
	if n.sorted {
		return
	}
	sort.SliceStable(n.nodes, func(i, j int) bool { return n.nodes[i].z < n.nodes[j].z })
	n.sorted = true
}

// Draw renders every attached layer in ascending z order.
func (n *LevelNode) Draw(dst *ebiten.Image) {
	n.sortNodes()
	for _, zn := range n.nodes {
		zn.r.Draw(dst)
	}
}

// Renderables returns the attached layers in ascending z order.
func (n *LevelNode) Renderables() []Renderable {
	n.sortNodes()
	out := make([]Renderable, len(n.nodes))
	for i, zn := range n.nodes {
		out[i] = zn.r
	}
	return out
}

// ZIndexes returns the z index of each attached layer, in the same order
// as Renderables.
func (n *LevelNode) ZIndexes() []int {
	n.sortNodes()
	out := make([]int, len(n.nodes))
	for i, zn := range n.nodes {
		out[i] = zn.z
	}
	return out
}

// BackgroundLayer fills the level area with a solid color and optionally
// draws a background image on top of the fill.
type BackgroundLayer struct {
	Color  color.RGBA
	Width  int
	Height int
	Image  *ebiten.Image
	// ImageX/ImageY position the background image; ScaleX/ScaleY stretch it.
	ImageX, ImageY float64
	ScaleX, ScaleY float64

	fill *ebiten.Image
}

func (b *BackgroundLayer) Draw(dst *ebiten.Image) {
	if b.Width > 0 && b.Height > 0 {
		if b.fill == nil {
			b.fill = ebiten.NewImage(1, 1)
			b.fill.Fill(b.Color)
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(b.Width), float64(b.Height))
		dst.DrawImage(b.fill, op)
	}
	if b.Image != nil {
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
		sx, sy := b.ScaleX, b.ScaleY
		if sx == 0 {
			sx = 1
		}
		if sy == 0 {
			sy = 1
		}
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(b.ImageX, b.ImageY)
		dst.DrawImage(b.Image, op)
	}
}
