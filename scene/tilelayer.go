package scene

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilescene/ldtk"
)

type placedTile struct {
	img   *ebiten.Image
	x, y  int
	alpha float64
}

// TileLayer is one synthesized visual layer: tiles placed at pixel
// positions, drawn with the layer's offset and opacity. At most one tile
// ever occupies a cell within a single TileLayer; stacked tiles land in
// separate sub-layers.
type TileLayer struct {
	Name     string
	GridSize int
	OffsetX  int
	OffsetY  int
	Opacity  float64
	// StackIndex is this sub-layer's position within the stack (0 for the
	// base layer); the level builder adds it to the layer's base z.
	StackIndex int

	tiles []placedTile
}

// Len returns the number of placed tiles.
func (tl *TileLayer) Len() int { return len(tl.tiles) }

// CellsUsed returns the grid coordinates occupied in this layer.
func (tl *TileLayer) CellsUsed() [][2]int {
	out := make([][2]int, 0, len(tl.tiles))
	for _, pt := range tl.tiles {
		if tl.GridSize > 0 {
			out = append(out, [2]int{pt.x / tl.GridSize, pt.y / tl.GridSize})
		}
	}
	return out
}

// Draw renders all placed tiles. Filtering is fixed to nearest-neighbor;
// layer opacity below 1 becomes a uniform alpha multiplier.
func (tl *TileLayer) Draw(dst *ebiten.Image) {
	for _, pt := range tl.tiles {
		if pt.img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
		op.GeoM.Translate(float64(pt.x+tl.OffsetX), float64(pt.y+tl.OffsetY))
		alpha := tl.Opacity * pt.alpha
		if alpha < 1 {
			op.ColorScale.ScaleAlpha(float32(alpha))
		}
		dst.DrawImage(pt.img, op)
	}
}

// BuildTileLayers synthesizes the visual layers for a tile-bearing layer
// instance. Returns nil when the layer has no tileset or no tile records.
//
// Tiles are grouped by target grid coordinate; when any coordinate holds
// more than one tile the layer splits into maxStackDepth sub-layers so
// that no sub-layer ever holds two tiles in the same cell.
func (b *Builder) BuildTileLayers(li *ldtk.LayerInstance) ([]*TileLayer, error) {
	if li.TilesetDefUID == nil {
		return nil, nil
	}
	tiles := li.Tiles()
	if len(tiles) == 0 {
		return nil, nil
	}

	def, err := b.project.Defs.Tileset(*li.TilesetDefUID)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", li.Identifier, err)
	}
	atlas, err := b.atlases.Build(def, !b.cfg.DisableCache)
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", li.Identifier, err)
	}

	gridSize := li.GridSize
	if gridSize <= 0 {
		gridSize = def.TileGridSize
	}

	// Stack level per tile: the k-th tile seen at a coordinate goes to
	// sub-layer k.
	depthAt := make(map[[2]int]int, len(tiles))
	stackLevel := make([]int, len(tiles))
	maxDepth := 0
	for i, t := range tiles {
		coord := [2]int{t.Px[0] / gridSize, t.Px[1] / gridSize}
		k := depthAt[coord]
		stackLevel[i] = k
		depthAt[coord] = k + 1
		if k+1 > maxDepth {
			maxDepth = k + 1
		}
	}

	layers := make([]*TileLayer, maxDepth)
	for k := range layers {
		name := li.Identifier
		if maxDepth > 1 {
			name = fmt.Sprintf("%s_stack%d", li.Identifier, k)
		}
		layers[k] = &TileLayer{
			Name:       name,
			GridSize:   gridSize,
			OffsetX:    li.PxTotalOffsetX,
			OffsetY:    li.PxTotalOffsetY,
			Opacity:    li.Opacity,
			StackIndex: k,
		}
	}

	for i, t := range tiles {
		img := b.atlases.Alternate(atlas, t.T, t.FlipH(), t.FlipV())
		if img == nil {
			continue
		}
		alpha := t.A
		if alpha == 0 {
			alpha = 1
		}
		tl := layers[stackLevel[i]]
		tl.tiles = append(tl.tiles, placedTile{img: img, x: t.Px[0], y: t.Px[1], alpha: alpha})
	}
	return layers, nil
}
