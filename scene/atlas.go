package scene

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/milk9111/tilescene/ldtk"
)

// TileIDToAtlasCoords converts a tile id to its (x, y) cell inside a
// tileset that is cWid cells wide.
func TileIDToAtlasCoords(id, cWid int) (int, int) {
	if cWid <= 0 {
		return 0, 0
	}
	return id % cWid, id / cWid
}

// AtlasCoordsToTileID is the inverse of TileIDToAtlasCoords.
func AtlasCoordsToTileID(x, y, cWid int) int {
	return y*cWid + x
}

// Atlas is a built tileset: the source bitmap uploaded as an ebiten image
// plus one addressable sub-rect per grid position. Every position in the
// cWid x cHei grid gets a rect, occupied or not, because authoring tools
// may reference any index.
type Atlas struct {
	Def   *ldtk.TilesetDefinition
	Image *ebiten.Image

	src   image.Image
	rects []image.Rectangle
	subs  []*ebiten.Image
}

// Rect returns the pixel rectangle of a tile id inside the tileset image.
func (a *Atlas) Rect(id int) (image.Rectangle, bool) {
	if id < 0 || id >= len(a.rects) {
		return image.Rectangle{}, false
	}
	return a.rects[id], true
}

// SubImage returns the unflipped tile image for a tile id.
func (a *Atlas) SubImage(id int) *ebiten.Image {
	if id < 0 || id >= len(a.rects) {
		return nil
	}
	if a.subs[id] == nil {
		a.subs[id] = a.Image.SubImage(a.rects[id]).(*ebiten.Image)
	}
	return a.subs[id]
}

type altKey struct {
	tilesetUID   ldtk.UID
	tileID       int
	atlasX       int
	atlasY       int
	flipH, flipV bool
}

// AtlasBuilder builds and caches one atlas per tileset uid, plus one
// synthesized alternate image per distinct flipped tile identity.
//
// Not safe for concurrent use: the caches are plain maps by contract.
type AtlasBuilder struct {
	baseDir string
	load    ImageLoader

	atlases    map[ldtk.UID]*Atlas
	alternates map[altKey]*ebiten.Image
}

// NewAtlasBuilder creates a builder resolving tileset paths against
// baseDir and loading bitmaps through load.
func NewAtlasBuilder(baseDir string, load ImageLoader) *AtlasBuilder {
	return &AtlasBuilder{
		baseDir:    baseDir,
		load:       load,
		atlases:    make(map[ldtk.UID]*Atlas),
		alternates: make(map[altKey]*ebiten.Image),
	}
}

// Build constructs (or returns the cached) atlas for a tileset definition.
// useCache=false forces a rebuild and overwrites the cached entry.
func (b *AtlasBuilder) Build(def *ldtk.TilesetDefinition, useCache bool) (*Atlas, error) {
	if def == nil {
		return nil, fmt.Errorf("build atlas: nil tileset definition")
	}
	if useCache {
		if a, ok := b.atlases[def.UID]; ok {
			return a, nil
		}
	}

	resolved := ResolveResourcePath(b.baseDir, def.RelPath)
	src, err := b.load(resolved)
	if err != nil {
		return nil, fmt.Errorf("tileset %s (%s): %w", def.Identifier, resolved, err)
	}

	a := &Atlas{
		Def:   def,
		Image: ebiten.NewImageFromImage(src),
		src:   src,
		rects: make([]image.Rectangle, def.GridWid*def.GridHei),
		subs:  make([]*ebiten.Image, def.GridWid*def.GridHei),
	}
	size := def.TileGridSize
	for y := 0; y < def.GridHei; y++ {
		for x := 0; x < def.GridWid; x++ {
			px := def.Padding + x*(size+def.Spacing)
			py := def.Padding + y*(size+def.Spacing)
			a.rects[AtlasCoordsToTileID(x, y, def.GridWid)] = image.Rect(px, py, px+size, py+size)
		}
	}

	b.atlases[def.UID] = a
	return a, nil
}

// Alternate returns a mirrored variant of a tile, synthesized on first use
// and memoized so repeated occurrences of the same flipped tile share one
// image. Unflipped requests return the plain sub-image.
func (b *AtlasBuilder) Alternate(a *Atlas, tileID int, flipH, flipV bool) *ebiten.Image {
	if !flipH && !flipV {
		return a.SubImage(tileID)
	}
	ax, ay := TileIDToAtlasCoords(tileID, a.Def.GridWid)
	key := altKey{
		tilesetUID: a.Def.UID,
		tileID:     tileID,
		atlasX:     ax,
		atlasY:     ay,
		flipH:      flipH,
		flipV:      flipV,
	}
	if img, ok := b.alternates[key]; ok {
		return img
	}

	sr, ok := a.Rect(tileID)
	if !ok {
		return nil
	}
	img := flipTile(a.src, sr, flipH, flipV)
	b.alternates[key] = img
	return img
}

// flipTile extracts the tile rect from the source bitmap mirrored along
// the requested axes. Nearest-neighbor is the fixed resampling policy for
// pixel art.
func flipTile(src image.Image, sr image.Rectangle, flipH, flipV bool) *ebiten.Image {
	w, h := sr.Dx(), sr.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	m := f64.Aff3{1, 0, -float64(sr.Min.X), 0, 1, -float64(sr.Min.Y)}
	if flipH {
		m[0] = -1
		m[2] = float64(sr.Max.X)
	}
	if flipV {
		m[4] = -1
		m[5] = float64(sr.Max.Y)
	}
	draw.NearestNeighbor.Transform(dst, m, src, sr, draw.Src, nil)
	return ebiten.NewImageFromImage(dst)
}
