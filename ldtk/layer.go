package ldtk

import "github.com/google/uuid"

// TileInstance is one placed tile, auto-generated or manually placed.
type TileInstance struct {
	// Px is the tile's pixel position in layer space. Layer offsets are
	// not baked in; renderers apply them at draw time.
	Px [2]int `json:"px"`
	// Src is the tile's source pixel position inside its tileset image.
	Src [2]int `json:"src"`
	// F holds the mirror flags: bit 0 = horizontal, bit 1 = vertical.
	F int `json:"f"`
	// T is the tile id inside the tileset.
	T int `json:"t"`
	// A is the per-tile alpha (1 = opaque).
	A float64 `json:"a"`
	// D is internal editor data (auto-layer rule ids, coord ids).
	D []int `json:"d"`
}

func (t TileInstance) FlipH() bool { return t.F&1 != 0 }
func (t TileInstance) FlipV() bool { return t.F&2 != 0 }

// LayerInstance is one layer of one level, carrying the raw tile, entity
// or int-grid payload. Derived fields computed by the editor arrive under
// double-underscore keys; instance-authored fields use plain keys.
type LayerInstance struct {
	IID            uuid.UUID `json:"iid"`
	Identifier     string    `json:"__identifier"`
	Type           LayerType `json:"__type"`
	GridWid        int       `json:"__cWid"`
	GridHei        int       `json:"__cHei"`
	GridSize       int       `json:"__gridSize"`
	Opacity        float64   `json:"__opacity"`
	PxTotalOffsetX int       `json:"__pxTotalOffsetX"`
	PxTotalOffsetY int       `json:"__pxTotalOffsetY"`
	TilesetDefUID  *UID      `json:"__tilesetDefUid"`
	TilesetRelPath *string   `json:"__tilesetRelPath"`

	LayerDefUID UID  `json:"layerDefUid"`
	LevelID     UID  `json:"levelId"`
	Visible     bool `json:"visible"`
	PxOffsetX   int  `json:"pxOffsetX"`
	PxOffsetY   int  `json:"pxOffsetY"`

	GridTiles       []TileInstance    `json:"gridTiles"`
	AutoLayerTiles  []TileInstance    `json:"autoLayerTiles"`
	EntityInstances []*EntityInstance `json:"entityInstances"`
	IntGridCSV      []int             `json:"intGridCsv"`
}

// Tiles returns the layer's tile records: auto-generated tiles first, then
// manually placed ones. For well-formed documents at most one of the two
// lists is non-empty.
func (li *LayerInstance) Tiles() []TileInstance {
	if len(li.AutoLayerTiles) == 0 {
		return li.GridTiles
	}
	if len(li.GridTiles) == 0 {
		return li.AutoLayerTiles
	}
	out := make([]TileInstance, 0, len(li.AutoLayerTiles)+len(li.GridTiles))
	out = append(out, li.AutoLayerTiles...)
	out = append(out, li.GridTiles...)
	return out
}

// HasTiles reports whether the layer carries any tile records.
func (li *LayerInstance) HasTiles() bool {
	return len(li.AutoLayerTiles) > 0 || len(li.GridTiles) > 0
}

// IntGridAt returns the int-grid value at grid cell (x, y); 0 means empty
// and is also returned for out-of-range coordinates.
func (li *LayerInstance) IntGridAt(x, y int) int {
	if x < 0 || y < 0 || x >= li.GridWid || y >= li.GridHei {
		return 0
	}
	idx := y*li.GridWid + x
	if idx >= len(li.IntGridCSV) {
		return 0
	}
	return li.IntGridCSV[idx]
}
