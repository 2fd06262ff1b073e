package scene

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilescene/ldtk"
)

// testLoader returns synthetic bitmaps so no asset files are needed.
func testLoader(w, h int) ImageLoader {
	return func(path string) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
			}
		}
		return img, nil
	}
}

func failingLoader(path string) (image.Image, error) {
	return nil, fmt.Errorf("no bitmap for %s: %w", path, ErrResourceLoad)
}

const testProjectJSON = `{
	"jsonVersion": "1.5.3",
	"bgColor": "#40465b",
	"defs": {
		"tilesets": [
			{"uid": 1, "identifier": "Terrain", "relPath": "atlas/terrain.png",
			 "pxWid": 256, "pxHei": 128, "__cWid": 16, "__cHei": 8,
			 "tileGridSize": 16, "padding": 0, "spacing": 0}
		],
		"layers": [
			{"uid": 10, "identifier": "Collisions", "type": "IntGrid", "gridSize": 16,
			 "displayOpacity": 1,
			 "intGridValues": [
				{"value": 1, "identifier": "ground", "groupUid": 100},
				{"value": 2, "identifier": "water", "groupUid": 101},
				{"value": 3, "identifier": "decor", "groupUid": 0}
			 ],
			 "intGridValuesGroups": [
				{"uid": 100, "identifier": "groupA"},
				{"uid": 101, "identifier": "groupB"}
			 ]},
			{"uid": 11, "identifier": "Ground", "type": "Tiles", "gridSize": 16,
			 "displayOpacity": 1, "tilesetDefUid": 1},
			{"uid": 12, "identifier": "Actors", "type": "Entities", "gridSize": 16,
			 "displayOpacity": 1}
		],
		"entities": [
			{"uid": 20, "identifier": "Player", "width": 16, "height": 24,
			 "pivotX": 0.5, "pivotY": 1, "renderMode": "Rectangle"},
			{"uid": 21, "identifier": "Crate", "width": 16, "height": 16,
			 "pivotX": 0, "pivotY": 0, "renderMode": "Rectangle"}
		],
		"enums": []
	},
	"levels": [
		{"uid": 50, "identifier": "Start", "pxWid": 128, "pxHei": 64,
		 "__bgColor": "#222233",
		 "layerInstances": [
			{"__identifier": "Actors", "__type": "Entities", "__cWid": 8, "__cHei": 4,
			 "__gridSize": 16, "__opacity": 1, "layerDefUid": 12, "visible": true,
			 "entityInstances": [
				{"__identifier": "Player", "__grid": [1, 2], "__pivot": [0.5, 1],
				 "defUid": 20, "px": [24, 48], "width": 16, "height": 24,
				 "fieldInstances": [
					{"__identifier": "hp", "__type": "Int", "__value": 10, "defUid": 91},
					{"__identifier": "tint", "__type": "Color", "__value": "#ff0000", "defUid": 92}
				 ]},
				{"__identifier": "Crate", "__grid": [3, 1], "__pivot": [0, 0],
				 "defUid": 21, "px": [48, 16], "width": 16, "height": 16},
				{"__identifier": "Crate", "__grid": [5, 1], "__pivot": [0, 0],
				 "defUid": 21, "px": [80, 16], "width": 16, "height": 16}
			 ]},
			{"__identifier": "Ground", "__type": "Tiles", "__cWid": 8, "__cHei": 4,
			 "__gridSize": 16, "__opacity": 1,
			 "__tilesetDefUid": 1, "__tilesetRelPath": "atlas/terrain.png",
			 "layerDefUid": 11, "visible": true,
			 "gridTiles": [
				{"px": [32, 32], "src": [48, 32], "f": 0, "t": 35, "a": 1},
				{"px": [32, 32], "src": [0, 0], "f": 0, "t": 0, "a": 1},
				{"px": [0, 0], "src": [16, 0], "f": 1, "t": 1, "a": 1}
			 ]},
			{"__identifier": "Collisions", "__type": "IntGrid", "__cWid": 8, "__cHei": 4,
			 "__gridSize": 16, "__opacity": 1, "layerDefUid": 10, "visible": true,
			 "intGridCsv": [1, 0, 0, 0, 2, 0, 0, 0,
			                0, 3, 0, 0, 0, 0, 0, 0,
			                1, 0, 0, 0, 0, 0, 0, 0,
			                0, 0, 0, 0, 0, 0, 0, 0]}
		 ]}
	],
	"worlds": []
}`

func testProject(t *testing.T) *ldtk.Project {
	t.Helper()
	p, err := ldtk.Parse([]byte(testProjectJSON))
	require.NoError(t, err)
	return p
}

func testBuilder(t *testing.T, mut func(*Config)) *Builder {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Loader = testLoader(256, 128)
	if mut != nil {
		mut(&cfg)
	}
	return NewBuilder(testProject(t), cfg)
}

func layerByIdentifier(t *testing.T, p *ldtk.Project, level, layer string) *ldtk.LayerInstance {
	t.Helper()
	lvl, ok := p.LevelByIdentifier(level)
	require.True(t, ok)
	li, ok := lvl.Layer(layer)
	require.True(t, ok)
	return li
}
