package scene

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilescene/ldtk"
)

func TestTileIDAtlasCoordsBijection(t *testing.T) {
	const cWid, cHei = 16, 8
	for id := 0; id < cWid*cHei; id++ {
		x, y := TileIDToAtlasCoords(id, cWid)
		assert.Equal(t, id, AtlasCoordsToTileID(x, y, cWid))
	}
}

func TestTileIDToAtlasCoordsKnownValues(t *testing.T) {
	// tilesWide=16: tile id 35 sits at atlas cell (3, 2), and the tile at
	// pixel (48, 32) with 16px tiles is that same id.
	x, y := TileIDToAtlasCoords(35, 16)
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)
	assert.Equal(t, 35, AtlasCoordsToTileID(48/16, 32/16, 16))
}

func tilesetDef() *ldtk.TilesetDefinition {
	return &ldtk.TilesetDefinition{
		UID:          1,
		Identifier:   "Terrain",
		RelPath:      "atlas/terrain.png",
		PxWid:        256,
		PxHei:        128,
		GridWid:      16,
		GridHei:      8,
		TileGridSize: 16,
	}
}

func TestAtlasBuildRegistersEveryCell(t *testing.T) {
	b := NewAtlasBuilder("", testLoader(256, 128))
	a, err := b.Build(tilesetDef(), true)
	require.NoError(t, err)

	// One rect per grid position, occupied or not.
	for id := 0; id < 16*8; id++ {
		r, ok := a.Rect(id)
		require.True(t, ok, "id %d", id)
		assert.Equal(t, 16, r.Dx())
		assert.Equal(t, 16, r.Dy())
	}
	_, ok := a.Rect(16 * 8)
	assert.False(t, ok)

	r, _ := a.Rect(35)
	assert.Equal(t, image.Rect(48, 32, 64, 48), r)
}

func TestAtlasBuildHonorsPaddingAndSpacing(t *testing.T) {
	def := tilesetDef()
	def.Padding = 2
	def.Spacing = 1
	def.GridWid = 4
	def.GridHei = 4

	b := NewAtlasBuilder("", testLoader(128, 128))
	a, err := b.Build(def, true)
	require.NoError(t, err)

	r, ok := a.Rect(AtlasCoordsToTileID(2, 1, 4))
	require.True(t, ok)
	assert.Equal(t, image.Rect(2+2*17, 2+17, 2+2*17+16, 2+17+16), r)
}

func TestAtlasBuildCaching(t *testing.T) {
	b := NewAtlasBuilder("", testLoader(256, 128))
	def := tilesetDef()

	a1, err := b.Build(def, true)
	require.NoError(t, err)
	a2, err := b.Build(def, true)
	require.NoError(t, err)
	assert.Same(t, a1, a2, "cached build must return the identical handle")

	a3, err := b.Build(def, false)
	require.NoError(t, err)
	assert.NotSame(t, a1, a3, "cache bypass must rebuild")

	// The bypassing build overwrites the cache entry.
	a4, err := b.Build(def, true)
	require.NoError(t, err)
	assert.Same(t, a3, a4)
}

func TestAtlasBuildResolvesPathAgainstBaseDir(t *testing.T) {
	var got string
	loader := func(path string) (image.Image, error) {
		got = path
		return testLoader(256, 128)(path)
	}

	b := NewAtlasBuilder("maps/sub", loader)
	def := tilesetDef()
	def.RelPath = "../atlas/terrain.png"
	_, err := b.Build(def, true)
	require.NoError(t, err)
	assert.Equal(t, "maps/atlas/terrain.png", got)
}

func TestAtlasBuildLoadFailure(t *testing.T) {
	b := NewAtlasBuilder("", failingLoader)
	_, err := b.Build(tilesetDef(), true)
	assert.ErrorIs(t, err, ErrResourceLoad)
}

func TestAlternateMemoization(t *testing.T) {
	b := NewAtlasBuilder("", testLoader(256, 128))
	a, err := b.Build(tilesetDef(), true)
	require.NoError(t, err)

	flipped := b.Alternate(a, 35, true, false)
	require.NotNil(t, flipped)
	assert.Same(t, flipped, b.Alternate(a, 35, true, false),
		"repeated occurrences of the same flipped tile share one image")

	other := b.Alternate(a, 35, true, true)
	require.NotNil(t, other)
	assert.NotSame(t, flipped, other, "distinct flip combinations are distinct alternates")

	// Unflipped requests are the plain sub-image, not an alternate.
	assert.Same(t, a.SubImage(35), b.Alternate(a, 35, false, false))
}

func TestResolveResourcePath(t *testing.T) {
	cases := []struct {
		name    string
		baseDir string
		rel     string
		want    string
	}{
		{"plain", "maps", "terrain.png", "maps/terrain.png"},
		{"dot_segments", "maps", "./a/./terrain.png", "maps/a/terrain.png"},
		{"parent_segments", "maps/world", "../shared/tiles.png", "maps/shared/tiles.png"},
		{"empty_base", "", "terrain.png", "terrain.png"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ResolveResourcePath(c.baseDir, c.rel))
		})
	}
}
