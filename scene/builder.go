package scene

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilescene/ldtk"
)

// Builder synthesizes composite scenes from a parsed project. It owns the
// atlas builder, the mapper registry and the built-level cache.
//
// Builders are single-threaded: all build calls run to completion on the
// calling goroutine and the caches are unsynchronized by contract.
type Builder struct {
	project  *ldtk.Project
	cfg      Config
	atlases  *AtlasBuilder
	registry *Registry
	levels   map[string]*LevelNode
}

// NewBuilder creates a builder over a parsed project. A nil image loader
// in cfg defaults to reading from disk relative to the working directory.
func NewBuilder(project *ldtk.Project, cfg Config) *Builder {
	if cfg.Loader == nil {
		cfg.Loader = CachingLoader(DirImageLoader("."))
	}
	if cfg.ZStride <= 0 {
		cfg.ZStride = DefaultConfig().ZStride
	}
	return &Builder{
		project:  project,
		cfg:      cfg,
		atlases:  NewAtlasBuilder(project.BaseDir(), cfg.Loader),
		registry: NewRegistry(),
		levels:   make(map[string]*LevelNode),
	}
}

// Project returns the project this builder reads from.
func (b *Builder) Project() *ldtk.Project { return b.project }

// Mappers returns the builder's entity mapper registry.
func (b *Builder) Mappers() *Registry { return b.registry }

// Atlases returns the builder's tileset atlas builder.
func (b *Builder) Atlases() *AtlasBuilder { return b.atlases }

// Build resolves a level by identifier and builds its composite. With
// caching enabled the same handle is returned to every caller; an unknown
// identifier is a hard failure.
func (b *Builder) Build(identifier string) (*LevelNode, error) {
	if !b.cfg.DisableCache {
		if node, ok := b.levels[identifier]; ok {
			return node, nil
		}
	}
	lvl, ok := b.project.LevelByIdentifier(identifier)
	if !ok {
		return nil, fmt.Errorf("level %q: %w", identifier, ErrLevelNotFound)
	}
	node := b.BuildLevel(lvl)
	if !b.cfg.DisableCache {
		b.levels[identifier] = node
	}
	return node, nil
}

// BuildLevel builds the composite for a level record. Per-layer failures
// (missing definitions, unloadable tilesets) are logged and the layer is
// skipped; the level always builds with the failing layers omitted.
//
// Layer instances are processed in reverse authored order so the
// bottom-most layer is attached first, each layer taking the next z slot
// (spaced by the configured stride to leave headroom for per-entity
// offsets).
func (b *Builder) BuildLevel(lvl *ldtk.Level) *LevelNode {
	node := newLevelNode(lvl)

	if b.cfg.BackgroundEnabled {
		node.Attach(0, b.buildBackground(lvl))
	}

	z := b.cfg.ZStride
	for i := len(lvl.LayerInstances) - 1; i >= 0; i-- {
		li := lvl.LayerInstances[i]
		if li == nil {
			continue
		}
		zBase := z
		z += b.cfg.ZStride

		if b.cfg.LayerOverride != nil {
			if r, ok := b.cfg.LayerOverride(li); ok {
				node.Attach(zBase, r)
				continue
			}
		}

		switch li.Type {
		case ldtk.LayerTiles, ldtk.LayerAutoLayer:
			layers, err := b.BuildTileLayers(li)
			if err != nil {
				log.Printf("scene: level %s: %v; skipping layer", lvl.Identifier, err)
				continue
			}
			for _, tl := range layers {
				node.Attach(zBase+tl.StackIndex, tl)
			}
		case ldtk.LayerIntGrid:
			if li.HasTiles() {
				layers, err := b.BuildTileLayers(li)
				if err != nil {
					log.Printf("scene: level %s: %v; skipping visuals", lvl.Identifier, err)
				} else {
					for _, tl := range layers {
						node.Attach(zBase+tl.StackIndex, tl)
					}
				}
			}
			set, err := b.BuildCollisionLayers(li, nil)
			if err != nil {
				log.Printf("scene: level %s: %v; skipping layer", lvl.Identifier, err)
				continue
			}
			if set != nil {
				set.AddToSpace(node.Space)
				for _, cl := range set.Layers {
					node.Attach(zBase, cl)
				}
			}
		case ldtk.LayerEntities:
			if !b.cfg.SpawnEntities {
				continue
			}
			el, err := b.BuildEntityLayer(li, lvl)
			if err != nil {
				log.Printf("scene: level %s: %v; skipping layer", lvl.Identifier, err)
				continue
			}
			if el != nil {
				node.Attach(zBase, el)
			}
		default:
			log.Printf("scene: level %s: unknown layer type %q; skipping layer", lvl.Identifier, li.Type)
		}
	}
	return node
}

// buildBackground emits the background fill from the level's own color
// (falling back to the project default) plus the level's background image
// when it has one and it loads.
func (b *Builder) buildBackground(lvl *ldtk.Level) *BackgroundLayer {
	hex := lvl.BgColor
	if hex == "" {
		hex = b.project.BgColor
	}
	bg := &BackgroundLayer{
		Color:  ldtk.HexToRGBA(hex),
		Width:  lvl.PxWid,
		Height: lvl.PxHei,
	}
	if lvl.BgRelPath != nil && *lvl.BgRelPath != "" {
		resolved := ResolveResourcePath(b.project.BaseDir(), *lvl.BgRelPath)
		img, err := b.cfg.Loader(resolved)
		if err != nil {
			log.Printf("scene: level %s: background %s: %v", lvl.Identifier, resolved, err)
			return bg
		}
		bg.Image = ebiten.NewImageFromImage(img)
		if pos := lvl.BgPosition; pos != nil {
			bg.ImageX = float64(pos.TopLeftPx[0])
			bg.ImageY = float64(pos.TopLeftPx[1])
			bg.ScaleX = pos.Scale[0]
			bg.ScaleY = pos.Scale[1]
		}
	}
	return bg
}
