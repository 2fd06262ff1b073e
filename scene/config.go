package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/tilescene/ldtk"
)

// Config controls one Builder. The function hooks are runtime-only; the
// plain fields round-trip through YAML so a game can keep its build
// settings next to its other data files.
type Config struct {
	// SpawnEntities enables the entity layer builder.
	SpawnEntities bool `yaml:"spawn_entities"`
	// DisableCache forces every build to produce a fresh composite (and
	// fresh atlases) instead of returning cached handles.
	DisableCache bool `yaml:"disable_cache"`
	// BackgroundEnabled emits a background fill (and image, when the level
	// has one) below all layers.
	BackgroundEnabled bool `yaml:"background"`
	// ZStride is the z distance between consecutive layers, leaving
	// headroom for per-entity offsets inside a layer.
	ZStride int `yaml:"z_stride"`
	// EntityZOffset is added to every entity's stacking order.
	EntityZOffset int `yaml:"entity_z_offset"`

	// Loader resolves tileset and background image paths. Defaults to
	// reading from the project's base directory on disk.
	Loader ImageLoader `yaml:"-"`
	// EntityFilter skips entities it returns false for.
	EntityFilter func(*ldtk.EntityInstance) bool `yaml:"-"`
	// PostSpawn runs after a mapper produced a handle, before it is
	// attached to the layer container.
	PostSpawn func(Renderable, *ldtk.EntityInstance) `yaml:"-"`
	// LayerOverride may intercept any layer instance and substitute its
	// own renderable, bypassing all built-in layer builders for it.
	LayerOverride func(*ldtk.LayerInstance) (Renderable, bool) `yaml:"-"`
}

// DefaultConfig returns the settings most games want: entities spawned,
// caching on, background on, layers spaced 100 z apart.
func DefaultConfig() Config {
	return Config{
		SpawnEntities:     true,
		BackgroundEnabled: true,
		ZStride:           100,
	}
}

// LoadConfig reads the YAML-serializable subset of Config from a file,
// layered over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("scene: load config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("scene: unmarshal config %s: %w", path, err)
	}
	return cfg, nil
}
