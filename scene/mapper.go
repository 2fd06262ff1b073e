package scene

import (
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilescene/ldtk"
)

// MapperFunc turns one entity instance into a renderable handle. This is
// the only place game-specific logic enters the pipeline. Returning nil
// means "skip spawning this entity" and is not an error.
type MapperFunc func(e *ldtk.EntityInstance, lvl *ldtk.Level) Renderable

// Registry is a name-keyed table of entity mapping strategies with one
// optional default used when no identifier-specific strategy exists.
//
// A Registry belongs to the builder that holds it; wrap it yourself if you
// want to share one across goroutines.
type Registry struct {
	mappers map[string]MapperFunc
	def     MapperFunc
}

func NewRegistry() *Registry {
	return &Registry{mappers: make(map[string]MapperFunc)}
}

// Register binds a strategy to an entity type identifier, replacing any
// previous binding.
func (r *Registry) Register(identifier string, fn MapperFunc) {
	if identifier == "" || fn == nil {
		return
	}
	r.mappers[identifier] = fn
}

// Unregister removes the strategy bound to an identifier.
func (r *Registry) Unregister(identifier string) {
	delete(r.mappers, identifier)
}

// SetDefault installs the fallback strategy used when no
// identifier-specific one is registered. Pass nil to clear it.
func (r *Registry) SetDefault(fn MapperFunc) {
	r.def = fn
}

// Resolve returns the strategy for an identifier: the specific binding
// when present, else the default, else nothing.
func (r *Registry) Resolve(identifier string) (MapperFunc, bool) {
	if fn, ok := r.mappers[identifier]; ok {
		return fn, true
	}
	if r.def != nil {
		return r.def, true
	}
	return nil, false
}

// Marker is the minimal handoff object produced by the default strategy:
// the entity's identity and all of its field values, kept typed rather
// than stringified, for the host game to pick up after the build.
type Marker struct {
	Identifier string
	IID        uuid.UUID
	X, Y       float64
	Width      int
	Height     int
	Fields     map[string]ldtk.FieldValue
	// Props carries extra values attached by script mappers or PostSpawn
	// hooks.
	Props map[string]any
}

// Draw satisfies Renderable. Markers are invisible placeholders.
func (m *Marker) Draw(dst *ebiten.Image) {}

// NewMarker builds a marker from an entity instance, positioned at the
// entity's top-left.
func NewMarker(e *ldtk.EntityInstance) *Marker {
	x, y := e.TopLeft()
	m := &Marker{
		Identifier: e.Identifier,
		IID:        e.IID,
		X:          x,
		Y:          y,
		Width:      e.Width,
		Height:     e.Height,
		Fields:     make(map[string]ldtk.FieldValue, len(e.FieldInstances)),
	}
	for _, fi := range e.FieldInstances {
		if fi != nil {
			m.Fields[fi.Identifier] = fi.Value
		}
	}
	return m
}

// MarkerMapper is the built-in default strategy.
func MarkerMapper(e *ldtk.EntityInstance, lvl *ldtk.Level) Renderable {
	return NewMarker(e)
}
