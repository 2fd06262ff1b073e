package scene

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilescene/ldtk"
)

// EntityEntry is one spawned entity handle with its stacking order.
type EntityEntry struct {
	Z        int
	Handle   Renderable
	Instance *ldtk.EntityInstance
}

// EntityLayer is the container for one Entities layer's spawned handles.
type EntityLayer struct {
	Name string

	entries []EntityEntry
	sorted  bool
}

// Entries returns the spawned handles in ascending z order.
func (el *EntityLayer) Entries() []EntityEntry {
	el.sortEntries()
	return el.entries
}

// Len returns the number of spawned handles.
func (el *EntityLayer) Len() int { return len(el.entries) }

func (el *EntityLayer) sortEntries() {
	if el.sorted {
		return
	}
	sort.SliceStable(el.entries, func(i, j int) bool { return el.entries[i].Z < el.entries[j].Z })
	el.sorted = true
}

// Draw renders the handles in ascending z order, so the highest-z entity
// lands on top.
func (el *EntityLayer) Draw(dst *ebiten.Image) {
	el.sortEntries()
	for _, e := range el.entries {
		e.Handle.Draw(dst)
	}
}

// BuildEntityLayer spawns the entities of an Entities layer instance in
// authored order. Entities the filter rejects, entities without a resolved
// mapper, and entities whose mapper returns nil are silently omitted.
//
// Stacking puts the first-authored entity on top:
// z = EntityZOffset + (total - index).
func (b *Builder) BuildEntityLayer(li *ldtk.LayerInstance, lvl *ldtk.Level) (*EntityLayer, error) {
	if li.Type != ldtk.LayerEntities {
		return nil, nil
	}
	el := &EntityLayer{Name: li.Identifier}
	total := len(li.EntityInstances)
	for i, e := range li.EntityInstances {
		if e == nil {
			continue
		}
		if b.cfg.EntityFilter != nil && !b.cfg.EntityFilter(e) {
			continue
		}
		fn, ok := b.registry.Resolve(e.Identifier)
		if !ok {
			continue
		}
		handle := fn(e, lvl)
		if handle == nil {
			continue
		}
		if b.cfg.PostSpawn != nil {
			b.cfg.PostSpawn(handle, e)
		}
		el.entries = append(el.entries, EntityEntry{
			Z:        b.cfg.EntityZOffset + (total - i),
			Handle:   handle,
			Instance: e,
		})
		el.sorted = false
	}
	return el, nil
}
