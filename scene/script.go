package scene

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tilescene/ldtk"
)

// ScriptMapper compiles a tengo script into a mapping strategy, so entity
// handling can live in data files instead of Go code. Per entity the
// script sees:
//
//	identifier  entity type identifier
//	iid         instance id string
//	px          [x, y] pivot-anchored pixel position
//	grid        [cx, cy] grid position
//	size        [w, h] in pixels
//	fields      map of field identifier to native value
//
// Setting `skip = true` drops the entity; otherwise a Marker is produced
// and anything the script left in a `props` map is attached to it.
func ScriptMapper(src []byte) (MapperFunc, error) {
	script := tengo.NewScript(src)
	_ = script.Add("identifier", "")
	_ = script.Add("iid", "")
	_ = script.Add("px", []any{0, 0})
	_ = script.Add("grid", []any{0, 0})
	_ = script.Add("size", []any{0, 0})
	_ = script.Add("fields", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scene: compile mapper script: %w", err)
	}

	return func(e *ldtk.EntityInstance, lvl *ldtk.Level) Renderable {
		c := compiled.Clone()
		_ = c.Set("identifier", e.Identifier)
		_ = c.Set("iid", e.IID.String())
		_ = c.Set("px", []any{e.Px[0], e.Px[1]})
		_ = c.Set("grid", []any{e.Grid[0], e.Grid[1]})
		_ = c.Set("size", []any{e.Width, e.Height})
		_ = c.Set("fields", fieldsAsNative(e))

		if err := c.Run(); err != nil {
			log.Printf("scene: mapper script for %s: %v", e.Identifier, err)
			return nil
		}
		if c.Get("skip").Bool() {
			return nil
		}
		marker := NewMarker(e)
		if props := c.Get("props").Map(); len(props) > 0 {
			marker.Props = props
		}
		return marker
	}, nil
}

func fieldsAsNative(e *ldtk.EntityInstance) map[string]any {
	out := make(map[string]any, len(e.FieldInstances))
	for _, fi := range e.FieldInstances {
		if fi != nil {
			out[fi.Identifier] = fieldValueToNative(fi.Value)
		}
	}
	return out
}

func fieldValueToNative(v ldtk.FieldValue) any {
	switch v.Kind() {
	case ldtk.KindInt:
		return v.Int()
	case ldtk.KindFloat:
		return v.Float()
	case ldtk.KindBool:
		return v.Bool()
	case ldtk.KindString, ldtk.KindColor, ldtk.KindFilePath:
		return v.Str()
	case ldtk.KindPoint:
		p := v.Point()
		return map[string]any{"cx": p.Cx, "cy": p.Cy}
	case ldtk.KindEntityRef:
		r := v.EntityRef()
		return map[string]any{
			"entityIid": r.EntityIID,
			"layerIid":  r.LayerIID,
			"levelIid":  r.LevelIID,
			"worldIid":  r.WorldIID,
		}
	case ldtk.KindArray:
		arr := v.Array()
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = fieldValueToNative(el)
		}
		return out
	}
	return nil
}
