package ldtk

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"
)

// FieldKind identifies the variant held by a FieldValue.
type FieldKind int

const (
	KindNull FieldKind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindColor
	KindPoint
	KindEntityRef
	KindFilePath
	KindArray
)

func (k FieldKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindColor:
		return "Color"
	case KindPoint:
		return "Point"
	case KindEntityRef:
		return "EntityRef"
	case KindFilePath:
		return "FilePath"
	case KindArray:
		return "Array"
	}
	return "Unknown"
}

// Point is a grid-cell coordinate used by Point-typed fields.
type Point struct {
	Cx int `json:"cx"`
	Cy int `json:"cy"`
}

// EntityRef points at an entity instance somewhere in the project.
type EntityRef struct {
	EntityIID string `json:"entityIid"`
	LayerIID  string `json:"layerIid"`
	LevelIID  string `json:"levelIid"`
	WorldIID  string `json:"worldIid"`
}

// FieldValue holds one custom-field value. It is a tagged union over all
// value shapes LDtk can emit, including arrays of itself.
type FieldValue struct {
	kind FieldKind
	i    int64
	f    float64
	b    bool
	s    string
	p    Point
	ref  EntityRef
	arr  []FieldValue
}

func NullValue() FieldValue                 { return FieldValue{kind: KindNull} }
func IntValue(v int64) FieldValue           { return FieldValue{kind: KindInt, i: v} }
func FloatValue(v float64) FieldValue       { return FieldValue{kind: KindFloat, f: v} }
func BoolValue(v bool) FieldValue           { return FieldValue{kind: KindBool, b: v} }
func StringValue(v string) FieldValue       { return FieldValue{kind: KindString, s: v} }
func ColorValue(hex string) FieldValue      { return FieldValue{kind: KindColor, s: hex} }
func FilePathValue(v string) FieldValue     { return FieldValue{kind: KindFilePath, s: v} }
func PointValue(p Point) FieldValue         { return FieldValue{kind: KindPoint, p: p} }
func EntityRefValue(r EntityRef) FieldValue { return FieldValue{kind: KindEntityRef, ref: r} }
func ArrayValue(vs []FieldValue) FieldValue { return FieldValue{kind: KindArray, arr: vs} }

func (v FieldValue) Kind() FieldKind { return v.kind }
func (v FieldValue) IsNull() bool    { return v.kind == KindNull }

// Int returns the value as an int64. Float values are truncated.
func (v FieldValue) Int() int64 {
	if v.kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float returns the value as a float64. Int values are widened.
func (v FieldValue) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

func (v FieldValue) Bool() bool { return v.b }

// Str returns the string payload of String, Color and FilePath values.
func (v FieldValue) Str() string { return v.s }

// Color returns the hex color string ("#rrggbb") of a Color value.
func (v FieldValue) Color() string { return v.s }

// RGBA parses a Color value's hex string. Unparseable input yields opaque
// black rather than an error: color fields are cosmetic.
func (v FieldValue) RGBA() color.RGBA {
	return HexToRGBA(v.s)
}

func (v FieldValue) Point() Point         { return v.p }
func (v FieldValue) EntityRef() EntityRef { return v.ref }
func (v FieldValue) FilePath() string     { return v.s }
func (v FieldValue) Array() []FieldValue  { return v.arr }

// HexToRGBA parses a "#rrggbb" color string. Returns opaque black if the
// string does not parse.
func HexToRGBA(s string) color.RGBA {
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// UnmarshalJSON picks the first structurally matching variant. The probe
// order (array, numeric, bool, string/color-by-prefix, point, entity ref,
// null fallback) is a contract: ambiguous JSON shapes resolve the same way
// for every caller.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		*v = NullValue()
		return nil
	}

	switch trimmed[0] {
	case '[':
		var arr []FieldValue
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("field array: %w", err)
		}
		if arr == nil {
			arr = []FieldValue{}
		}
		*v = ArrayValue(arr)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("field number: %w", err)
		}
		if i, err := n.Int64(); err == nil {
			*v = IntValue(i)
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("field number %q: %w", n, err)
		}
		*v = FloatValue(f)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("field bool: %w", err)
		}
		*v = BoolValue(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("field string: %w", err)
		}
		if strings.HasPrefix(s, "#") {
			*v = ColorValue(s)
		} else {
			*v = StringValue(s)
		}
		return nil
	case '{':
		var pt struct {
			Cx *int `json:"cx"`
			Cy *int `json:"cy"`
		}
		if err := json.Unmarshal(data, &pt); err == nil && pt.Cx != nil && pt.Cy != nil {
			*v = PointValue(Point{Cx: *pt.Cx, Cy: *pt.Cy})
			return nil
		}
		var ref struct {
			EntityIID *string `json:"entityIid"`
			LayerIID  string  `json:"layerIid"`
			LevelIID  string  `json:"levelIid"`
			WorldIID  string  `json:"worldIid"`
		}
		if err := json.Unmarshal(data, &ref); err == nil && ref.EntityIID != nil {
			*v = EntityRefValue(EntityRef{
				EntityIID: *ref.EntityIID,
				LayerIID:  ref.LayerIID,
				LevelIID:  ref.LevelIID,
				WorldIID:  ref.WorldIID,
			})
			return nil
		}
		*v = NullValue()
		return nil
	}

	// "null" and anything unrecognized.
	*v = NullValue()
	return nil
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindBool:
		return json.Marshal(v.b)
	case KindString, KindColor, KindFilePath:
		return json.Marshal(v.s)
	case KindPoint:
		return json.Marshal(v.p)
	case KindEntityRef:
		return json.Marshal(v.ref)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	}
	return nil, fmt.Errorf("marshal field value: unknown kind %d", v.kind)
}

// FieldInstance is one custom-field occurrence on a level, layer or entity.
type FieldInstance struct {
	Identifier string     `json:"__identifier"`
	Type       string     `json:"__type"`
	Value      FieldValue `json:"__value"`
	DefUID     UID        `json:"defUid"`
}

type fieldInstanceRaw FieldInstance

// UnmarshalJSON decodes the instance and then re-tags FilePath-typed string
// values, which are structurally indistinguishable from plain strings.
func (fi *FieldInstance) UnmarshalJSON(data []byte) error {
	var raw fieldInstanceRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*fi = FieldInstance(raw)
	if strings.Contains(fi.Type, "FilePath") {
		fi.Value = retagFilePaths(fi.Value)
	}
	return nil
}

func retagFilePaths(v FieldValue) FieldValue {
	switch v.Kind() {
	case KindString, KindColor:
		return FilePathValue(v.Str())
	case KindArray:
		arr := v.Array()
		out := make([]FieldValue, len(arr))
		for i, el := range arr {
			out[i] = retagFilePaths(el)
		}
		return ArrayValue(out)
	}
	return v
}

// FieldIn returns the field with the given identifier from a field
// instance list, or false when absent.
func FieldIn(fields []*FieldInstance, identifier string) (*FieldInstance, bool) {
	for _, fi := range fields {
		if fi != nil && fi.Identifier == identifier {
			return fi, true
		}
	}
	return nil, false
}
