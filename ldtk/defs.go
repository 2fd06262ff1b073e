package ldtk

import "fmt"

// UID is the integer identifier LDtk assigns to every definition.
type UID = int64

// LayerType is the kind of a layer definition or instance.
type LayerType string

const (
	LayerIntGrid   LayerType = "IntGrid"
	LayerEntities  LayerType = "Entities"
	LayerTiles     LayerType = "Tiles"
	LayerAutoLayer LayerType = "AutoLayer"
)

// FieldDefinition declares one custom field on an entity or level.
type FieldDefinition struct {
	UID             UID         `json:"uid"`
	Identifier      string      `json:"identifier"`
	Type            string      `json:"__type"`
	CanBeNull       bool        `json:"canBeNull"`
	IsArray         bool        `json:"isArray"`
	DefaultOverride *FieldValue `json:"defaultOverride"`
	Min             *float64    `json:"min"`
	Max             *float64    `json:"max"`
}

// TileCustomData attaches an arbitrary string to one tile of a tileset.
type TileCustomData struct {
	TileID int    `json:"tileId"`
	Data   string `json:"data"`
}

// TileEnumTag marks a set of tiles with an enum value.
type TileEnumTag struct {
	EnumValueID string `json:"enumValueId"`
	TileIDs     []int  `json:"tileIds"`
}

// TilesetDefinition describes one tileset image and its sub-tile grid.
// Immutable once the project is decoded.
type TilesetDefinition struct {
	UID          UID              `json:"uid"`
	Identifier   string           `json:"identifier"`
	RelPath      string           `json:"relPath"`
	PxWid        int              `json:"pxWid"`
	PxHei        int              `json:"pxHei"`
	GridWid      int              `json:"__cWid"`
	GridHei      int              `json:"__cHei"`
	TileGridSize int              `json:"tileGridSize"`
	Padding      int              `json:"padding"`
	Spacing      int              `json:"spacing"`
	Tags         []string         `json:"tags"`
	CustomData   []TileCustomData `json:"customData"`
	EnumTags     []TileEnumTag    `json:"enumTags"`
}

// DataForTile returns the custom data string attached to a tile id, if any.
func (td *TilesetDefinition) DataForTile(tileID int) (string, bool) {
	for _, cd := range td.CustomData {
		if cd.TileID == tileID {
			return cd.Data, true
		}
	}
	return "", false
}

// TilesetRect addresses a rectangle inside a tileset image.
type TilesetRect struct {
	TilesetUID UID `json:"tilesetUid"`
	X          int `json:"x"`
	Y          int `json:"y"`
	W          int `json:"w"`
	H          int `json:"h"`
}

// EntityDefinition describes one entity type from the definitions catalog.
type EntityDefinition struct {
	UID           UID                `json:"uid"`
	Identifier    string             `json:"identifier"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	PivotX        float64            `json:"pivotX"`
	PivotY        float64            `json:"pivotY"`
	Color         string             `json:"color"`
	RenderMode    string             `json:"renderMode"`
	TileRect      *TilesetRect       `json:"tileRect"`
	TilesetID     *UID               `json:"tilesetId"`
	FieldDefs     []*FieldDefinition `json:"fieldDefs"`
	MaxCount      int                `json:"maxCount"`
	LimitBehavior string             `json:"limitBehavior"`
	Tags          []string           `json:"tags"`
}

// IntGridValueDef declares one int-grid value and its owning group.
// GroupUID 0 means the value is ungrouped.
type IntGridValueDef struct {
	Value      int    `json:"value"`
	Identifier string `json:"identifier"`
	Color      string `json:"color"`
	GroupUID   UID    `json:"groupUid"`
}

// IntGridValueGroupDef names a group of int-grid values.
type IntGridValueGroupDef struct {
	UID        UID    `json:"uid"`
	Identifier string `json:"identifier"`
	Color      string `json:"color"`
}

// LayerDefinition describes one layer type shared by all levels.
type LayerDefinition struct {
	UID               UID                    `json:"uid"`
	Identifier        string                 `json:"identifier"`
	Type              LayerType              `json:"type"`
	GridSize          int                    `json:"gridSize"`
	DisplayOpacity    float64                `json:"displayOpacity"`
	PxOffsetX         int                    `json:"pxOffsetX"`
	PxOffsetY         int                    `json:"pxOffsetY"`
	ParallaxFactorX   float64                `json:"parallaxFactorX"`
	ParallaxFactorY   float64                `json:"parallaxFactorY"`
	TilesetDefUID     *UID                   `json:"tilesetDefUid"`
	AutoTilesetDefUID *UID                   `json:"autoTilesetDefUid"`
	IntGridValues     []IntGridValueDef      `json:"intGridValues"`
	IntGridGroups     []IntGridValueGroupDef `json:"intGridValuesGroups"`
}

// GroupIdentifier resolves a group uid to its identifier. Returns false for
// uid 0 (ungrouped) and for unknown uids.
func (ld *LayerDefinition) GroupIdentifier(groupUID UID) (string, bool) {
	if groupUID == 0 {
		return "", false
	}
	for _, g := range ld.IntGridGroups {
		if g.UID == groupUID {
			return g.Identifier, true
		}
	}
	return "", false
}

// EnumValueDef is one value of an enum definition.
type EnumValueDef struct {
	ID       string       `json:"id"`
	Color    int64        `json:"color"`
	TileRect *TilesetRect `json:"tileRect"`
}

// EnumDefinition is an ordered list of named values.
type EnumDefinition struct {
	UID          UID            `json:"uid"`
	Identifier   string         `json:"identifier"`
	Values       []EnumValueDef `json:"values"`
	IconTileset  *UID           `json:"iconTilesetUid"`
	ExternalPath *string        `json:"externalRelPath"`
}

// Definitions is the shared catalog every instance resolves against.
type Definitions struct {
	Tilesets      []*TilesetDefinition `json:"tilesets"`
	Layers        []*LayerDefinition   `json:"layers"`
	Entities      []*EntityDefinition  `json:"entities"`
	Enums         []*EnumDefinition    `json:"enums"`
	ExternalEnums []*EnumDefinition    `json:"externalEnums"`

	tilesetByUID map[UID]*TilesetDefinition
	layerByUID   map[UID]*LayerDefinition
	entityByUID  map[UID]*EntityDefinition
	enumByUID    map[UID]*EnumDefinition
}

// index builds the uid lookup maps. Called once after decode.
func (d *Definitions) index() {
	d.tilesetByUID = make(map[UID]*TilesetDefinition, len(d.Tilesets))
	for _, td := range d.Tilesets {
		d.tilesetByUID[td.UID] = td
	}
	d.layerByUID = make(map[UID]*LayerDefinition, len(d.Layers))
	for _, ld := range d.Layers {
		d.layerByUID[ld.UID] = ld
	}
	d.entityByUID = make(map[UID]*EntityDefinition, len(d.Entities))
	for _, ed := range d.Entities {
		d.entityByUID[ed.UID] = ed
	}
	d.enumByUID = make(map[UID]*EnumDefinition, len(d.Enums)+len(d.ExternalEnums))
	for _, en := range d.Enums {
		d.enumByUID[en.UID] = en
	}
	for _, en := range d.ExternalEnums {
		d.enumByUID[en.UID] = en
	}
}

// Tileset resolves a tileset definition by uid.
func (d *Definitions) Tileset(uid UID) (*TilesetDefinition, error) {
	if td, ok := d.tilesetByUID[uid]; ok {
		return td, nil
	}
	return nil, fmt.Errorf("tileset uid %d: %w", uid, ErrMissingDefinition)
}

// Layer resolves a layer definition by uid.
func (d *Definitions) Layer(uid UID) (*LayerDefinition, error) {
	if ld, ok := d.layerByUID[uid]; ok {
		return ld, nil
	}
	return nil, fmt.Errorf("layer uid %d: %w", uid, ErrMissingDefinition)
}

// Entity resolves an entity definition by uid.
func (d *Definitions) Entity(uid UID) (*EntityDefinition, error) {
	if ed, ok := d.entityByUID[uid]; ok {
		return ed, nil
	}
	return nil, fmt.Errorf("entity uid %d: %w", uid, ErrMissingDefinition)
}

// Enum resolves an enum definition by uid.
func (d *Definitions) Enum(uid UID) (*EnumDefinition, error) {
	if en, ok := d.enumByUID[uid]; ok {
		return en, nil
	}
	return nil, fmt.Errorf("enum uid %d: %w", uid, ErrMissingDefinition)
}
