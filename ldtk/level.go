package ldtk

import "github.com/google/uuid"

// NeighbourLevel links a level to an adjacent one in the world layout.
type NeighbourLevel struct {
	LevelIID string `json:"levelIid"`
	// Dir is a compass direction relative to this level: n, s, e, w and
	// corner combinations, or "<"/">" for overlapping depths.
	Dir string `json:"dir"`
}

// BackgroundPosition describes how a level's background image is cropped
// and scaled into place.
type BackgroundPosition struct {
	CropRect  [4]float64 `json:"cropRect"`
	Scale     [2]float64 `json:"scale"`
	TopLeftPx [2]int     `json:"topLeftPx"`
}

// Level is one playable area with its ordered layer instances
// (authored top-to-bottom).
type Level struct {
	UID        UID       `json:"uid"`
	IID        uuid.UUID `json:"iid"`
	Identifier string    `json:"identifier"`
	PxWid      int       `json:"pxWid"`
	PxHei      int       `json:"pxHei"`
	WorldX     int       `json:"worldX"`
	WorldY     int       `json:"worldY"`
	WorldDepth int       `json:"worldDepth"`

	BgColor    string              `json:"__bgColor"`
	RawBgColor *string             `json:"bgColor"`
	BgRelPath  *string             `json:"bgRelPath"`
	BgPosition *BackgroundPosition `json:"__bgPos"`
	BgPivotX   float64             `json:"bgPivotX"`
	BgPivotY   float64             `json:"bgPivotY"`

	FieldInstances  []*FieldInstance `json:"fieldInstances"`
	LayerInstances  []*LayerInstance `json:"layerInstances"`
	Neighbours      []NeighbourLevel `json:"__neighbours"`
	ExternalRelPath *string          `json:"externalRelPath"`
}

// Field returns the level's field instance with the given identifier.
func (l *Level) Field(identifier string) (*FieldInstance, bool) {
	return FieldIn(l.FieldInstances, identifier)
}

// Layer returns the layer instance with the given identifier.
func (l *Level) Layer(identifier string) (*LayerInstance, bool) {
	for _, li := range l.LayerInstances {
		if li != nil && li.Identifier == identifier {
			return li, true
		}
	}
	return nil, false
}

// World groups levels under one layout.
type World struct {
	IID             uuid.UUID `json:"iid"`
	Identifier      string    `json:"identifier"`
	Levels          []*Level  `json:"levels"`
	WorldLayout     string    `json:"worldLayout"`
	WorldGridWidth  int       `json:"worldGridWidth"`
	WorldGridHeight int       `json:"worldGridHeight"`
}
