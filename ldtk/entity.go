package ldtk

import "github.com/google/uuid"

// EntityInstance is one placed entity on an Entities layer.
type EntityInstance struct {
	IID        uuid.UUID    `json:"iid"`
	Identifier string       `json:"__identifier"`
	Grid       [2]int       `json:"__grid"`
	Pivot      [2]float64   `json:"__pivot"`
	Tags       []string     `json:"__tags"`
	Tile       *TilesetRect `json:"__tile"`
	SmartColor string       `json:"__smartColor"`
	WorldX     *int         `json:"__worldX"`
	WorldY     *int         `json:"__worldY"`

	DefUID         UID              `json:"defUid"`
	Px             [2]int           `json:"px"`
	Width          int              `json:"width"`
	Height         int              `json:"height"`
	FieldInstances []*FieldInstance `json:"fieldInstances"`
}

// TopLeft returns the entity's top-left pixel position, derived from its
// pivot-anchored position.
func (e *EntityInstance) TopLeft() (float64, float64) {
	x := float64(e.Px[0]) - e.Pivot[0]*float64(e.Width)
	y := float64(e.Px[1]) - e.Pivot[1]*float64(e.Height)
	return x, y
}

// Center returns the entity's center pixel position, adjusted for pivot.
func (e *EntityInstance) Center() (float64, float64) {
	x, y := e.TopLeft()
	return x + float64(e.Width)/2, y + float64(e.Height)/2
}

// Field returns the entity's field instance with the given identifier.
func (e *EntityInstance) Field(identifier string) (*FieldInstance, bool) {
	return FieldIn(e.FieldInstances, identifier)
}
