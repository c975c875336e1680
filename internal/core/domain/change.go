package domain

import "time"

type ChangeEntity string

const (
	EntityRestaurant ChangeEntity = "restaurant"
	EntitySection    ChangeEntity = "section"
	EntityItem       ChangeEntity = "item"
)

type ChangeAction string

const (
	ActionCreated    ChangeAction = "created"
	ActionUpdated    ChangeAction = "updated"
	ActionDeleted    ChangeAction = "deleted"
	ActionReordered  ChangeAction = "reordered"
	ActionKeyRotated ChangeAction = "secret_key_rotated"
)

// ChangeEvent describes one committed mutation of a restaurant's menu or profile.
type ChangeEvent struct {
	OwnerID      string       `json:"owner_id"`
	RestaurantID string       `json:"restaurant_id"`
	Entity       ChangeEntity `json:"entity"`
	EntityID     string       `json:"entity_id"`
	Action       ChangeAction `json:"action"`
	At           time.Time    `json:"at"`
}
