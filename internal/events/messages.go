package events

import (
	"encoding/json"
	"time"
)

// Actions carried in change messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities that emit change messages.
const (
	EntityUser     = "user"
	EntityProfile  = "profile"
	EntityExpense  = "expense"
	EntityIncome   = "income"
	EntityCategory = "category"
)

// EntityChange is a lightweight notification that a row changed. Consumers
// fetch the current state from the API; the message itself carries only
// identity.
type EntityChange struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int64     `json:"id"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntityChange(entity, action string, id int64, name string) *EntityChange {
	return &EntityChange{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Name:      name,
		Timestamp: time.Now().UTC(),
	}
}

func (m *EntityChange) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntityChangeFromJSON(data []byte) (*EntityChange, error) {
	var msg EntityChange
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
