package models

import "gorm.io/datatypes"

// Flow is the single persisted row this service reads: the active
// conversation graph, exported as a JSON blob. Execution state
// (sessions) is deliberately not modeled here — it never touches the
// database (§1 Non-goals: persistent session storage).
type Flow struct {
	BaseModel
	Name string `gorm:"not null" json:"name"`
	// Status selects the active flow; the literal value "active" is
	// part of the external contract (§6), not configurable.
	Status string `gorm:"not null;default:'draft'" json:"status"`
	// Elements holds {"nodes":[...], "edges":[...]} exactly as authored
	// by the (out-of-scope) flow builder. datatypes.JSON accepts the
	// column coming back as bytes or string; any other scanned type is
	// an error.
	Elements datatypes.JSON `gorm:"type:json;not null" json:"elements"`
}

// TableName pins the table name explicitly since gorm would otherwise
// pluralize to "flows" already — kept for clarity given the literal
// table name is part of the external contract (§6).
func (Flow) TableName() string {
	return "flows"
}
