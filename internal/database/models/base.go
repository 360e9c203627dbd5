package models

import (
	"time"
)

// BaseModel contains the fields common to every persisted row. Unlike
// the teacher's version, there is no soft-delete or tenant embedding:
// this service has exactly one durable table and no multi-tenant
// scoping requirement.
type BaseModel struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
