package database

import (
	"gorm.io/gorm"

	"github.com/pytake/flowengine/internal/database/models"
)

// Migrate ensures the flows table exists. The service only ever reads
// this table (flow authoring is out of scope), but AutoMigrate keeps
// local/test environments self-bootstrapping the way the teacher's
// migration step does for its own models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Flow{})
}
