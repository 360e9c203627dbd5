// Package store implements the Flow Store Adapter (C1): loading the
// single active flow row out of the relational store and decoding it
// into an engine.Model.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pytake/flowengine/internal/database/models"
	"github.com/pytake/flowengine/internal/flow/engine"
	"github.com/pytake/flowengine/internal/logger"
)

// Store loads the active flow from the database.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// New builds a Store bound to db.
func New(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// LoadActiveFlow fetches the first row where status = 'active' and
// decodes its elements column into a Model. On any failure the caller
// is expected to retain whatever flow it already has loaded (§4.1).
func (s *Store) LoadActiveFlow(ctx context.Context) (*engine.Model, error) {
	var row models.Flow
	err := s.db.WithContext(ctx).Where("status = ?", "active").First(&row).Error
	if err != nil {
		return nil, engine.NewFlowError(engine.ErrCodeLoadFailure, err.Error())
	}

	model, err := engine.ParseModel(fmt.Sprintf("%d", row.ID), row.Name, []byte(row.Elements), s.log)
	if err != nil {
		return nil, engine.NewFlowError(engine.ErrCodeLoadFailure, err.Error())
	}
	return model, nil
}

// Ping verifies the underlying database connection is reachable, used
// by the /health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
