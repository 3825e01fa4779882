// Package session persists the wallet's SessionRecord between CLI runs.
//
// The record is always read and written as a whole under one fixed key, so a
// reader never observes a half-updated record. Update serializes
// read-modify-write cycles such as balance changes.
package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// RecordKey is the fixed key the record is stored under.
const RecordKey = "userData"

var ErrNoSession = errors.New("no stored session")

type Store interface {
	// Load returns the stored record, or nil, nil when none exists.
	Load(ctx context.Context) (*models.SessionRecord, error)
	// Save replaces the stored record.
	Save(ctx context.Context, rec *models.SessionRecord) error
	// Clear removes the record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Update loads the record, applies fn and saves the result atomically with
	// respect to other Store calls. It fails with ErrNoSession when empty.
	Update(ctx context.Context, fn func(rec *models.SessionRecord) error) (*models.SessionRecord, error)
}

type backend interface {
	load(ctx context.Context) (*models.SessionRecord, error)
	save(ctx context.Context, rec *models.SessionRecord) error
}

func update(ctx context.Context, b backend, fn func(rec *models.SessionRecord) error) (*models.SessionRecord, error) {
	rec, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoSession
	}
	if err := fn(rec); err != nil {
		return nil, err
	}
	if err := b.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}
