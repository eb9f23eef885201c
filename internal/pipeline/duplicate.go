package pipeline

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/construbase/invoicepipe/internal/models"
)

// DuplicateGuard answers whether a source file was already turned into a
// document. Pure read on the file reference, global across tenants: at most
// one document may exist per source file.
type DuplicateGuard struct {
	db *gorm.DB
}

// NewDuplicateGuard creates a duplicate guard
func NewDuplicateGuard(db *gorm.DB) *DuplicateGuard {
	return &DuplicateGuard{db: db}
}

// FindByFileRef returns the document referencing fileRef, or nil when none
// exists. Runs on its own session so it can execute concurrently with the
// file fetch without touching the writer's state.
func (g *DuplicateGuard) FindByFileRef(ctx context.Context, fileRef string) (*models.FnDocument, error) {
	var doc models.FnDocument
	err := g.db.Session(&gorm.Session{NewDB: true}).
		WithContext(ctx).
		Where(`"doFile" = ?`, fileRef).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("duplicate check for %s: %w", fileRef, err)
	}
	return &doc, nil
}
