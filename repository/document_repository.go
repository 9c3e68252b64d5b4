package repository

import (
	"fmt"

	"lexiai-backend/models"
	"lexiai-backend/store"
)

// DocumentRepository handles record store operations for case documents
type DocumentRepository struct {
	*Repository[models.Document]
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(s *store.Store) *DocumentRepository {
	return &DocumentRepository{
		Repository: NewRepository(s, CollectionDocuments, validateDocument),
	}
}

func validateDocument(d *models.Document) error {
	if d.CaseID == "" {
		return fmt.Errorf("%w: case_id is required", ErrValidation)
	}
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if d.DocumentCategory == "" {
		d.DocumentCategory = models.CategoryOther
	} else if !oneOf(string(d.DocumentCategory), models.DocumentCategories) {
		return fmt.Errorf("%w: invalid document_category %q", ErrValidation, d.DocumentCategory)
	}
	return nil
}
