package repository

import (
	"context"
	"fmt"

	"lexiai-backend/models"
	"lexiai-backend/store"
)

// CaseRepository handles record store operations for legal cases
type CaseRepository struct {
	*Repository[models.Case]
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(s *store.Store) *CaseRepository {
	return &CaseRepository{
		Repository: NewRepository(s, CollectionCases, validateCase),
	}
}

// Schema returns the Case schema descriptor
func (r *CaseRepository) Schema() *models.Schema {
	return models.CaseSchema()
}

// Update validates enum fields present in the patch before applying it
func (r *CaseRepository) Update(ctx context.Context, id string, patch map[string]any) (*models.Case, error) {
	if err := validateCasePatch(patch); err != nil {
		return nil, err
	}
	return r.Repository.Update(ctx, id, patch)
}

// validateCase enforces required fields and enum membership, filling in
// the documented defaults for status and priority.
func validateCase(c *models.Case) error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if c.CaseType == "" {
		return fmt.Errorf("%w: case_type is required", ErrValidation)
	}
	if !oneOf(string(c.CaseType), models.CaseTypes) {
		return fmt.Errorf("%w: invalid case_type %q", ErrValidation, c.CaseType)
	}
	if c.Status == "" {
		c.Status = models.CaseStatusActive
	} else if !oneOf(string(c.Status), models.CaseStatuses) {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, c.Status)
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	} else if !oneOf(string(c.Priority), models.CasePriorities) {
		return fmt.Errorf("%w: invalid priority %q", ErrValidation, c.Priority)
	}
	return nil
}

func validateCasePatch(patch map[string]any) error {
	enums := map[string][]string{
		"case_type": models.CaseTypes,
		"status":    models.CaseStatuses,
		"priority":  models.CasePriorities,
	}
	for field, allowed := range enums {
		raw, ok := patch[field]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok || !oneOf(value, allowed) {
			return fmt.Errorf("%w: invalid %s %v", ErrValidation, field, raw)
		}
	}
	return nil
}
