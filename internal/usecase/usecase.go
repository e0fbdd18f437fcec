// Package usecase orchestrates the catalog aggregates: each use case loads
// or builds an aggregate, validates it, persists it through a gateway and
// publishes the matching domain event.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/validation"
	apperrors "github.com/utafrali/catalog/pkg/errors"
)

// IDOutput is returned by the create and update use cases.
type IDOutput struct {
	ID string `json:"id"`
}

// lookupError turns a gateway lookup failure into the error returned to
// callers: a not-found DomainError, or the wrapped fault.
func lookupError(err error, resource, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return validation.NotFound(fmt.Sprintf("%s with ID %s not found", resource, id))
	}
	return fmt.Errorf("find %s: %w", strings.ToLower(resource), err)
}

// checkCategories appends one error to h listing every requested category
// that does not exist, in request order. Duplicated missing IDs are listed
// as often as they were requested.
func checkCategories(ctx context.Context, gateway category.Gateway, ids []category.ID, h validation.Handler) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := gateway.ExistsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check categories: %w", err)
	}

	exists := make(map[category.ID]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id.Value())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return h.Append(validation.NewError("Some categories could not be found: " + strings.Join(missing, ", ")))
}
