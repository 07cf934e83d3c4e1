// Package services holds the storefront's business operations. Services
// take a docstore.Store in their constructor and keep no other state.
package services

import (
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/schema"
)

// defaultListLimit applies when a caller passes limit <= 0.
const defaultListLimit = 20

// validate applies defaults and schema rules to rec.
func validate(rec any) error {
	if fields := schema.Prepare(rec); len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

func listLimit(limit int) int64 {
	if limit <= 0 {
		return defaultListLimit
	}
	return int64(limit)
}
