// Package domain holds the sale invariants and error taxonomy.
package domain

import "orcamento_backend/platform/apperr"

var (
	// ErrSaleNotFound is returned when a sale id resolves to nothing.
	ErrSaleNotFound = apperr.NotFound("sale not found")

	// ErrAlreadyConverted is returned when a sale already references the
	// quote. Conversion is one-way and happens at most once per quote.
	ErrAlreadyConverted = apperr.Conflict("quote already converted to a sale")
)
