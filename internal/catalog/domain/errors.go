// Package domain holds the catalog error taxonomy.
package domain

import "orcamento_backend/platform/apperr"

var (
	// ErrServiceNotFound is returned when a service id resolves to nothing.
	ErrServiceNotFound = apperr.NotFound("service not found")

	// ErrServiceNameTaken is returned when a service name collides with an
	// existing one.
	ErrServiceNameTaken = apperr.Conflict("service name already in use")

	// ErrServiceInUse blocks deleting a service referenced by quote or sale
	// line items.
	ErrServiceInUse = apperr.Conflict("service is referenced by quotes or sales")

	// ErrClientNotFound is returned when a client id resolves to nothing.
	ErrClientNotFound = apperr.NotFound("client not found")

	// ErrClientHasQuotes blocks deleting a client that owns quotes.
	ErrClientHasQuotes = apperr.Conflict("client has quotes")

	// ErrAddressNotFound is returned when an address id resolves to nothing
	// for the given client.
	ErrAddressNotFound = apperr.NotFound("address not found")

	// ErrInvalidPrice rejects non-positive unit prices.
	ErrInvalidPrice = apperr.Validation("unit price must be positive")

	// ErrCompanyNotFound is returned when a company id resolves to nothing.
	ErrCompanyNotFound = apperr.NotFound("company not found")

	// ErrCompanyCNPJTaken is returned when a CNPJ collides with an existing
	// company.
	ErrCompanyCNPJTaken = apperr.Conflict("cnpj already registered")

	// ErrInvalidCNPJ rejects CNPJs that do not carry exactly 14 digits.
	ErrInvalidCNPJ = apperr.Validation("cnpj must have 14 digits")
)
