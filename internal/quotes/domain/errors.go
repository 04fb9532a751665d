package domain

import "orcamento_backend/platform/apperr"

// Business-rule errors of the quote workflow. Services and repositories
// return these; the HTTP layer maps them through apperr kinds.
var (
	// ErrInvalidQuantity is returned when a quantity is below 1.
	ErrInvalidQuantity = apperr.Validation("quantity must be an integer greater than or equal to 1")

	// ErrUnknownService is returned when a service id does not resolve in the catalog.
	ErrUnknownService = apperr.NotFound("service not found")

	// ErrUnknownClient is returned when a client id does not resolve in the catalog.
	ErrUnknownClient = apperr.NotFound("client not found")

	// ErrQuoteNotFound is returned when a quote id does not exist.
	ErrQuoteNotFound = apperr.NotFound("quote not found")

	// ErrLineItemNotFound is returned when the service has no line item on the quote.
	ErrLineItemNotFound = apperr.NotFound("line item not found on quote")

	// ErrQuoteNotMutable is returned for any line-item mutation outside Draft.
	ErrQuoteNotMutable = apperr.Conflict("quote is no longer editable")

	// ErrEmptyQuote is returned when finalizing a quote with zero line items.
	ErrEmptyQuote = apperr.Validation("quote must have at least one line item to be finalized")

	// ErrIllegalTransition is returned for any status change the transition table forbids.
	ErrIllegalTransition = apperr.Conflict("status transition not allowed")

	// ErrQuoteNotApproved is returned when converting a quote that is not Approved.
	ErrQuoteNotApproved = apperr.Conflict("only approved quotes can be converted to a sale")
)
