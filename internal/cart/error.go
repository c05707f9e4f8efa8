package cart

import "errors"

var (
	// -- Validation & Input --
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	// ErrDuplicateOwnerCart means the one-cart-per-user invariant was
	// violated upstream; callers must fail loudly rather than pick one.
	ErrDuplicateOwnerCart = errors.New("multiple carts found for one user")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
