package cart

import (
	"time"

	"flowmart-be/internal/product"

	"github.com/google/uuid"
)

// Cart is the persistent cart record. UserID is nil for anonymous carts,
// which are referenced externally by their ID acting as a bearer token.
type Cart struct {
	ID        uuid.UUID `json:"id"`
	UserID    *uint     `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is one product line in a cart. Product is joined at read time and
// nil on raw item lists used internally by the merge engine.
type CartItem struct {
	ID        uint             `json:"id"`
	CartID    uuid.UUID        `json:"cart_id"`
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
}

// ShoppingCart is the read-facing view. Size and Subtotal are derived, never
// persisted; Subtotal uses the live product price in cents. An unresolvable
// cart maps to the zero-valued view rather than an error.
type ShoppingCart struct {
	Cart     *Cart      `json:"cart,omitempty"`
	Items    []CartItem `json:"items"`
	Size     int        `json:"size"`
	Subtotal int64      `json:"subtotal"`
}

// Identity carries the request's cart identity: the authenticated user if
// any, and the anonymous cart token read from the request boundary. A present
// UserID always wins over the token.
type Identity struct {
	UserID *uint
	Token  string
}
