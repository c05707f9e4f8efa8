package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"flowmart-be/internal/auth"
	"flowmart-be/internal/cart"
	"flowmart-be/internal/middleware"

	"github.com/labstack/echo/v4"
)

// cartTokenTTL keeps the anonymous cart cookie alive long enough for a
// returning shopper to find their cart again.
const cartTokenTTL = 30 * 24 * time.Hour

type CartHandler struct {
	Carts cart.Service
}

// identity assembles the request's cart identity from the auth context and
// the anonymous cart cookie.
func (h *CartHandler) identity(c echo.Context) cart.Identity {
	id := cart.Identity{Token: auth.ExtractCartToken(c.Request())}
	if userID, ok := middleware.GetUserIDFromContext(c.Request().Context()); ok {
		id.UserID = &userID
	}
	return id
}

func setCartTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CartTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cartTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCartTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CartTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	view, err := h.Carts.GetCart(c.Request().Context(), h.identity(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
	}
	return c.JSON(http.StatusOK, view)
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SetItem sets the exact quantity of a product line. Quantity 0 removes it.
func (h *CartHandler) SetItem(c echo.Context) error {
	return h.mutate(c, h.Carts.SetQuantity)
}

// AddItem increments the product line, the product page's add-to-cart.
func (h *CartHandler) AddItem(c echo.Context) error {
	return h.mutate(c, h.Carts.AddItem)
}

type mutateFn func(ctx context.Context, id cart.Identity, productID string, quantity int) (*cart.ShoppingCart, string, error)

func (h *CartHandler) mutate(c echo.Context, op mutateFn) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "product_id is required"})
	}

	view, token, err := op(c.Request().Context(), h.identity(c), req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		case errors.Is(err, cart.ErrInvalidQuantity):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid quantity"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update cart"})
		}
	}

	if token != "" {
		setCartTokenCookie(c, token)
	}
	return c.JSON(http.StatusOK, view)
}
