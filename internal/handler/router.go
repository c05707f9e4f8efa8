package handler

import (
	"net/http"

	"flowmart-be/internal/cart"
	"flowmart-be/internal/middleware"
	"flowmart-be/internal/product"
	"flowmart-be/internal/user"

	"github.com/labstack/echo/v4"
)

// Deps bundles the services the HTTP boundary exposes.
type Deps struct {
	Products product.Service
	Users    user.Service
	Carts    cart.Service
}

// Register wires all routes onto the echo instance.
func Register(e *echo.Echo, deps Deps) {
	products := &ProductHandler{Products: deps.Products}
	carts := &CartHandler{Carts: deps.Carts}
	authH := &AuthHandler{Users: deps.Users, Carts: deps.Carts}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/products", products.List)
	e.GET("/products/:id", products.Get)
	e.POST("/products", products.Create, middleware.RequireAuth, middleware.RequireAdmin)

	e.GET("/cart", carts.GetCart)
	e.PUT("/cart/items", carts.SetItem)
	e.POST("/cart/items", carts.AddItem)

	e.POST("/auth/register", authH.Register)
	e.POST("/auth/login", authH.Login)
	e.POST("/auth/logout", authH.Logout)
}
