package handler

import (
	"errors"
	"net/http"

	"flowmart-be/internal/product"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	Products product.Service
}

func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.Products.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load products"})
	}
	if products == nil {
		products = []product.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.Products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load product"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var input product.NewProductInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	p, err := h.Products.Create(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNameRequired), errors.Is(err, product.ErrInvalidPrice):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create product"})
		}
	}
	return c.JSON(http.StatusCreated, p)
}
