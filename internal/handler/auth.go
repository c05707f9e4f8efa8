package handler

import (
	"errors"
	"net/http"
	"time"

	"flowmart-be/internal/auth"
	"flowmart-be/internal/cart"
	"flowmart-be/internal/logger"
	"flowmart-be/internal/user"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const accessTokenTTL = 24 * time.Hour

type AuthHandler struct {
	Users user.Service
	Carts cart.Service
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func setAccessTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(accessTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email and password are required"})
	}

	token, u, err := h.Users.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "registration failed"})
	}

	setAccessTokenCookie(c, token)
	h.claimCart(c, u.ID)

	return c.JSON(http.StatusCreated, authResponse{Token: token, ID: u.ID, Email: u.Email, Role: string(u.Role)})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	token, u, err := h.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "login failed"})
	}

	setAccessTokenCookie(c, token)
	h.claimCart(c, u.ID)

	return c.JSON(http.StatusOK, authResponse{Token: token, ID: u.ID, Email: u.Email, Role: string(u.Role)})
}

// claimCart folds the request's anonymous cart into the user's cart. Merge
// failures never fail the login; the shopper keeps the cookie and the merge
// retries on the next sign-in.
func (h *AuthHandler) claimCart(c echo.Context, userID uint) {
	cartToken := auth.ExtractCartToken(c.Request())
	if cartToken == "" {
		return
	}

	merged, err := h.Carts.MergeAnonymousCart(c.Request().Context(), cartToken, userID)
	if err != nil {
		logger.FromCtx(c.Request().Context()).Warn("cart merge on login failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return
	}
	if merged {
		clearCartTokenCookie(c)
	}
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}
