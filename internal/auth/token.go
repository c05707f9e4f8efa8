package auth

import (
	"net/http"
	"strings"
)

// CartTokenCookie is the long-lived cookie carrying the anonymous cart's
// bearer token. The name predates this service and is shared with the
// storefront frontend.
const CartTokenCookie = "localCartId"

const AccessTokenCookie = "access_token"

// ExtractAccessToken reads the access token, preferring the cookie over the
// Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// ExtractCartToken reads the anonymous cart token; an absent cookie yields
// the empty string, which the cart core treats as absence.
func ExtractCartToken(r *http.Request) string {
	if cookie, err := r.Cookie(CartTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
