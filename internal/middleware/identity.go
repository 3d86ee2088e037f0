package middleware

import "github.com/labstack/echo/v4"

// operatorID returns the operator stored by JWTAuth, or "anon" when the
// request is unauthenticated.
func operatorID(c echo.Context) string {
	if s, ok := c.Get(ctxOperator).(string); ok && s != "" {
		return s
	}
	return "anon"
}
