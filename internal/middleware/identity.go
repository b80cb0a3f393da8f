package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's ID
// for rate-limit key building.  JWTAuth stores the sub claim under
// "user_id"; unauthenticated requests rate-limit as "anon".
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "anon"
}
