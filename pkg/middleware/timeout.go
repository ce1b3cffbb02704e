package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"equipment-rental/pkg/utils"
)

// RequestTimeout bounds the context handlers pass down to the services.
// Websocket upgrades are long-lived and keep the request context as is.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.IsWebSocket() {
				return next(c)
			}
			ctx, cancel := utils.ContextWithTimeout(c, timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
