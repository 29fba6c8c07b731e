package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const loggerContextKey = "logger"

// WithEcho stores a request-scoped logger in the Echo context.
func WithEcho(c echo.Context, l *zap.Logger) {
	c.Set(loggerContextKey, l)
}

// FromContext retrieves the request-scoped logger from the Echo context,
// falling back to the global logger.
func FromContext(c echo.Context) *zap.Logger {
	l, ok := c.Get(loggerContextKey).(*zap.Logger)
	if !ok {
		return GetLogger()
	}
	return l
}
