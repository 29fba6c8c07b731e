package tenant

import "github.com/labstack/echo/v4"

const (
	scopeContextKey = "tenant_scope"
	slugContextKey  = "tenant_slug"
)

// SetEcho writes the resolved scope and slug into the request's echo
// context. The context is request-local; each request starts Unset.
func SetEcho(c echo.Context, scope Scope, slug string) {
	c.Set(scopeContextKey, scope)
	c.Set(slugContextKey, slug)
}

// FromEcho returns the request's scope, or the Unset zero value when
// resolution has not run.
func FromEcho(c echo.Context) Scope {
	if s, ok := c.Get(scopeContextKey).(Scope); ok {
		return s
	}
	return Scope{}
}

// SlugFromEcho returns the resolved tenant slug, if any.
func SlugFromEcho(c echo.Context) string {
	if s, ok := c.Get(slugContextKey).(string); ok {
		return s
	}
	return ""
}
