package models

// Route classification is static, process-wide configuration: public routes
// need no session, admin routes need an ADMIN role, and every other route
// needs any present session.

var publicRoutes = map[string]struct{}{
	"/login":     {},
	"/estacoes":  {},
	"/dashboard": {},
	"/alertas":   {},
	"/educacao":  {},
}

var adminRoutes = map[string]struct{}{
	"/parametros": {},
	"/perfil":     {},
}

// LoginRoute is where unauthenticated and rejected navigations land.
const LoginRoute = "/login"

// DefaultAuthedRoute is the landing route after a successful login.
const DefaultAuthedRoute = "/dashboard"

// IsPublic reports whether path is accessible without a session.
func IsPublic(path string) bool {
	_, ok := publicRoutes[path]
	return ok
}

// RequiresAdmin reports whether path is restricted to ADMIN users.
func RequiresAdmin(path string) bool {
	_, ok := adminRoutes[path]
	return ok
}

// KnownRoutes returns every route path the client navigates to, for
// help output and input validation.
func KnownRoutes() []string {
	routes := make([]string, 0, len(publicRoutes)+len(adminRoutes))
	for r := range publicRoutes {
		routes = append(routes, r)
	}
	for r := range adminRoutes {
		routes = append(routes, r)
	}
	return routes
}
