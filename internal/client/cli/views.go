package cli

import "fmt"

// View rendering proper lives in the web client; the shell prints a header
// so navigation and gating are observable.
var viewTitles = map[string]string{
	"/login":      "Sign in",
	"/estacoes":   "Weather stations",
	"/dashboard":  "Dashboard",
	"/alertas":    "Alerts",
	"/educacao":   "Learning center",
	"/parametros": "Parameter management",
	"/perfil":     "Profile administration",
}

func (a *App) renderView(path string) {
	title, ok := viewTitles[path]
	if !ok {
		title = path
	}
	printlnFn(fmt.Sprintf("── %s [%s]", title, path))
}
