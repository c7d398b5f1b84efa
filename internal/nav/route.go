// Package nav decides, on every attempted destination change, whether the
// destination is reachable given the current session: proceed, bounce to
// login, or bounce home.
package nav

import "fmt"

// Route names mirror the application's destinations.
const (
	RouteLogin     = "login"
	RouteHome      = "home"
	RouteInference = "inference"
	RouteHistory   = "history"
	RouteAdmin     = "admin"
)

// Route is static per-destination metadata, not runtime state.
type Route struct {
	Name          string
	Path          string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Table is the set of navigable routes with its two designated
// destinations: where unauthenticated users land, and where denied users
// land.
type Table struct {
	routes map[string]Route
	login  string
	home   string
}

// NewTable builds a table. The login and home names must resolve to routes,
// and RequiresAdmin implies RequiresAuth.
func NewTable(login, home string, routes ...Route) (*Table, error) {
	t := &Table{
		routes: make(map[string]Route, len(routes)),
		login:  login,
		home:   home,
	}

	for _, r := range routes {
		if r.RequiresAdmin && !r.RequiresAuth {
			return nil, fmt.Errorf("route %q requires admin but not auth", r.Name)
		}
		if _, ok := t.routes[r.Name]; ok {
			return nil, fmt.Errorf("duplicate route %q", r.Name)
		}
		t.routes[r.Name] = r
	}

	if _, ok := t.routes[login]; !ok {
		return nil, fmt.Errorf("login route %q not in table", login)
	}
	if _, ok := t.routes[home]; !ok {
		return nil, fmt.Errorf("home route %q not in table", home)
	}

	return t, nil
}

// DefaultTable returns the application's route table.
func DefaultTable() *Table {
	t, err := NewTable(RouteLogin, RouteHome,
		Route{Name: RouteLogin, Path: "/login"},
		Route{Name: RouteHome, Path: "/", RequiresAuth: true},
		Route{Name: RouteInference, Path: "/inference", RequiresAuth: true},
		Route{Name: RouteHistory, Path: "/history", RequiresAuth: true},
		Route{Name: RouteAdmin, Path: "/admin", RequiresAuth: true, RequiresAdmin: true},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the named route.
func (t *Table) Lookup(name string) (Route, bool) {
	r, ok := t.routes[name]
	return r, ok
}

// Login returns the designated login route.
func (t *Table) Login() Route {
	return t.routes[t.login]
}

// Home returns the designated home route.
func (t *Table) Home() Route {
	return t.routes[t.home]
}
