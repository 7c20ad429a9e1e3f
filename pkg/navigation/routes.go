// Package navigation resolves application paths to views and keeps the
// remembered background page that detail overlays render above.
package navigation

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type View int

const (
	NotFound View = iota
	BuilderPage
	FeedPage
	FeedOrder
	PartDetail
	ProfilePage
	HistoryPage
	HistoryOrder
	LoginPage
	RegisterPage
	ForgotPasswordPage
	ResetPasswordPage
)

var viewNames = map[View]string{
	NotFound:           "not-found",
	BuilderPage:        "builder",
	FeedPage:           "feed",
	FeedOrder:          "feed-order",
	PartDetail:         "part-detail",
	ProfilePage:        "profile",
	HistoryPage:        "history",
	HistoryOrder:       "history-order",
	LoginPage:          "login",
	RegisterPage:       "register",
	ForgotPasswordPage: "forgot-password",
	ResetPasswordPage:  "reset-password",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return viewNames[NotFound]
}

func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(text []byte) error {
	for view, name := range viewNames {
		if name == string(text) {
			*v = view
			return nil
		}
	}
	return errors.Errorf("unknown view %q", text)
}

type access int

const (
	public access = iota
	protected
	anonymousOnly
)

type route struct {
	view   View
	path   string
	access access
	detail bool
}

var routeTable = []route{
	{view: BuilderPage, path: "/"},
	{view: FeedPage, path: "/feed"},
	{view: FeedOrder, path: "/feed/{number:[0-9]+}", detail: true},
	{view: PartDetail, path: "/ingredients/{id}", detail: true},
	{view: ProfilePage, path: "/profile", access: protected},
	{view: HistoryPage, path: "/profile/orders", access: protected},
	{view: HistoryOrder, path: "/profile/orders/{number:[0-9]+}", access: protected, detail: true},
	{view: LoginPage, path: "/login", access: anonymousOnly},
	{view: RegisterPage, path: "/register", access: anonymousOnly},
	{view: ForgotPasswordPage, path: "/forgot-password", access: anonymousOnly},
	{view: ResetPasswordPage, path: "/reset-password", access: anonymousOnly},
}

const (
	loginPath   = "/login"
	builderPath = "/"
)

// Match is a path resolved against the route table.
type Match struct {
	View   View              `json:"view"`
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
}

func (m Match) Detail() bool {
	r, ok := routeFor(m.View)
	return ok && r.detail
}

type Routes struct {
	router *mux.Router
	byName map[string]route
}

func NewRoutes() *Routes {
	routes := &Routes{router: mux.NewRouter(), byName: make(map[string]route, len(routeTable))}
	for _, r := range routeTable {
		routes.router.NewRoute().Methods(http.MethodGet).Path(r.path).Name(r.view.String())
		routes.byName[r.view.String()] = r
	}
	return routes
}

func (r *Routes) Match(path string) Match {
	u, err := url.Parse(path)
	if err != nil {
		return Match{View: NotFound, Path: path}
	}
	req := &http.Request{Method: http.MethodGet, URL: u}

	var match mux.RouteMatch
	if !r.router.Match(req, &match) || match.Route == nil {
		return Match{View: NotFound, Path: u.Path}
	}
	matched, ok := r.byName[match.Route.GetName()]
	if !ok {
		return Match{View: NotFound, Path: u.Path}
	}
	return Match{View: matched.view, Path: u.Path, Params: match.Vars}
}

// URL builds the path of a view, e.g. URL(FeedOrder, "number", "40763").
func (r *Routes) URL(view View, pairs ...string) (string, error) {
	named := r.router.Get(view.String())
	if named == nil {
		return "", errors.Errorf("no route for view %s", view)
	}
	u, err := named.URL(pairs...)
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

func routeFor(view View) (route, bool) {
	for _, r := range routeTable {
		if r.view == view {
			return r, true
		}
	}
	return route{}, false
}
