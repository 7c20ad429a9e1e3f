package navigation

import (
	"context"
	"sync"
)

type CloseTrigger int

const (
	CloseButton CloseTrigger = iota
	Escape
	OutsideClick
)

func ParseCloseTrigger(s string) (CloseTrigger, bool) {
	switch s {
	case "", "button":
		return CloseButton, true
	case "escape":
		return Escape, true
	case "outside":
		return OutsideClick, true
	default:
		return 0, false
	}
}

// Location is one history entry. A non-nil Background means Path renders as
// an overlay above the background page.
type Location struct {
	Path       string    `json:"path"`
	Background *Location `json:"background,omitempty"`
}

type Screen struct {
	Page    Match  `json:"page"`
	Overlay *Match `json:"overlay,omitempty"`
}

type SessionReader interface {
	IsAuthenticated() bool
}

// Mounter loads whatever a view needs when it appears on screen.
type Mounter interface {
	Mount(ctx context.Context, match Match) error
}

type Navigator struct {
	routes  *Routes
	session SessionReader
	mounter Mounter

	mu      sync.Mutex
	history []Location
	screen  *Screen
}

func NewNavigator(routes *Routes, session SessionReader, mounter Mounter) *Navigator {
	return &Navigator{routes: routes, session: session, mounter: mounter}
}

// Open is a full-page navigation, the same as following a direct link.
func (n *Navigator) Open(ctx context.Context, path string) (Screen, error) {
	n.mu.Lock()
	n.history = append(n.history, n.guard(Location{Path: path}))
	screen, appeared := n.apply()
	n.mu.Unlock()

	return screen, n.mount(ctx, appeared)
}

// OpenOverlay shows a detail view above the current page. Non-detail paths
// and calls without a current page fall back to Open.
func (n *Navigator) OpenOverlay(ctx context.Context, path string) (Screen, error) {
	n.mu.Lock()
	current, ok := n.current()
	target := n.guard(Location{Path: path})
	if !ok || target.Path != path || !n.routes.Match(path).Detail() {
		n.history = append(n.history, target)
	} else {
		background := current
		if current.Background != nil {
			background = *current.Background
		}
		n.history = append(n.history, Location{Path: path, Background: &background})
	}
	screen, appeared := n.apply()
	n.mu.Unlock()

	return screen, n.mount(ctx, appeared)
}

// Close dismisses the overlay and returns to the remembered page. Every
// trigger behaves the same; without a background Close is a history Back.
func (n *Navigator) Close(ctx context.Context, _ CloseTrigger) (Screen, error) {
	n.mu.Lock()
	current, ok := n.current()
	if !ok {
		n.mu.Unlock()
		return Screen{}, nil
	}
	if current.Background == nil {
		return n.back(ctx)
	}

	background := *current.Background
	i := len(n.history) - 1
	for i >= 0 && n.history[i].Background != nil && n.history[i].Background.Path == background.Path {
		i--
	}
	if i >= 0 && n.history[i].Background == nil && n.history[i].Path == background.Path {
		n.history = n.history[:i+1]
	} else {
		n.history = append(n.history[:i+1], background)
	}
	screen, appeared := n.apply()
	n.mu.Unlock()

	return screen, n.mount(ctx, appeared)
}

func (n *Navigator) Back(ctx context.Context) (Screen, error) {
	n.mu.Lock()
	return n.back(ctx)
}

// back expects n.mu held and releases it.
func (n *Navigator) back(ctx context.Context) (Screen, error) {
	if len(n.history) <= 1 {
		defer n.mu.Unlock()
		if n.screen == nil {
			return Screen{}, nil
		}
		return *n.screen, nil
	}
	n.history = n.history[:len(n.history)-1]
	screen, appeared := n.apply()
	n.mu.Unlock()

	return screen, n.mount(ctx, appeared)
}

func (n *Navigator) Location() (Location, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current()
}

func (n *Navigator) Screen() (Screen, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.screen == nil {
		return Screen{}, false
	}
	return *n.screen, true
}

func (n *Navigator) current() (Location, bool) {
	if len(n.history) == 0 {
		return Location{}, false
	}
	return n.history[len(n.history)-1], true
}

// guard redirects anonymous users away from protected views and signed-in
// users away from login and registration views.
func (n *Navigator) guard(loc Location) Location {
	r, ok := routeFor(n.routes.Match(loc.Path).View)
	if !ok {
		return loc
	}
	authenticated := n.session.IsAuthenticated()
	switch {
	case r.access == protected && !authenticated:
		return Location{Path: loginPath}
	case r.access == anonymousOnly && authenticated:
		return Location{Path: builderPath}
	default:
		return loc
	}
}

// apply renders the top history entry and reports the views that newly
// appeared, so a page under a closed overlay is never reloaded. Callers hold
// n.mu.
func (n *Navigator) apply() (Screen, []Match) {
	loc, _ := n.current()

	var next Screen
	if loc.Background != nil {
		overlay := n.routes.Match(loc.Path)
		next = Screen{Page: n.routes.Match(loc.Background.Path), Overlay: &overlay}
	} else {
		next = Screen{Page: n.routes.Match(loc.Path)}
	}

	previous := n.screen
	n.screen = &next

	var appeared []Match
	if previous == nil || previous.Page.Path != next.Page.Path {
		appeared = append(appeared, next.Page)
	}
	if next.Overlay != nil && (previous == nil || previous.Overlay == nil || previous.Overlay.Path != next.Overlay.Path) {
		appeared = append(appeared, *next.Overlay)
	}
	return next, appeared
}

// mount runs without n.mu so view loads never block other navigation calls.
func (n *Navigator) mount(ctx context.Context, appeared []Match) error {
	for _, match := range appeared {
		if err := n.mounter.Mount(ctx, match); err != nil {
			return err
		}
	}
	return nil
}
