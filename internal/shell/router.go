package shell

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrNoRoute      = errors.New("no route")
	ErrRedirectLoop = errors.New("redirect loop")
)

// maxRedirects bounds redirect chains.
const maxRedirects = 8

// Route is the content rendered in the outlet for a path.
type Route interface {
	Init() tea.Cmd
	// Activate is called each time navigation lands on the route. path is the
	// full resolved path, which may be a child of the registered path.
	Activate(path string) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
}

// InputCapturer is implemented by routes that sometimes need every key, for
// example while a text input has focus.
type InputCapturer interface {
	Capturing() bool
}

// Router maps paths to routes.
type Router struct {
	routes    map[string]Route
	redirects map[string]string
}

func NewRouter() *Router {
	return &Router{routes: map[string]Route{}, redirects: map[string]string{}}
}

// Register binds a route to a path. Registering the same path twice replaces
// the route.
func (r *Router) Register(p string, route Route) {
	r.routes[CleanPath(p)] = route
}

// Redirect sends navigation for from to to.
func (r *Router) Redirect(from, to string) {
	r.redirects[CleanPath(from)] = CleanPath(to)
}

// Resolve follows redirects and finds the route for p. Exact matches win;
// otherwise the longest registered parent path matches.
func (r *Router) Resolve(p string) (string, Route, error) {
	p = CleanPath(p)
	seen := map[string]bool{}
	for i := 0; ; i++ {
		to, ok := r.redirects[p]
		if !ok {
			break
		}
		if seen[p] || i >= maxRedirects {
			return "", nil, fmt.Errorf("%w: %s", ErrRedirectLoop, p)
		}
		seen[p] = true
		p = to
	}

	if route, ok := r.routes[p]; ok {
		return p, route, nil
	}
	best := ""
	for registered := range r.routes {
		if registered == "/" {
			continue
		}
		if strings.HasPrefix(p, registered+"/") && len(registered) > len(best) {
			best = registered
		}
	}
	if best != "" {
		return p, r.routes[best], nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrNoRoute, p)
}

// Routes returns registered routes ordered by path.
func (r *Router) Routes() []Route {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]Route, 0, len(paths))
	for _, p := range paths {
		out = append(out, r.routes[p])
	}
	return out
}

// CleanPath normalises a link target: "#/" and "" become "/", trailing
// slashes are dropped and a leading slash is added.
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "#")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
