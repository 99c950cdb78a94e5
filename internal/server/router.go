package server

import (
	"net/http"
	"slices"
	"strings"
	"sync"
)

// BasicRouter dispatches API routes by path and method on top of an [http.ServeMux].
//
// Several methods may share one path. A request with an unregistered method gets a JSON 405 with an Allow
// header, and an unmatched path under /api/ gets a JSON 404 instead of the mux's plain-text page.
type BasicRouter struct {
	mu          sync.Mutex
	mux         *http.ServeMux
	routes      map[string]map[string]http.Handler
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:    http.NewServeMux(),
		routes: make(map[string]map[string]http.Handler),
	}
}

// Use adds [Middleware] to the stack, applied in the order it's added.
//
// Middleware only wraps routes registered after the call.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path.
//
// The first registration of a path mounts a dispatcher wrapped in the current middleware, so method
// mismatches are logged and recovered like any other request.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	method = strings.ToUpper(method)
	if methods, ok := r.routes[path]; ok {
		methods[method] = handler
		return
	}

	r.routes[path] = map[string]http.Handler{method: handler}
	r.mux.Handle(path, r.Apply(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.dispatch(path, w, req)
	})))
}

func (r *BasicRouter) dispatch(path string, w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	methods := r.routes[path]
	h, ok := methods[req.Method]
	if !ok && req.Method == http.MethodHead {
		h, ok = methods[http.MethodGet]
	}
	allowed := allow(methods)
	r.mu.Unlock()

	if !ok {
		w.Header().Set("Allow", allowed)
		writeError(w, http.StatusMethodNotAllowed, "method "+req.Method+" not allowed, use "+allowed)
		return
	}
	h.ServeHTTP(w, req)
}

// allow lists the methods registered for a path, sorted, with HEAD implied by GET.
func allow(methods map[string]http.Handler) string {
	names := make([]string, 0, len(methods)+1)
	for m := range methods {
		names = append(names, m)
	}
	if _, ok := methods[http.MethodGet]; ok {
		if _, ok := methods[http.MethodHead]; !ok {
			names = append(names, http.MethodHead)
		}
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// Handler mounts a [Handler] on every pattern from [Handler.Routes]. The handler does its own method checks.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if _, pattern := r.mux.Handler(req); pattern == "" && strings.HasPrefix(req.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "no route for "+req.URL.Path)
		return
	}
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
