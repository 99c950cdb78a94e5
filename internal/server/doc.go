// Package server provides HTTP routing, middleware, and the JSON progress API served by `cadence serve`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] and [Recover] are the middleware `cadence serve` installs.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Progress API
//
// [API] registers its routes on a [Router]:
//
//	GET  /health           → {"status": "ok"}
//	GET  /api/progress     → derived progress view, active goal, and targets
//	GET  /api/weekly       → Mon→Sun minutes for ?week=YYYY-MM-DD (default: this week)
//	GET  /api/badges       → badge catalog with earned dates
//	GET  /api/tracks       → cached tracks, filtered by ?type= and ?category=
//	GET  /api/tracks/{id}  → one cached track
//	GET  /api/goals        → goal definitions
//	POST /api/activity     → add minutes and courses to a day
//
// Errors are returned as {"detail": "..."}, the shape the catalog client decodes.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// The web dashboard page is registered this way.
package server
