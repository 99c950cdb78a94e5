// Package models defines domain entities for the cadence learning companion.
//
// The package contains two categories of types:
//
// 1. Catalog entities, supplied by the remote catalog or local import files
//   - [Track] : Song or podcast clip with duration and optional audio location
//   - [Goal] : Learning goal definition with estimated length in days
//
// 2. Progress entities, recorded locally
//   - [ActivityRecord] : Minutes learned and courses completed for one calendar day
//   - [Enrollment] : Progress through a single goal (current day, status)
//   - [Badge] : Catalog badge joined with earned status
//   - [DerivedProgressView] : Aggregated metrics rendered by the CLI, TUI, and HTTP API
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
