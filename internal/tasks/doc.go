// Package tasks keeps the local catalog and learning progress up to date, reporting progress as it goes.
//
// # Catalog Sync
//
// [CatalogEngine] copies the remote catalog into local storage:
//
//  1. [CatalogEngine.SyncTracks] : fetch the track feed and cache every track
//     - With Refresh, each entry is re-fetched through a rate-limited worker pool
//     - Feed order is preserved; failures are collected in [SyncResult]
//
//  2. [CatalogEngine.SyncGoals] : fetch goal definitions and create or update each
//
// [ImportFile] loads the same data from a YAML or JSON file instead of the network.
//
// # Progress Bookkeeping
//
// [Tracker] records daily activity and goal enrollments, derives the [Snapshot] shown by the dashboard, the
// HTTP API, and reports, and awards badges whenever recorded progress changes.
//
// # Progress Reporting
//
// Long-running operations accept a channel of [ProgressUpdate]. Sends use select with default so a slow or
// absent reader never blocks the operation; a nil channel disables reporting.
package tasks
