// Package repositories implements SQLite persistence for the cadence catalog and learning progress.
//
// Catalog repositories use atomic sequence generation for stable ordering, and tracks support soft deletes via deleted_at timestamps.
//
// Key Implementations:
//   - [TrackRepository] : Songs and podcast clips synced from the catalog or imported from files
//   - [GoalRepository] : Learning goal definitions, seeded by migrations
//   - [EnrollmentRepository] : Progress through goals (one active at a time)
//   - [ActivityRepository] : One row of minutes and courses per calendar day
//   - [BadgeRepository] : Earned badges with their earned date
//   - [ResumeRepository] : Per-track resume positions for the player
//
// Calendar dates are stored as YYYY-MM-DD text so day equality never depends on time zones.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
