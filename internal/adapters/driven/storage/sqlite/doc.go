// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - MealStore: Cached catalogue meals and the reserved "random" alias
//   - BookmarkStore: Bookmarked meal snapshots
//   - CategoryStore: Cached categories and per-category summaries
//   - SettingsStore: The singleton app settings row
//   - ChatStore: Assistant conversation turns
//   - SchedulerStore: Background task state and history
//
// Every committed write is published to the optional change feed so live
// queries can re-read.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.delight/data/delight.db
package sqlite
