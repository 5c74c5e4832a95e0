// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - MealCatalog: The remote meal catalogue
//   - MealStore, BookmarkStore, CategoryStore: Local cache tables
//   - SettingsStore: The AppSettings row
//   - ChatStore: Persisted chat turns
//   - ChangeFeed: Commit notifications for live queries
//   - ConfigStore: Application configuration
//   - SchedulerStore: Background task state
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Assistant: Without it, chat replies are error turns.
//   - SpeechRecognizer: Without it, voice input is disabled.
//   - Notifier: Without it, the daily meal is logged only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
