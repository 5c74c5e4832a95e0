// Package themealdb implements driven.MealCatalog against the public
// TheMealDB JSON API (https://www.themealdb.com/api.php).
//
// All endpoints are unauthenticated GETs returning envelopes of the form
// {"meals": [...] | null} or {"categories": [...] | null}. A null or absent
// array is an empty result. Requests are throttled with a token bucket and
// back off after HTTP 429.
package themealdb
