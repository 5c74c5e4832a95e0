// Package gemini implements the Assistant port on top of the Gemini
// generateContent endpoint, using the generated Google API client.
package gemini
