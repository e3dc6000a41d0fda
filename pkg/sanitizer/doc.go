// Package sanitizer normalizes user supplied booking and contact fields
// before validation and storage.
package sanitizer
