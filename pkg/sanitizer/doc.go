// Package sanitizer normalizes user-supplied names before they are validated
// and stored.
//
// All functions are idempotent. Invalid input never produces an error; it
// normalizes to an empty string instead.
package sanitizer
