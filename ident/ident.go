// Package ident generates identifiers for questions and options created
// client-side, before the Remote Store has assigned any identity.
package ident

import "github.com/google/uuid"

// New returns an identifier that is unique for the lifetime of the current
// process and never reused. Collisions across independent authoring sessions
// are acceptable: identifiers are only meaningful within one form document.
func New() string {
	return uuid.NewString()
}
