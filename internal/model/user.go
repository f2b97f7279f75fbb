// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"regexp"
	"time"
)

// User represents a registered chat user.
//
// WHY IS UserID DERIVED, NOT GENERATED?
// The user ID doubles as the identity in the Stream Chat registry, which only
// accepts [a-z0-9@_-] style identifiers. Deriving it from the email keeps the
// two registries in lockstep without storing a mapping: the same email always
// produces the same ID on both sides, which is what makes /register-user
// idempotent.
//
// The trade-off: two different emails that differ only in sanitized-away
// characters ("a.b@x.com" vs "a_b@x.com") collapse to the same ID. We accept
// that collision class — see DeriveUserID.
type User struct {
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Email     string    `json:"email"     db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// userIDSanitizer matches every character that is NOT allowed in a user ID.
// Compiled once at package init — regexp compilation is not cheap enough to
// do per request.
var userIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DeriveUserID turns an email address into the user's canonical ID by
// replacing every character outside [A-Za-z0-9_-] with an underscore.
//
//	DeriveUserID("ada@x.com") == "ada_x_com"
//
// This is a pure function: calling it twice with the same email always yields
// the same ID, and there is no uniqueness check against the collision class
// documented on User.
func DeriveUserID(email string) string {
	return userIDSanitizer.ReplaceAllString(email, "_")
}
