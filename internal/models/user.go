// Package models contains data structures for the application's domain models.
package models

import (
	"regexp"
	"strings"
)

// StartingCredits is the credit grant for every fresh login.
const StartingCredits = 300

// Credit costs for paid operations. Premium users bypass deduction entirely.
const (
	EditCost  = 20
	VideoCost = 100
)

// User is the identity and economy state of the person using the app.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfilePicture  string `json:"profilePicture,omitempty"`
	Credits         int    `json:"credits"`
	IsPremium       bool   `json:"isPremium"`
	IsProfilePublic bool   `json:"isProfilePublic"`
}

// UserBundle is the whole-document record persisted for the current user.
// It is always written wholesale; callers read-modify-write the full object.
type UserBundle struct {
	User
	SavedEdits        []SavedEdit `json:"savedEdits"`
	GenerationHistory []SavedEdit `json:"generationHistory"`
}

var idSanitizer = regexp.MustCompile(`[^a-z0-9_-]+`)

// DeriveUserID returns the stable identifier for a username. The same
// username always yields the same id; there is no account registry behind it.
func DeriveUserID(username string) string {
	id := strings.ToLower(strings.TrimSpace(username))
	id = strings.ReplaceAll(id, " ", "_")
	id = idSanitizer.ReplaceAllString(id, "")
	return id
}
