package models

// SavedEdit is one persisted editing result. The ID is a timestamp-derived
// string that doubles as the creation time.
//
// The author fields are denormalized snapshots stamped when an edit is
// promoted to a public post; they are never rewritten when the user later
// changes their display name or picture.
type SavedEdit struct {
	ID       string `json:"id"`
	Original string `json:"original"`
	Edited   string `json:"edited"`
	Prompt   string `json:"prompt"`

	UserID             string `json:"userId,omitempty"`
	UserName           string `json:"userName,omitempty"`
	UserProfilePicture string `json:"userProfilePicture,omitempty"`
}
