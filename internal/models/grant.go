package models

// AllUsers is the pseudo-username meaning "every user". Granting it
// opens a deck to everyone; revoking it is always a no-op so public
// access cannot be dropped by an ordinary revoke.
const AllUsers = "all"

// GrantRole names one of the two membership sets on a deck grant
type GrantRole string

const (
	RoleEditors   GrantRole = "editors"
	RoleReviewers GrantRole = "reviewers"
)

// Valid reports whether the role names a known membership set
func (r GrantRole) Valid() bool {
	return r == RoleEditors || r == RoleReviewers
}

// DeckGrant is the per-deck permission document: one owner plus the
// editor and reviewer membership sets
type DeckGrant struct {
	DeckID    string   `json:"deck_id"`
	Owner     string   `json:"owner,omitempty"`
	Editors   []string `json:"editors"`
	Reviewers []string `json:"reviewers"`
}

// Permissions summarizes every deck a user can act on, keyed by role
type Permissions struct {
	Reviewer []string `json:"reviewer"`
	Editor   []string `json:"editor"`
	Owner    []string `json:"owner"`
}
