package domain

import "time"

// User is the root entity of the catalogue. Libraries, recommendations,
// and ratings are all scoped to a user, directly or through a library.
type User struct {
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username"` // Unique identity key
	PasswordHash string    `json:"-"`        // Argon2id encoded credential
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	NationalID   string    `json:"national_id"` // Unique
	Email        string    `json:"email"`       // Unique
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.Name == "" && u.Surname == "" {
		return u.Username
	}
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}
