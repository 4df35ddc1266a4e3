package entities

import "time"

// User is an authenticated identity. The email is the stable external
// identifier; the password hash is produced by an external hasher.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Created      time.Time `json:"created"`
}

// Profile is the named entity paired with a User, externally addressable by
// its unique code.
type Profile struct {
	ID      int64     `json:"id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// Account is the joined projection returned by profile and user-info reads.
type Account struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
