package entities

import "time"

// Project is an owned, shareable resource. Code is the opaque external
// identifier; SafeName is the slug derived from the human-chosen name. Both
// are unique across the store's lifetime. OwnerID references the owning
// profile and never changes after creation.
type Project struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	SafeName    string    `json:"safe_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}
