package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("project not found")

// Project represents a single project owned by a user.
// It is intentionally storage-agnostic and read-only from this service's point of view.
type Project struct {
	ID        string    `json:"id"`
	OwnerUID  string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether uid is the project's owner.
func (p *Project) OwnedBy(uid string) bool {
	return p != nil && p.OwnerUID != "" && p.OwnerUID == uid
}
