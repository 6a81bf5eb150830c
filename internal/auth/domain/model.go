package domain

// Identity is the verified caller of a request.
// Firebase UID is the primary identifier; a nil *Identity means the caller is anonymous.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}
