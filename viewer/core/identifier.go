package core

import "github.com/google/uuid"

// NewInstanceID returns a stable per-instance identity for scene objects.
// Material override bookkeeping keys on these, so they must never collide
// across loads.
func NewInstanceID() string {
	return uuid.NewString()
}
