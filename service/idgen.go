package service

import "github.com/google/uuid"

// IDGenerator produces a new unique contract identifier on each call.
type IDGenerator func() string

// NewUUIDGenerator returns a generator backed by random (v4) UUIDs.
func NewUUIDGenerator() IDGenerator {
	return uuid.NewString
}
