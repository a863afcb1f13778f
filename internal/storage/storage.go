// Package storage persists hero profiles behind a narrow repository
// interface so the engine can run against Redis or an in-memory double.
package storage

import (
	"context"

	"github.com/jwebster45206/timequest/pkg/hero"
)

// ProfileRepository is the persistence contract consumed by the engine.
// Profiles are flushed synchronously after every mutating operation.
type ProfileRepository interface {
	// Ping tests the backing store connection.
	Ping(ctx context.Context) error

	// Close releases the backing store connection.
	Close() error

	// GetProfile returns the profile for a user, or nil when none
	// exists.
	GetProfile(ctx context.Context, userID string) (*hero.Profile, error)

	// SaveProfile persists a profile.
	SaveProfile(ctx context.Context, p *hero.Profile) error
}
