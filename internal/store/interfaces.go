package store

import (
	"context"
	"errors"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateID is returned when appending a threat whose ID is already stored
var ErrDuplicateID = errors.New("duplicate id")

// ThreatStore is the append log of threats. It returns everything it holds, expired
// threats included; callers decide what is active.
type ThreatStore interface {
	List(ctx context.Context) ([]model.Threat, error)
	Append(ctx context.Context, threat model.Threat) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	// Replace swaps the whole log, used by the startup cleanup.
	Replace(ctx context.Context, threats []model.Threat) error
}

// RecipientStore holds the single address that receives automatic alerts.
type RecipientStore interface {
	// Get returns "" when no recipient is set.
	Get(ctx context.Context) (string, error)
	// Set stores email; "" clears it.
	Set(ctx context.Context, email string) error
}
