// Package datastore defines the data-retrieval collaborator port. The loop
// controller calls each method exactly once while initializing a run.
package datastore

import (
	"context"

	"github.com/quorumfin/council/internal/domain/council"
)

// Store loads the records a council run is initialized from. Implementations
// return domain.ErrNotFound (wrapped) for missing records and
// domain.ErrUnavailable when the backing source cannot be reached.
type Store interface {
	// GetProfile loads the investor profile by user ID.
	GetProfile(ctx context.Context, userID string) (council.Profile, error)

	// GetCandidate loads the asset under evaluation by asset ID.
	GetCandidate(ctx context.Context, assetID string) (council.Candidate, error)

	// GetContext loads the most recent market snapshot.
	GetContext(ctx context.Context) (council.Context, error)
}
