package snapshotv1

import "context"

// Store defines the interface for storing and loading ledger snapshots.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Load(ctx context.Context, venue string) (*Snapshot, error)
	Venues(ctx context.Context) ([]string, error)
}
