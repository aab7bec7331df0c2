package snapshotv1

import "time"

// Snapshot represents the orders of one ledger at a specific point in time.
type Snapshot struct {
	Venue    string      `json:"venue"`
	Sequence uint64      `json:"sequence"`
	Version  uint64      `json:"version"`
	TakenAt  time.Time   `json:"takenAt"`
	Orders   []BookOrder `json:"orders"`
}

// BookOrder represents an order in the ledger with its escrow.
// CreatedAt is persisted with minute granularity; Sequence keeps the
// relative age of orders created within the same minute.
type BookOrder struct {
	OrderID     string    `json:"orderID"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	Sequence    uint64    `json:"sequence"`
	Kind        string    `json:"kind"`
	Item        string    `json:"item"`
	Price       int64     `json:"price"`
	Desired     int64     `json:"desired"`
	Remaining   int64     `json:"remaining"`
	StoredItems int64     `json:"storedItems"`
	StoredMoney int64     `json:"storedMoney"`
	Version     uint64    `json:"version"`
}
