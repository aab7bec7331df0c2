package inmem

import (
	"context"
	"math"
	"sync"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
)

// Position is a point in the world.
type Position struct {
	X, Y, Z float64
}

// Distance returns the euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Sqrt((p.X-q.X)*(p.X-q.X) + (p.Y-q.Y)*(p.Y-q.Y) + (p.Z-q.Z)*(p.Z-q.Z))
}

// Proximity trusts an inventory at a venue when the principal owns it and it
// sits within MaxDistance of the venue.
type Proximity struct {
	maxDistance float64

	mu          sync.RWMutex
	owners      map[string]string
	inventories map[string]Position
	venues      map[string]Position
}

var _ replicationv1.Trust = (*Proximity)(nil)

func NewProximity(maxDistance float64) *Proximity {
	return &Proximity{
		maxDistance: maxDistance,
		owners:      make(map[string]string),
		inventories: make(map[string]Position),
		venues:      make(map[string]Position),
	}
}

// PlaceVenue records where venue is.
func (p *Proximity) PlaceVenue(venue string, at Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.venues[venue] = at
}

// PlaceInventory records where inventory is and who owns it.
func (p *Proximity) PlaceInventory(inventory, owner string, at Position) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inventories[inventory] = at
	p.owners[inventory] = owner
}

// RemoveInventory forgets inventory.
func (p *Proximity) RemoveInventory(inventory string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inventories, inventory)
	delete(p.owners, inventory)
}

func (p *Proximity) Trusted(_ context.Context, principal, inventory, venue string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if owner, ok := p.owners[inventory]; !ok || owner != principal {
		return false
	}
	venueAt, ok := p.venues[venue]
	if !ok {
		return false
	}
	return p.inventories[inventory].Distance(venueAt) <= p.maxDistance
}
