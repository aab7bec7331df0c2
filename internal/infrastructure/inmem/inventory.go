package inmem

import (
	"context"
	"math"
	"sync"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
)

type stock struct {
	money int64
	items map[string]int64
}

// Inventory keeps money and item counts per inventory reference.
type Inventory struct {
	mu       sync.Mutex
	capacity int64
	stores   map[string]*stock
}

var _ replicationv1.Escrow = (*Inventory)(nil)

// NewInventory creates an empty inventory store. A positive capacity bounds
// the count of each item an inventory can hold; zero means unbounded.
func NewInventory(capacity int64) *Inventory {
	return &Inventory{
		capacity: capacity,
		stores:   make(map[string]*stock),
	}
}

func (v *Inventory) store(ref string) *stock {
	s, ok := v.stores[ref]
	if !ok {
		s = &stock{items: make(map[string]int64)}
		v.stores[ref] = s
	}
	return s
}

func (v *Inventory) Balance(_ context.Context, inventory string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store(inventory).money
}

func (v *Inventory) Stock(_ context.Context, inventory, item string) int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store(inventory).items[item]
}

func (v *Inventory) WithdrawMoney(_ context.Context, inventory string, amount int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.store(inventory)
	if amount < 0 || s.money < amount {
		return errors.NewValidationError(errors.InsufficientFunds, "inventory cannot pay", "inventory")
	}
	s.money -= amount
	return nil
}

func (v *Inventory) WithdrawItems(_ context.Context, inventory, item string, quantity int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.store(inventory)
	if quantity < 0 || s.items[item] < quantity {
		return errors.NewValidationError(errors.InsufficientStock, "inventory cannot supply", "inventory")
	}
	s.items[item] -= quantity
	if s.items[item] == 0 {
		delete(s.items, item)
	}
	return nil
}

// DepositMoney accepts as much of amount as fits without overflowing.
func (v *Inventory) DepositMoney(_ context.Context, inventory string, amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.store(inventory)
	accepted := min(amount, math.MaxInt64-s.money)
	s.money += accepted
	return accepted
}

// DepositItems accepts as much of quantity as the capacity leaves room for.
func (v *Inventory) DepositItems(_ context.Context, inventory, item string, quantity int64) int64 {
	if quantity <= 0 {
		return 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.store(inventory)
	room := math.MaxInt64 - s.items[item]
	if v.capacity > 0 {
		room = max(v.capacity-s.items[item], 0)
	}
	accepted := min(quantity, room)
	if accepted > 0 {
		s.items[item] += accepted
	}
	return accepted
}
