package ledgerv1

import (
	"fmt"
	"strconv"
	"time"

	"github.com/muhammadchandra19/venue-ledger/pkg/checked"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
)

// OrderID identifies an order within one ledger. The high bit is always set
// so that the zero value never names a live order.
type OrderID uint64

// NotNullBit is the marker bit carried by every issued OrderID.
const NotNullBit OrderID = 1 << 63

// Valid reports whether id carries the not-null marker.
func (id OrderID) Valid() bool {
	return id&NotNullBit != 0
}

func (id OrderID) String() string {
	return strconv.FormatUint(uint64(id), 16)
}

// ParseOrderID parses the hex form produced by String.
func ParseOrderID(s string) (OrderID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	return OrderID(v), nil
}

// Kind represents the side and state of an order.
type Kind uint8

const (
	// KindBuy is a live buy order.
	KindBuy Kind = iota
	// KindSell is a live sell order.
	KindSell
	// KindCancelledBuy is a buy order whose creator withdrew it.
	KindCancelledBuy
	// KindCancelledSell is a sell order whose creator withdrew it.
	KindCancelledSell
)

func (k Kind) String() string {
	switch k {
	case KindBuy:
		return "buy"
	case KindSell:
		return "sell"
	case KindCancelledBuy:
		return "cancelled_buy"
	case KindCancelledSell:
		return "cancelled_sell"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindBuy; k <= KindCancelledSell; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// IsCancelled reports whether k is one of the cancelled variants.
func (k Kind) IsCancelled() bool {
	return k == KindCancelledBuy || k == KindCancelledSell
}

// Cancelled returns the cancelled variant of k.
func (k Kind) Cancelled() Kind {
	switch k {
	case KindBuy:
		return KindCancelledBuy
	case KindSell:
		return KindCancelledSell
	default:
		return k
	}
}

// Order is a standing buy or sell intent together with the resources the
// ledger holds in escrow for it.
type Order struct {
	ID          OrderID   `json:"id"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	Sequence    uint64    `json:"sequence"`
	Kind        Kind      `json:"kind"`
	Item        string    `json:"item"`
	Price       int64     `json:"price"`
	Desired     int64     `json:"desired"`
	Remaining   int64     `json:"remaining"`
	StoredItems int64     `json:"storedItems"`
	StoredMoney int64     `json:"storedMoney"`
	// Version is the ledger version at the order's last mutation. A copy
	// with a higher version supersedes one with a lower version.
	Version     uint64    `json:"version"`
}

// IsBuy reports whether the order is a buy, live or cancelled.
func (o *Order) IsBuy() bool {
	return o.Kind == KindBuy || o.Kind == KindCancelledBuy
}

// IsLive reports whether the order can still take part in a trade.
func (o *Order) IsLive() bool {
	return (o.Kind == KindBuy || o.Kind == KindSell) && o.Remaining > 0
}

// IsEmpty reports whether nothing is left to trade or collect.
func (o *Order) IsEmpty() bool {
	return o.Remaining == 0 && o.StoredItems == 0 && o.StoredMoney == 0
}

// OlderThan orders by creation time, then by ledger sequence. Both orders
// must come from the same ledger; use OlderAcross otherwise.
func (o *Order) OlderThan(other *Order) bool {
	if !o.CreatedAt.Equal(other.CreatedAt) {
		return o.CreatedAt.Before(other.CreatedAt)
	}
	return o.Sequence < other.Sequence
}

// OlderAcross orders two orders held by possibly different ledgers. Orders
// created at the same instant in different venues are ordered by venue name,
// since sequences of different ledgers are unrelated.
func OlderAcross(venue string, o *Order, otherVenue string, other *Order) bool {
	if !o.CreatedAt.Equal(other.CreatedAt) || venue == otherVenue {
		return o.OlderThan(other)
	}
	return venue < otherVenue
}

// Collectable returns the item and money amounts the creator may withdraw
// without breaking the order's obligations.
func (o *Order) Collectable() (items, money int64) {
	switch o.Kind {
	case KindBuy:
		return o.StoredItems, checked.NonNegative(checked.Sub(o.StoredMoney, checked.Mul(o.Remaining, o.Price)))
	case KindSell:
		return checked.NonNegative(checked.Sub(o.StoredItems, o.Remaining)), o.StoredMoney
	default:
		return o.StoredItems, o.StoredMoney
	}
}

// Validate returns an error describing the first broken invariant.
func (o *Order) Validate() error {
	if !o.ID.Valid() {
		return fmt.Errorf("order %s: missing not-null marker", o.ID)
	}
	if o.Price < 0 || o.Desired < 0 || o.Remaining < 0 || o.StoredItems < 0 || o.StoredMoney < 0 {
		return fmt.Errorf("order %s: negative quantity (price=%d desired=%d remaining=%d items=%d money=%d)",
			o.ID, o.Price, o.Desired, o.Remaining, o.StoredItems, o.StoredMoney)
	}
	if o.Remaining > o.Desired {
		return fmt.Errorf("order %s: remaining %d exceeds desired %d", o.ID, o.Remaining, o.Desired)
	}
	switch o.Kind {
	case KindBuy:
		if owed := checked.Mul(o.Remaining, o.Price); owed > o.StoredMoney {
			return fmt.Errorf("order %s: escrowed money %d does not cover %d", o.ID, o.StoredMoney, owed)
		}
	case KindSell:
		if o.Remaining > o.StoredItems {
			return fmt.Errorf("order %s: escrowed items %d do not cover %d", o.ID, o.StoredItems, o.Remaining)
		}
	case KindCancelledBuy, KindCancelledSell:
		if o.Remaining != 0 {
			return fmt.Errorf("order %s: cancelled with remaining %d", o.ID, o.Remaining)
		}
	default:
		return fmt.Errorf("order %s: unknown kind %d", o.ID, o.Kind)
	}
	return nil
}

// MustValidate panics with a ledger invariant defect when Validate fails.
func (o *Order) MustValidate() {
	if err := o.Validate(); err != nil {
		panic(errors.Defect(errors.LedgerInvariantViolation, err.Error(), *o))
	}
}
