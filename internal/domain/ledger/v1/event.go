package ledgerv1

import "time"

// Op names the mutation a ChangeEvent reports.
type Op uint8

const (
	OpCreate Op = iota
	OpEdit
	OpCollect
	OpCancel
	OpBeforeRemoved
)

var opNames = [...]string{"create", "edit", "collect", "cancel", "before_removed"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// ParseOp is the inverse of Op.String.
func ParseOp(s string) (Op, bool) {
	for i, name := range opNames {
		if name == s {
			return Op(i), true
		}
	}
	return 0, false
}

// ChangeEvent carries the post-mutation snapshot of one order.
type ChangeEvent struct {
	Venue string
	Op    Op
	Order Order
}

// Removed reports whether the receiver should drop the order.
func (e ChangeEvent) Removed() bool {
	return e.Op == OpBeforeRemoved
}

// SettlementEvent describes one trade between a buy and a sell order.
// Venue is the ledger raising the event; a cross-ledger trade is raised by
// both ledgers involved.
type SettlementEvent struct {
	Venue     string
	BuyVenue  string
	SellVenue string
	Buy       Order
	Sell      Order
	Price     int64
	Quantity  int64
	At        time.Time
}

// CrossLedger reports whether the two orders live in different ledgers.
func (e SettlementEvent) CrossLedger() bool {
	return e.BuyVenue != e.SellVenue
}

// Item returns the traded item.
func (e SettlementEvent) Item() string {
	return e.Buy.Item
}
