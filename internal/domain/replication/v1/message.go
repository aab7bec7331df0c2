package replicationv1

import (
	"fmt"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// MessageType names a wire message.
type MessageType string

const (
	TypeRequestCreateBuy   MessageType = "request-create-buy"
	TypeRequestCreateSell  MessageType = "request-create-sell"
	TypeRequestCancel      MessageType = "request-cancel"
	TypeRequestCollect     MessageType = "request-collect"
	TypeOrderChanged       MessageType = "order-changed"
	TypeOrderSettledLocal  MessageType = "order-settled-local"
	TypeOrderSettledRemote MessageType = "order-settled-remote"
	TypeValidationFailed   MessageType = "validation-failed"
)

// Reliable reports whether messages of this type must be delivered.
// Cross-ledger settlement notices are best effort.
func (t MessageType) Reliable() bool {
	return t != TypeOrderSettledRemote
}

// IsRequest reports whether the type travels from a client to the authority.
func (t MessageType) IsRequest() bool {
	switch t {
	case TypeRequestCreateBuy, TypeRequestCreateSell, TypeRequestCancel, TypeRequestCollect:
		return true
	}
	return false
}

// CreateBuyRequest asks the authority to open a buy order paid from Inventory.
type CreateBuyRequest struct {
	Inventory string `json:"inventory"`
	Item      string `json:"item"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// CreateSellRequest asks the authority to open a sell order stocked from Inventory.
type CreateSellRequest struct {
	Inventory string `json:"inventory"`
	Item      string `json:"item"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// CancelRequest asks the authority to cancel one of the caller's orders.
type CancelRequest struct {
	OrderID string `json:"orderId"`
}

// CollectRequest asks the authority to move an order's collectable escrow
// into Inventory.
type CollectRequest struct {
	OrderID   string `json:"orderId"`
	Inventory string `json:"inventory"`
}

// OrderSnapshot is the wire form of an order.
type OrderSnapshot struct {
	OrderID     string                 `json:"orderId"`
	Creator     string                 `json:"creator"`
	CreatedAt   *timestamppb.Timestamp `json:"createdAt"`
	Sequence    uint64                 `json:"sequence"`
	Kind        string                 `json:"kind"`
	Item        string                 `json:"item"`
	Price       int64                  `json:"price"`
	Desired     int64                  `json:"desired"`
	Remaining   int64                  `json:"remaining"`
	StoredItems int64                  `json:"storedItems"`
	StoredMoney int64                  `json:"storedMoney"`
	Version     uint64                 `json:"version"`
}

// FromOrder converts a ledger order to its wire form.
func FromOrder(o ledgerv1.Order) OrderSnapshot {
	return OrderSnapshot{
		OrderID:     o.ID.String(),
		Creator:     o.Creator,
		CreatedAt:   timestamppb.New(o.CreatedAt),
		Sequence:    o.Sequence,
		Kind:        o.Kind.String(),
		Item:        o.Item,
		Price:       o.Price,
		Desired:     o.Desired,
		Remaining:   o.Remaining,
		StoredItems: o.StoredItems,
		StoredMoney: o.StoredMoney,
		Version:     o.Version,
	}
}

// ToOrder converts the wire form back to a ledger order.
func (s OrderSnapshot) ToOrder() (ledgerv1.Order, error) {
	id, err := ledgerv1.ParseOrderID(s.OrderID)
	if err != nil {
		return ledgerv1.Order{}, fmt.Errorf("order id %q: %w", s.OrderID, err)
	}
	kind, ok := ledgerv1.ParseKind(s.Kind)
	if !ok {
		return ledgerv1.Order{}, fmt.Errorf("order %s: unknown kind %q", s.OrderID, s.Kind)
	}
	return ledgerv1.Order{
		ID:          id,
		Creator:     s.Creator,
		CreatedAt:   s.CreatedAt.AsTime(),
		Sequence:    s.Sequence,
		Kind:        kind,
		Item:        s.Item,
		Price:       s.Price,
		Desired:     s.Desired,
		Remaining:   s.Remaining,
		StoredItems: s.StoredItems,
		StoredMoney: s.StoredMoney,
		Version:     s.Version,
	}, nil
}

// OrderChanged replicates one ledger change event.
type OrderChanged struct {
	Op    string        `json:"op"`
	Order OrderSnapshot `json:"order"`
}

// OrderSettled announces a trade. It carries both post-trade orders so that
// receivers of a same-ledger notice can apply them directly.
type OrderSettled struct {
	BuyVenue  string                 `json:"buyVenue"`
	SellVenue string                 `json:"sellVenue"`
	Buy       OrderSnapshot          `json:"buy"`
	Sell      OrderSnapshot          `json:"sell"`
	Price     int64                  `json:"price"`
	Quantity  int64                  `json:"quantity"`
	At        *timestamppb.Timestamp `json:"at"`
}

// ValidationFailed tells a session why its request was discarded.
type ValidationFailed struct {
	RequestID string `json:"requestId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
}
