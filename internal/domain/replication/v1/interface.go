package replicationv1

import "context"

//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=replicationv1_mock

// Identity resolves the principal acting through a network session.
type Identity interface {
	Principal(ctx context.Context, session string) (string, error)
}

// Escrow moves items and money between inventories and the ledger.
// Withdrawals are all or nothing. Deposits return how much the inventory
// accepted and must not call back into a ledger.
type Escrow interface {
	Balance(ctx context.Context, inventory string) int64
	Stock(ctx context.Context, inventory, item string) int64
	WithdrawMoney(ctx context.Context, inventory string, amount int64) error
	WithdrawItems(ctx context.Context, inventory, item string, quantity int64) error
	DepositMoney(ctx context.Context, inventory string, amount int64) int64
	DepositItems(ctx context.Context, inventory, item string, quantity int64) int64
}

// Trust decides whether principal may use inventory at venue.
type Trust interface {
	Trusted(ctx context.Context, principal, inventory, venue string) bool
}

// Sender delivers a request envelope from a client to the authority.
type Sender interface {
	Send(ctx context.Context, env *Envelope) error
}

// Broadcaster delivers authority messages. Reliability follows the
// envelope type; best-effort messages may be dropped silently.
type Broadcaster interface {
	Broadcast(ctx context.Context, env *Envelope)
	SendTo(ctx context.Context, session string, env *Envelope)
}
