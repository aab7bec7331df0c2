package replication

import (
	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
)

// StateOf returns one order-changed create message per order of l, enough
// for a fresh Mirror to catch up before following the broadcast stream.
func StateOf(l *ledger.Ledger) ([]*replicationv1.Envelope, error) {
	orders := l.Orders(nil)
	envs := make([]*replicationv1.Envelope, 0, len(orders))
	for _, o := range orders {
		env, err := replicationv1.NewEnvelope(replicationv1.TypeOrderChanged, l.Venue(), replicationv1.OrderChanged{
			Op:    ledgerv1.OpCreate.String(),
			Order: replicationv1.FromOrder(o),
		})
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envs, nil
}
