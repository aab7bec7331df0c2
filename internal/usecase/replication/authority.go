package replication

import (
	"context"
	"fmt"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/muhammadchandra19/venue-ledger/pkg/util"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Venues resolves the ledger of a venue.
type Venues interface {
	Ledger(venue string) (*ledger.Ledger, bool)
}

// EventSource publishes ledger events of every venue.
type EventSource interface {
	OnChange(fn func(ledgerv1.ChangeEvent))
	OnSettlement(fn func(ledgerv1.SettlementEvent))
}

// Authority is the server side of the replication protocol. Every request is
// validated against server state before anything is mutated.
type Authority struct {
	venues      Venues
	identity    replicationv1.Identity
	escrow      replicationv1.Escrow
	trust       replicationv1.Trust
	broadcaster replicationv1.Broadcaster
	logger      *logger.Logger
}

// NewAuthority wires the authority to its collaborators.
func NewAuthority(
	venues Venues,
	identity replicationv1.Identity,
	escrow replicationv1.Escrow,
	trust replicationv1.Trust,
	broadcaster replicationv1.Broadcaster,
	log *logger.Logger,
) *Authority {
	if log == nil {
		log = logger.NewNop()
	}
	return &Authority{
		venues:      venues,
		identity:    identity,
		escrow:      escrow,
		trust:       trust,
		broadcaster: broadcaster,
		logger:      log,
	}
}

func (a *Authority) resolve(ctx context.Context, session, venue string) (*ledger.Ledger, string, error) {
	principal, err := a.identity.Principal(ctx, session)
	if err != nil || principal == "" {
		return nil, "", errors.NewValidationError(errors.UnknownSession, "session has no principal", "session")
	}
	l, ok := a.venues.Ledger(venue)
	if !ok {
		return nil, "", errors.NewValidationError(errors.UnknownVenue, fmt.Sprintf("venue %q has no ledger", venue), "venue")
	}
	return l, principal, nil
}

func (a *Authority) checkTrust(ctx context.Context, principal, inventory, venue string) error {
	if inventory == "" || !a.trust.Trusted(ctx, principal, inventory, venue) {
		return errors.NewValidationError(errors.UntrustedInventory,
			fmt.Sprintf("inventory %q is not trusted at venue %q", inventory, venue), "inventory")
	}
	return nil
}

// CreateBuy withdraws the full price of the order from the requested
// inventory and opens the order.
func (a *Authority) CreateBuy(ctx context.Context, session, venue string, req replicationv1.CreateBuyRequest) (ledgerv1.OrderID, error) {
	l, principal, err := a.resolve(ctx, session, venue)
	if err != nil {
		return 0, err
	}
	if err := a.checkTrust(ctx, principal, req.Inventory, venue); err != nil {
		return 0, err
	}
	cost, err := checkCreateBuy(req, a.escrow.Balance(ctx, req.Inventory))
	if err != nil {
		return 0, err
	}
	if err := a.escrow.WithdrawMoney(ctx, req.Inventory, cost); err != nil {
		return 0, errors.NewValidationError(errors.InsufficientFunds, err.Error(), "inventory")
	}

	id := l.CreateBuy(principal, req.Item, req.Price, req.Quantity, cost)
	a.logger.InfoContext(ctx, "buy order created",
		logger.NewField("orderID", id.String()),
		logger.NewField("principal", principal),
		logger.NewField("item", req.Item),
	)
	return id, nil
}

// CreateSell withdraws the offered items from the requested inventory and
// opens the order.
func (a *Authority) CreateSell(ctx context.Context, session, venue string, req replicationv1.CreateSellRequest) (ledgerv1.OrderID, error) {
	l, principal, err := a.resolve(ctx, session, venue)
	if err != nil {
		return 0, err
	}
	if err := a.checkTrust(ctx, principal, req.Inventory, venue); err != nil {
		return 0, err
	}
	if err := checkCreateSell(req, a.escrow.Stock(ctx, req.Inventory, req.Item)); err != nil {
		return 0, err
	}
	if err := a.escrow.WithdrawItems(ctx, req.Inventory, req.Item, req.Quantity); err != nil {
		return 0, errors.NewValidationError(errors.InsufficientStock, err.Error(), "inventory")
	}

	id := l.CreateSell(principal, req.Item, req.Price, req.Quantity)
	a.logger.InfoContext(ctx, "sell order created",
		logger.NewField("orderID", id.String()),
		logger.NewField("principal", principal),
		logger.NewField("item", req.Item),
	)
	return id, nil
}

// Cancel cancels one of the principal's orders.
func (a *Authority) Cancel(ctx context.Context, session, venue string, req replicationv1.CancelRequest) error {
	l, principal, err := a.resolve(ctx, session, venue)
	if err != nil {
		return err
	}
	id, err := parseOrderID(req.OrderID)
	if err != nil {
		return err
	}
	o, found := l.Get(id)
	if err := checkOwned(o, found, principal); err != nil {
		return err
	}
	if !l.Cancel(id) {
		return errors.NewValidationError(errors.NoSuchOrder, "order does not exist", "orderId")
	}
	return nil
}

// Collect deposits the collectable escrow of one of the principal's orders
// into a trusted inventory.
func (a *Authority) Collect(ctx context.Context, session, venue string, req replicationv1.CollectRequest) (ledgerv1.CollectResult, error) {
	l, principal, err := a.resolve(ctx, session, venue)
	if err != nil {
		return ledgerv1.CollectNoSuchOrder, err
	}
	id, err := parseOrderID(req.OrderID)
	if err != nil {
		return ledgerv1.CollectNoSuchOrder, err
	}
	o, found := l.Get(id)
	if err := checkOwned(o, found, principal); err != nil {
		return ledgerv1.CollectNoSuchOrder, err
	}
	if err := a.checkTrust(ctx, principal, req.Inventory, venue); err != nil {
		return ledgerv1.CollectNoSuchOrder, err
	}

	itemSink := func(offered int64) int64 {
		return a.escrow.DepositItems(ctx, req.Inventory, o.Item, offered)
	}
	moneySink := func(offered int64) int64 {
		return a.escrow.DepositMoney(ctx, req.Inventory, offered)
	}
	result := l.Collect(id, itemSink, moneySink)
	if result == ledgerv1.CollectNoSuchOrder {
		return result, errors.NewValidationError(errors.NoSuchOrder, "order does not exist", "orderId")
	}
	return result, nil
}

// Handle decodes a request envelope received from session and executes it.
// A rejected request is answered with a validation-failed message to that
// session only.
func (a *Authority) Handle(ctx context.Context, session string, env *replicationv1.Envelope) error {
	ctx = util.WithVenue(util.WithSessionID(ctx, session), env.Venue)
	err := a.dispatch(ctx, session, env)
	if err == nil {
		return nil
	}

	if !errors.IsValidation(err) {
		a.logger.ErrorContext(ctx, err, logger.NewField("type", string(env.Type)))
		return err
	}
	a.logger.DebugContext(ctx, "request rejected",
		logger.NewField("type", string(env.Type)),
		logger.NewField("code", errors.CodeOf(err)),
	)
	a.reject(ctx, session, env, err)
	return err
}

func (a *Authority) dispatch(ctx context.Context, session string, env *replicationv1.Envelope) error {
	switch env.Type {
	case replicationv1.TypeRequestCreateBuy:
		var req replicationv1.CreateBuyRequest
		if err := env.Decode(&req); err != nil {
			return errors.NewValidationError(errors.InvalidRequest, err.Error(), "payload")
		}
		_, err := a.CreateBuy(ctx, session, env.Venue, req)
		return err
	case replicationv1.TypeRequestCreateSell:
		var req replicationv1.CreateSellRequest
		if err := env.Decode(&req); err != nil {
			return errors.NewValidationError(errors.InvalidRequest, err.Error(), "payload")
		}
		_, err := a.CreateSell(ctx, session, env.Venue, req)
		return err
	case replicationv1.TypeRequestCancel:
		var req replicationv1.CancelRequest
		if err := env.Decode(&req); err != nil {
			return errors.NewValidationError(errors.InvalidRequest, err.Error(), "payload")
		}
		return a.Cancel(ctx, session, env.Venue, req)
	case replicationv1.TypeRequestCollect:
		var req replicationv1.CollectRequest
		if err := env.Decode(&req); err != nil {
			return errors.NewValidationError(errors.InvalidRequest, err.Error(), "payload")
		}
		_, err := a.Collect(ctx, session, env.Venue, req)
		return err
	default:
		return errors.NewValidationError(errors.InvalidRequest,
			fmt.Sprintf("%s is not a request", env.Type), "type")
	}
}

func (a *Authority) reject(ctx context.Context, session string, req *replicationv1.Envelope, cause error) {
	details := errors.DetailsOf(cause)
	reply, err := replicationv1.NewEnvelope(replicationv1.TypeValidationFailed, req.Venue, replicationv1.ValidationFailed{
		RequestID: req.ID,
		Code:      details.Code,
		Message:   details.Message,
		Field:     details.Field,
	})
	if err != nil {
		a.logger.ErrorContext(ctx, err)
		return
	}
	a.broadcaster.SendTo(ctx, session, reply)
}

// Attach replicates every event of src. Change events and same-ledger
// settlements are sent reliably. A cross-ledger settlement is raised by both
// ledgers; only the buy side announces it, best effort.
func (a *Authority) Attach(src EventSource) {
	src.OnChange(func(ev ledgerv1.ChangeEvent) {
		a.broadcast(ev.Venue, replicationv1.TypeOrderChanged, replicationv1.OrderChanged{
			Op:    ev.Op.String(),
			Order: replicationv1.FromOrder(ev.Order),
		})
	})
	src.OnSettlement(func(ev ledgerv1.SettlementEvent) {
		msgType := replicationv1.TypeOrderSettledLocal
		if ev.CrossLedger() {
			if ev.Venue != ev.BuyVenue {
				return
			}
			msgType = replicationv1.TypeOrderSettledRemote
		}
		a.broadcast(ev.Venue, msgType, settledMessage(ev))
	})
}

func settledMessage(ev ledgerv1.SettlementEvent) replicationv1.OrderSettled {
	return replicationv1.OrderSettled{
		BuyVenue:  ev.BuyVenue,
		SellVenue: ev.SellVenue,
		Buy:       replicationv1.FromOrder(ev.Buy),
		Sell:      replicationv1.FromOrder(ev.Sell),
		Price:     ev.Price,
		Quantity:  ev.Quantity,
		At:        timestamppb.New(ev.At),
	}
}

func (a *Authority) broadcast(venue string, t replicationv1.MessageType, payload interface{}) {
	env, err := replicationv1.NewEnvelope(t, venue, payload)
	if err != nil {
		a.logger.Error(err, logger.NewField("type", string(t)))
		return
	}
	a.broadcaster.Broadcast(context.Background(), env)
}
