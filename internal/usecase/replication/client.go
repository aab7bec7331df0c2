package replication

import (
	"context"
	"fmt"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// Client is the requesting side of the protocol for one session and venue.
// It checks requests against its local view first so that doomed requests
// are never sent. The check is advisory; the authority decides.
type Client struct {
	venue     string
	session   string
	principal string
	mirror    *Mirror
	escrow    replicationv1.Escrow
	sender    replicationv1.Sender
	authority *Authority
	logger    *logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSender routes requests over the network.
func WithSender(s replicationv1.Sender) ClientOption {
	return func(c *Client) { c.sender = s }
}

// WithAuthority makes the client call the authority in process. It takes
// precedence over a sender.
func WithAuthority(a *Authority) ClientOption {
	return func(c *Client) { c.authority = a }
}

// WithClientLogger sets the logger.
func WithClientLogger(log *logger.Logger) ClientOption {
	return func(c *Client) { c.logger = log }
}

// NewClient creates a client acting as principal through session. escrow is
// the client's view of its inventories.
func NewClient(session, principal string, mirror *Mirror, escrow replicationv1.Escrow, opts ...ClientOption) (*Client, error) {
	c := &Client{
		venue:     mirror.Venue(),
		session:   session,
		principal: principal,
		mirror:    mirror,
		escrow:    escrow,
		logger:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sender == nil && c.authority == nil {
		return nil, fmt.Errorf("client for venue %q needs a sender or an authority", c.venue)
	}
	return c, nil
}

// RequestCreateBuy asks for a buy order.
func (c *Client) RequestCreateBuy(ctx context.Context, req replicationv1.CreateBuyRequest) error {
	if _, err := checkCreateBuy(req, c.escrow.Balance(ctx, req.Inventory)); err != nil {
		return err
	}
	if c.authority != nil {
		_, err := c.authority.CreateBuy(ctx, c.session, c.venue, req)
		return err
	}
	return c.send(ctx, replicationv1.TypeRequestCreateBuy, req)
}

// RequestCreateSell asks for a sell order.
func (c *Client) RequestCreateSell(ctx context.Context, req replicationv1.CreateSellRequest) error {
	if err := checkCreateSell(req, c.escrow.Stock(ctx, req.Inventory, req.Item)); err != nil {
		return err
	}
	if c.authority != nil {
		_, err := c.authority.CreateSell(ctx, c.session, c.venue, req)
		return err
	}
	return c.send(ctx, replicationv1.TypeRequestCreateSell, req)
}

// RequestCancel asks to cancel one of the principal's orders.
func (c *Client) RequestCancel(ctx context.Context, id ledgerv1.OrderID) error {
	if err := c.checkOwned(id); err != nil {
		return err
	}
	req := replicationv1.CancelRequest{OrderID: id.String()}
	if c.authority != nil {
		return c.authority.Cancel(ctx, c.session, c.venue, req)
	}
	return c.send(ctx, replicationv1.TypeRequestCancel, req)
}

// RequestCollect asks to move an order's collectable escrow into inventory.
func (c *Client) RequestCollect(ctx context.Context, id ledgerv1.OrderID, inventory string) error {
	if err := c.checkOwned(id); err != nil {
		return err
	}
	o, _ := c.mirror.Get(id)
	if items, money := o.Collectable(); items == 0 && money == 0 {
		return errors.NewValidationError(errors.InvalidRequest, "nothing to collect", "orderId")
	}
	req := replicationv1.CollectRequest{OrderID: id.String(), Inventory: inventory}
	if c.authority != nil {
		_, err := c.authority.Collect(ctx, c.session, c.venue, req)
		return err
	}
	return c.send(ctx, replicationv1.TypeRequestCollect, req)
}

func (c *Client) checkOwned(id ledgerv1.OrderID) error {
	o, found := c.mirror.Get(id)
	return checkOwned(o, found, c.principal)
}

func (c *Client) send(ctx context.Context, t replicationv1.MessageType, payload interface{}) error {
	env, err := replicationv1.NewEnvelope(t, c.venue, payload)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if err := c.sender.Send(ctx, env); err != nil {
		c.logger.ErrorContext(ctx, err, logger.NewField("type", string(t)))
		return errors.NewTracer("failed to send request").Wrap(err)
	}
	return nil
}
