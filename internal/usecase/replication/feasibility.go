package replication

import (
	"fmt"
	"math"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
)

// The checks below run twice: optimistically on the client against its
// local view, then authoritatively on the server.

func checkOrderShape(item string, price, quantity int64) error {
	if item == "" {
		return errors.NewValidationError(errors.InvalidRequest, "item is required", "item")
	}
	if price < 0 {
		return errors.NewValidationError(errors.InvalidRequest, fmt.Sprintf("price %d is negative", price), "price")
	}
	if quantity <= 0 {
		return errors.NewValidationError(errors.InvalidRequest, fmt.Sprintf("quantity %d must be positive", quantity), "quantity")
	}
	return nil
}

// buyCost returns price × quantity, rejecting requests that would overflow.
func buyCost(price, quantity int64) (int64, error) {
	if price > 0 && quantity > math.MaxInt64/price {
		return 0, errors.NewValidationError(errors.InvalidRequest,
			fmt.Sprintf("%d × %d overflows", price, quantity), "quantity")
	}
	return price * quantity, nil
}

func checkCreateBuy(req replicationv1.CreateBuyRequest, balance int64) (int64, error) {
	if err := checkOrderShape(req.Item, req.Price, req.Quantity); err != nil {
		return 0, err
	}
	cost, err := buyCost(req.Price, req.Quantity)
	if err != nil {
		return 0, err
	}
	if balance < cost {
		return 0, errors.NewValidationError(errors.InsufficientFunds,
			fmt.Sprintf("inventory %s holds %d, order costs %d", req.Inventory, balance, cost), "inventory")
	}
	return cost, nil
}

func checkCreateSell(req replicationv1.CreateSellRequest, stock int64) error {
	if err := checkOrderShape(req.Item, req.Price, req.Quantity); err != nil {
		return err
	}
	if stock < req.Quantity {
		return errors.NewValidationError(errors.InsufficientStock,
			fmt.Sprintf("inventory %s holds %d %s, order sells %d", req.Inventory, stock, req.Item, req.Quantity), "inventory")
	}
	return nil
}

func parseOrderID(raw string) (ledgerv1.OrderID, error) {
	id, err := ledgerv1.ParseOrderID(raw)
	if err != nil || !id.Valid() {
		return 0, errors.NewValidationError(errors.InvalidRequest, fmt.Sprintf("malformed order id %q", raw), "orderId")
	}
	return id, nil
}

// checkOwned verifies that order exists and was created by principal.
func checkOwned(o ledgerv1.Order, found bool, principal string) error {
	if !found {
		return errors.NewValidationError(errors.NoSuchOrder, "order does not exist", "orderId")
	}
	if o.Creator != principal {
		return errors.NewValidationError(errors.OrderNotOwned,
			fmt.Sprintf("order %s belongs to another principal", o.ID), "orderId")
	}
	return nil
}
