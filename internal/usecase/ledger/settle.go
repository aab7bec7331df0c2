package ledger

import (
	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/checked"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// SolveAcross settles a buy order held by buyBook against a sell order held
// by sellBook. Both books may be the same ledger. The trade executes at the
// price of the older order for min(buy remaining, sell remaining) units;
// orders of different venues created at the same instant are aged by venue
// name.
func SolveAcross(buyBook *Ledger, buyID ledgerv1.OrderID, sellBook *Ledger, sellID ledgerv1.OrderID) ledgerv1.SolveResult {
	var buyEvents, sellEvents events
	defer sellBook.emit(&sellEvents)
	defer buyBook.emit(&buyEvents)

	unlock := lockPair(buyBook, sellBook)
	defer unlock()

	buy, ok := buyBook.lookup(buyID)
	if !ok {
		return ledgerv1.SolveNoSuchOrder
	}
	sell, ok := sellBook.lookup(sellID)
	if !ok {
		return ledgerv1.SolveNoSuchOrder
	}
	if buy.Item != sell.Item {
		return ledgerv1.SolveWrongOrderItems
	}
	if buy.Kind != ledgerv1.KindBuy || sell.Kind != ledgerv1.KindSell || !buy.IsLive() || !sell.IsLive() {
		return ledgerv1.SolveWrongOrderType
	}
	if buy.Price < sell.Price {
		return ledgerv1.SolveNoAcceptablePrice
	}

	price := sell.Price
	if ledgerv1.OlderAcross(buyBook.venue, buy, sellBook.venue, sell) {
		price = buy.Price
	}
	quantity := checked.Min(buy.Remaining, sell.Remaining)
	cost := checked.Mul(quantity, price)

	nextBuy, nextSell := *buy, *sell
	nextSell.Remaining = checked.Sub(nextSell.Remaining, quantity)
	nextSell.StoredItems = checked.Sub(nextSell.StoredItems, quantity)
	nextSell.StoredMoney = checked.Add(nextSell.StoredMoney, cost)
	nextBuy.Remaining = checked.Sub(nextBuy.Remaining, quantity)
	nextBuy.StoredMoney = checked.Sub(nextBuy.StoredMoney, cost)
	nextBuy.StoredItems = checked.Add(nextBuy.StoredItems, quantity)
	buyBook.stamp(&nextBuy)
	sellBook.stamp(&nextSell)
	nextBuy.MustValidate()
	nextSell.MustValidate()
	*buy, *sell = nextBuy, nextSell

	settlement := ledgerv1.SettlementEvent{
		Venue:     buyBook.venue,
		BuyVenue:  buyBook.venue,
		SellVenue: sellBook.venue,
		Buy:       nextBuy,
		Sell:      nextSell,
		Price:     price,
		Quantity:  quantity,
		At:        buyBook.now(),
	}
	buyEvents.change(buyBook.venue, ledgerv1.OpEdit, nextBuy)
	buyEvents.settlements = append(buyEvents.settlements, settlement)
	if sellBook == buyBook {
		buyEvents.change(buyBook.venue, ledgerv1.OpEdit, nextSell)
	} else {
		sellEvents.change(sellBook.venue, ledgerv1.OpEdit, nextSell)
		settlement.Venue = sellBook.venue
		sellEvents.settlements = append(sellEvents.settlements, settlement)
	}

	buyBook.logger.Debug("orders settled",
		logger.NewField("buyOrderID", buyID.String()),
		logger.NewField("sellOrderID", sellID.String()),
		logger.NewField("sellVenue", sellBook.venue),
		logger.NewField("item", nextBuy.Item),
		logger.NewField("price", price),
		logger.NewField("quantity", quantity),
	)

	if nextBuy.Remaining > 0 || nextSell.Remaining > 0 {
		return ledgerv1.SolvePartiallySolved
	}
	return ledgerv1.SolveFullySolved
}

// lockPair locks one or two ledgers in venue order and returns the unlock.
func lockPair(a, b *Ledger) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if second.venue < first.venue {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}
