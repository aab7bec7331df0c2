package matching

import (
	"context"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// Result summarises one Match run.
type Result struct {
	Passes int
	Solves int
}

// Matcher settles crossing orders inside a single book.
type Matcher struct {
	logger *logger.Logger
}

// NewMatcher creates a matcher. A nil logger discards output.
func NewMatcher(log *logger.Logger) *Matcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Matcher{logger: log}
}

var liveKinds = []ledgerv1.Kind{ledgerv1.KindBuy, ledgerv1.KindSell}

// Match runs passes over items until no item produced a trade in the last
// pass. Every trade lowers the book's total remaining quantity, so the loop
// terminates.
func (m *Matcher) Match(ctx context.Context, book ledgerv1.Book, items []string) Result {
	var result Result

	current := dedupe(items)
	next := make([]string, 0, len(current))
	for len(current) > 0 {
		result.Passes++
		for _, item := range current {
			buy, sell, ok := best(book, item)
			if !ok {
				continue
			}
			if r := book.SolvePair(buy.ID, sell.ID); r.Traded() {
				result.Solves++
				next = append(next, item)
			}
		}
		current, next = next, current[:0]
	}

	if result.Solves > 0 {
		m.logger.DebugContext(ctx, "matching finished",
			logger.NewField("venue", book.Venue()),
			logger.NewField("items", len(items)),
			logger.NewField("passes", result.Passes),
			logger.NewField("solves", result.Solves),
		)
	}
	return result
}

// best finds the highest bid and the lowest ask for item, oldest first on ties.
// ok is false when either side is missing or the two do not cross.
func best(book ledgerv1.Book, item string) (buy, sell ledgerv1.Order, ok bool) {
	var haveBuy, haveSell bool
	book.ForEach(&ledgerv1.Filter{Item: item, Kinds: liveKinds}, func(o ledgerv1.Order) bool {
		if !o.IsLive() {
			return true
		}
		switch o.Kind {
		case ledgerv1.KindBuy:
			if !haveBuy || o.Price > buy.Price || (o.Price == buy.Price && o.OlderThan(&buy)) {
				buy, haveBuy = o, true
			}
		case ledgerv1.KindSell:
			if !haveSell || o.Price < sell.Price || (o.Price == sell.Price && o.OlderThan(&sell)) {
				sell, haveSell = o, true
			}
		}
		return true
	})
	return buy, sell, haveBuy && haveSell && buy.Price >= sell.Price
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
