package ledgerv1

// SolveResult is the outcome of settling a buy order against a sell order.
type SolveResult uint8

const (
	SolveNoSuchOrder SolveResult = iota
	SolveWrongOrderItems
	SolveWrongOrderType
	SolveNoAcceptablePrice
	SolvePartiallySolved
	SolveFullySolved
)

var solveResultNames = [...]string{
	"no_such_order",
	"wrong_order_items",
	"wrong_order_type",
	"no_acceptable_price",
	"partially_solved",
	"fully_solved",
}

func (r SolveResult) String() string {
	if int(r) < len(solveResultNames) {
		return solveResultNames[r]
	}
	return "unknown"
}

// Traded reports whether a trade happened.
func (r SolveResult) Traded() bool {
	return r == SolvePartiallySolved || r == SolveFullySolved
}

// CollectResult is the outcome of withdrawing escrow from an order.
type CollectResult uint8

const (
	CollectNoSuchOrder CollectResult = iota
	CollectNothingCollected
	CollectPartiallyCollected
	CollectFullyCollectedAndRemoved
)

var collectResultNames = [...]string{
	"no_such_order",
	"nothing_collected",
	"partially_collected",
	"fully_collected_and_removed",
}

func (r CollectResult) String() string {
	if int(r) < len(collectResultNames) {
		return collectResultNames[r]
	}
	return "unknown"
}
