package ledgerv1

//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock

// Book is the ledger surface the matching algorithm works against.
type Book interface {
	// Venue returns the venue the book belongs to.
	Venue() string
	// ForEach visits a copy of every order accepted by filter until fn returns false.
	ForEach(filter *Filter, fn func(Order) bool)
	// SolvePair settles a buy order against a sell order.
	SolvePair(buy, sell OrderID) SolveResult
}
