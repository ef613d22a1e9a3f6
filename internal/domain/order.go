package domain

// OrderRequest is the execution-gateway contract for opening a position.
type OrderRequest struct {
	TokenID    string
	Side       Side
	SizeUSD    float64
	PriceLimit float64 // worst acceptable fill price in (0,1)
}

// OrderResult is the venue's answer. A failed execution is reported here,
// never retried — the recorded Position is not rolled back on failure.
type OrderResult struct {
	Success  bool
	OrderID  string
	Status   string
	ErrorMsg string
}
