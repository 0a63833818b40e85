package scanner

// Blacklist tracks tickers that failed during the current run so they
// are not retried within the same pass. Lifecycle: constructed at the
// start of a scan, discarded with it.
type Blacklist struct {
	failed map[string]string
}

func NewBlacklist() *Blacklist {
	return &Blacklist{failed: make(map[string]string)}
}

// Add records a ticker failure with its reason
func (b *Blacklist) Add(ticker, reason string) {
	b.failed[ticker] = reason
}

// Contains reports whether a ticker already failed this run
func (b *Blacklist) Contains(ticker string) bool {
	_, ok := b.failed[ticker]
	return ok
}

// Len returns the number of blacklisted tickers
func (b *Blacklist) Len() int {
	return len(b.failed)
}
