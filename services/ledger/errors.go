package ledger

import "fmt"

// InsufficientCreditsError is returned by gated features when the available
// balance does not cover their cost. Handlers render it as 402 with the
// current balance so clients can prompt a purchase.
type InsufficientCreditsError struct {
	Available int64
	Required  int64
}

func (e InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: have %d, need %d", e.Available, e.Required)
}
