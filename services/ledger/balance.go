package ledger

// ComputeBalance folds a user's entries into a Balance. The fold is a plain
// sum, so entry order is irrelevant. Entries with an unknown kind or a
// negative amount are excluded from both sums and returned as inconsistent
// entry IDs for the caller to flag; they are never silently summed.
//
// The net total is clamped at zero: a ledger that somehow over-consumed must
// still never report a negative available balance.
func ComputeBalance(entries []*CreditEntry) (Balance, []string) {
	var earned, used int64
	var inconsistent []string

	for _, e := range entries {
		kind := Kind(e.Kind)
		if !kind.Valid() || e.Amount < 0 {
			inconsistent = append(inconsistent, e.ID)
			continue
		}

		if kind.Additive() {
			earned += e.Amount
		} else {
			used += e.Amount
		}
	}

	net := earned - used
	if net < 0 {
		net = 0
	}

	return Balance{
		Total:     net,
		Available: net,
		Used:      used,
	}, inconsistent
}
