package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func entry(id, kind string, amount int64) *CreditEntry {
	return &CreditEntry{ID: id, UserID: "user", Amount: amount, Kind: kind}
}

func TestComputeBalanceFold(t *testing.T) {
	balance, inconsistent := ComputeBalance([]*CreditEntry{
		entry("1", "purchase", 10),
		entry("2", "bonus", 3),
		entry("3", "consumption", 5),
	})

	require.Empty(t, inconsistent)
	require.Equal(t, int64(8), balance.Total)
	require.Equal(t, int64(8), balance.Available)
	require.Equal(t, int64(5), balance.Used)
}

func TestComputeBalanceOrderInsensitive(t *testing.T) {
	forward := []*CreditEntry{
		entry("1", "purchase", 10),
		entry("2", "consumption", 4),
		entry("3", "bonus", 2),
	}
	reversed := []*CreditEntry{forward[2], forward[1], forward[0]}

	a, _ := ComputeBalance(forward)
	b, _ := ComputeBalance(reversed)
	require.Equal(t, a, b)
}

func TestComputeBalanceEmpty(t *testing.T) {
	balance, inconsistent := ComputeBalance(nil)
	require.Empty(t, inconsistent)
	require.Equal(t, Balance{}, balance)
}

func TestComputeBalanceClampsNegative(t *testing.T) {
	balance, inconsistent := ComputeBalance([]*CreditEntry{
		entry("1", "purchase", 3),
		entry("2", "consumption", 10),
	})

	require.Empty(t, inconsistent)
	require.Equal(t, int64(0), balance.Total)
	require.Equal(t, int64(0), balance.Available)
	require.Equal(t, int64(10), balance.Used)
}

func TestComputeBalanceExcludesUnknownKind(t *testing.T) {
	balance, inconsistent := ComputeBalance([]*CreditEntry{
		entry("1", "purchase", 10),
		entry("2", "refund", 100),
		entry("3", "consumption", 4),
	})

	require.Equal(t, []string{"2"}, inconsistent)
	require.Equal(t, int64(6), balance.Available)
	require.Equal(t, int64(4), balance.Used)
}

func TestComputeBalanceExcludesNegativeAmount(t *testing.T) {
	balance, inconsistent := ComputeBalance([]*CreditEntry{
		entry("1", "purchase", 10),
		entry("2", "consumption", -5),
	})

	require.Equal(t, []string{"2"}, inconsistent)
	require.Equal(t, int64(10), balance.Available)
	require.Equal(t, int64(0), balance.Used)
}
