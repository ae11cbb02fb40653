package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumeforge/pkg/errutil"
	"resumeforge/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type storeMock struct {
	appendFn        func(ctx context.Context, entry *CreditEntry) error
	entriesByUserFn func(ctx context.Context, userID string) ([]*CreditEntry, error)
	consumeAtomicFn func(ctx context.Context, entry *CreditEntry) (bool, error)
}

func (m *storeMock) Append(ctx context.Context, entry *CreditEntry) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, entry)
	}
	return nil
}

func (m *storeMock) EntriesByUser(ctx context.Context, userID string) ([]*CreditEntry, error) {
	if m.entriesByUserFn != nil {
		return m.entriesByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *storeMock) ConsumeAtomic(ctx context.Context, entry *CreditEntry) (bool, error) {
	if m.consumeAtomicFn != nil {
		return m.consumeAtomicFn(ctx, entry)
	}
	return false, nil
}

func newTestService(t *testing.T, store CreditStore) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(ServiceParams{Store: store, Node: node})
}

func TestGetBalanceUnknownUser(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())

	balance, err := svc.GetBalance(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, Balance{}, balance)
}

func TestGetBalanceEmptyUserID(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())

	_, err := svc.GetBalance(context.Background(), "")
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusBadRequest, be.Status())
}

func TestAddCreditsRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())

	for _, amount := range []int64{0, -3} {
		_, err := svc.AddCredits(context.Background(), "user", amount, KindPurchase)
		var be errutil.BaseError
		require.ErrorAs(t, err, &be)
		require.Equal(t, errutil.StatusUnprocessableEntity, be.Status())
	}
}

func TestAddCreditsRejectsConsumptionKind(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())

	_, err := svc.AddCredits(context.Background(), "user", 5, KindConsumption)
	require.Error(t, err)
}

func TestAddThenConsumeSequence(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())
	ctx := context.Background()

	_, err := svc.AddCredits(ctx, "user", 10, KindPurchase)
	require.NoError(t, err)

	consumed, err := svc.ConsumeCredits(ctx, "user", 5)
	require.NoError(t, err)
	require.True(t, consumed)

	consumed, err = svc.ConsumeCredits(ctx, "user", 5)
	require.NoError(t, err)
	require.True(t, consumed)

	consumed, err = svc.ConsumeCredits(ctx, "user", 5)
	require.NoError(t, err)
	require.False(t, consumed)

	balance, err := svc.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, Balance{Total: 0, Available: 0, Used: 10}, balance)
}

func TestConsumeAppendsNothingWhenShort(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.AddCredits(ctx, "user", 3, KindBonus)
	require.NoError(t, err)

	consumed, err := svc.ConsumeCredits(ctx, "user", 5)
	require.NoError(t, err)
	require.False(t, consumed)

	entries, err := store.EntriesByUser(ctx, "user")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestConsumeConcurrentDoubleSpend(t *testing.T) {
	svc := newTestService(t, NewMemoryStore())
	ctx := context.Background()

	_, err := svc.AddCredits(ctx, "user", 5, KindPurchase)
	require.NoError(t, err)

	results := make([]bool, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ConsumeCredits(ctx, "user", 5)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotEqual(t, results[0], results[1], "exactly one concurrent debit must win")
}

func TestConsumeStoreUnavailable(t *testing.T) {
	svc := newTestService(t, &storeMock{
		consumeAtomicFn: func(ctx context.Context, entry *CreditEntry) (bool, error) {
			return false, errors.New("connection refused")
		},
	})

	_, err := svc.ConsumeCredits(context.Background(), "user", 5)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusUnavailable, be.Status())
}

func TestGetBalanceStoreUnavailable(t *testing.T) {
	svc := newTestService(t, &storeMock{
		entriesByUserFn: func(ctx context.Context, userID string) ([]*CreditEntry, error) {
			return nil, errors.New("connection refused")
		},
	})

	_, err := svc.GetBalance(context.Background(), "user")
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusUnavailable, be.Status())
}

func TestGormStoreSequence(t *testing.T) {
	db := testutil.NewTestDB(t)
	store, err := NewGormStore(db)
	require.NoError(t, err)

	svc := newTestService(t, store)
	ctx := context.Background()

	_, err = svc.AddCredits(ctx, "user", 10, KindPurchase)
	require.NoError(t, err)

	consumed, err := svc.ConsumeCredits(ctx, "user", 5)
	require.NoError(t, err)
	require.True(t, consumed)

	consumed, err = svc.ConsumeCredits(ctx, "user", 6)
	require.NoError(t, err)
	require.False(t, consumed)

	balance, err := svc.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, Balance{Total: 5, Available: 5, Used: 5}, balance)

	entries, err := svc.ListEntries(ctx, "user")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestGormStoreConcurrentDoubleSpend(t *testing.T) {
	db := testutil.NewTestDB(t)
	store, err := NewGormStore(db)
	require.NoError(t, err)

	svc := newTestService(t, store)
	ctx := context.Background()

	_, err = svc.AddCredits(ctx, "user", 5, KindPurchase)
	require.NoError(t, err)

	results := make([]bool, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ConsumeCredits(ctx, "user", 5)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotEqual(t, results[0], results[1], "exactly one concurrent debit must win")

	entries, err := svc.ListEntries(ctx, "user")
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestGormStoreIsolatesUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	store, err := NewGormStore(db)
	require.NoError(t, err)

	svc := newTestService(t, store)
	ctx := context.Background()

	_, err = svc.AddCredits(ctx, "alice", 10, KindPurchase)
	require.NoError(t, err)

	balance, err := svc.GetBalance(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, Balance{}, balance)
}
