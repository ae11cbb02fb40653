package optimize

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/llm"
	"resumeforge/pkg/errutil"
	"resumeforge/services/ledger"
)

func newTestService(t *testing.T, client llm.Client) (*Service, *ledger.Service) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	credits := ledger.NewService(ledger.ServiceParams{Store: ledger.NewMemoryStore(), Node: node})

	cfg := testConfig()
	svc := NewService(ServiceParams{
		Orchestrator: NewOrchestrator(client, cfg),
		Credits:      credits,
		Config:       cfg,
	})
	return svc, credits
}

func TestOptimizeRequiresIdentity(t *testing.T) {
	svc, _ := newTestService(t, &llm.MockClient{})

	_, err := svc.Optimize(context.Background(), "", testRequest())
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusUnauthorized, be.Status())
}

func TestOptimizeInsufficientCredits(t *testing.T) {
	svc, credits := newTestService(t, &llm.MockClient{})
	ctx := context.Background()

	_, err := credits.AddCredits(ctx, "user", 3, ledger.KindBonus)
	require.NoError(t, err)

	_, err = svc.Optimize(ctx, "user", testRequest())
	var insufficient ledger.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(3), insufficient.Available)
	require.Equal(t, int64(5), insufficient.Required)
}

func TestOptimizeConsumesCreditsOnSuccess(t *testing.T) {
	svc, credits := newTestService(t, &llm.MockClient{})
	ctx := context.Background()

	_, err := credits.AddCredits(ctx, "user", 10, ledger.KindPurchase)
	require.NoError(t, err)

	result, err := svc.Optimize(ctx, "user", testRequest())
	require.NoError(t, err)
	require.False(t, result.Placeholder)

	balance, err := credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, int64(5), balance.Available)
	require.Equal(t, int64(5), balance.Used)
}

func TestOptimizePlaceholderIsFree(t *testing.T) {
	svc, credits := newTestService(t, &llm.MockClient{Err: llm.ErrQuotaExceeded})
	ctx := context.Background()

	_, err := credits.AddCredits(ctx, "user", 10, ledger.KindPurchase)
	require.NoError(t, err)

	result, err := svc.Optimize(ctx, "user", testRequest())
	require.NoError(t, err)
	require.True(t, result.Placeholder)

	balance, err := credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, int64(10), balance.Available)
}

func TestOptimizeExtractParseFailureIsBadGateway(t *testing.T) {
	svc, credits := newTestService(t, &llm.MockClient{ExtractResponse: `not json at all`})
	ctx := context.Background()

	_, err := credits.AddCredits(ctx, "user", 10, ledger.KindPurchase)
	require.NoError(t, err)

	_, err = svc.Optimize(ctx, "user", testRequest())
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusBadGateway, be.Status())

	// a failed pipeline charges nothing
	balance, err := credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, int64(10), balance.Available)
}
