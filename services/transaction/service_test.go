package transaction

import (
	"context"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumeforge/pkg/errutil"
	"resumeforge/services/ledger"
	"resumeforge/services/testutil"
	transactiontask "resumeforge/services/transaction/task"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type enqueuerMock struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	ctxs  []context.Context
}

func (m *enqueuerMock) Enqueue(ctx context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, t)
	m.ctxs = append(m.ctxs, ctx)
	return &asynq.TaskInfo{}, nil
}

type testEnv struct {
	svc        *Service
	credits    *ledger.Service
	store      ledger.CreditStore
	enqueuer   *enqueuerMock
	reconciler *Reconciler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t, &Transaction{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	store := ledger.NewMemoryStore()
	credits := ledger.NewService(ledger.ServiceParams{Store: store, Node: node})
	enqueuer := &enqueuerMock{}

	return &testEnv{
		svc: NewService(Params{
			DB:       db,
			Node:     node,
			Credits:  credits,
			Enqueuer: enqueuer,
		}),
		credits:    credits,
		store:      store,
		enqueuer:   enqueuer,
		reconciler: NewReconciler(ReconcilerParams{DB: db, Store: store}),
	}
}

func TestRecordCreatesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	paymentID := "pay_123"
	record, err := env.svc.Record(ctx, "user", &paymentID, 50, 9.99, StatusPending)
	require.NoError(t, err)
	require.Equal(t, StatusPending, record.Status)
	require.Nil(t, record.CompletedAt)

	got, err := env.svc.Get(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, got.ID)
	require.Equal(t, int64(50), got.Credits)

	// recording never grants
	balance, err := env.credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, ledger.Balance{}, balance)
}

func TestRecordValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Record(ctx, "", nil, 50, 9.99, StatusPending)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusBadRequest, be.Status())

	_, err = env.svc.Record(ctx, "user", nil, 0, 9.99, StatusPending)
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusUnprocessableEntity, be.Status())
}

func TestRecordPreResolvedCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)

	// pre-resolved records still grant nothing by themselves
	balance, err := env.credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, ledger.Balance{}, balance)

	// and are terminal from birth
	_, err = env.svc.UpdateStatus(ctx, record.ID, StatusFailed)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusConflict, be.Status())
}

func TestRecordDefaultsToPending(t *testing.T) {
	env := newTestEnv(t)

	record, err := env.svc.Record(context.Background(), "user", nil, 50, 9.99, "")
	require.NoError(t, err)
	require.Equal(t, StatusPending, record.Status)
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Record(context.Background(), "user", nil, 50, 9.99, "refunded")
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusBadRequest, be.Status())
}

func TestUpdateStatusPendingToFailed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	updated, err := env.svc.UpdateStatus(ctx, record.ID, StatusFailed)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, updated.Status)
	require.Nil(t, updated.CompletedAt)
}

func TestUpdateStatusPendingToCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	updated, err := env.svc.UpdateStatus(ctx, record.ID, StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestUpdateStatusTerminalIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, record.ID, StatusFailed)
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, record.ID, StatusCompleted)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusConflict, be.Status())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateStatus(context.Background(), "1", "refunded")
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusBadRequest, be.Status())
}

func TestUpdateStatusNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateStatus(context.Background(), "missing", StatusFailed)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusNotFound, be.Status())
}

func TestCompletePurchaseGrantsCredits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	completed, err := env.svc.CompletePurchase(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, completed.Status)

	balance, err := env.credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, ledger.Balance{Total: 50, Available: 50, Used: 0}, balance)

	require.Len(t, env.enqueuer.tasks, 1)
	require.Equal(t, transactiontask.TypeTransactionReconcile, env.enqueuer.tasks[0].Type())
	require.Equal(t, ctx, env.enqueuer.ctxs[0])
}

func TestCompletePurchaseTwiceDoesNotDoubleGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	_, err = env.svc.CompletePurchase(ctx, record.ID)
	require.NoError(t, err)

	_, err = env.svc.CompletePurchase(ctx, record.ID)
	var be errutil.BaseError
	require.ErrorAs(t, err, &be)
	require.Equal(t, errutil.StatusConflict, be.Status())

	balance, err := env.credits.GetBalance(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, int64(50), balance.Available)
}

func TestReconcilerFlagsMissingGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	// flip the status without granting
	_, err = env.svc.UpdateStatus(ctx, record.ID, StatusCompleted)
	require.NoError(t, err)

	updated, err := env.svc.Get(ctx, record.ID)
	require.NoError(t, err)

	flagged, err := env.reconciler.check(ctx, updated)
	require.NoError(t, err)
	require.True(t, flagged)

	_, err = env.credits.AddCredits(ctx, "user", 50, ledger.KindPurchase)
	require.NoError(t, err)

	flagged, err = env.reconciler.check(ctx, updated)
	require.NoError(t, err)
	require.False(t, flagged)
}

func TestReconcilerIgnoresDifferentAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.svc.Record(ctx, "user", nil, 50, 9.99, StatusPending)
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, record.ID, StatusCompleted)
	require.NoError(t, err)

	_, err = env.credits.AddCredits(ctx, "user", 25, ledger.KindPurchase)
	require.NoError(t, err)

	updated, err := env.svc.Get(ctx, record.ID)
	require.NoError(t, err)

	flagged, err := env.reconciler.check(ctx, updated)
	require.NoError(t, err)
	require.True(t, flagged)
}
