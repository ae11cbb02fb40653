package transaction

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resumeforge/pkg/config"
	"resumeforge/pkg/task"
	transactiontask "resumeforge/services/transaction/task"
)

var Module = fx.Module("transaction.service",
	fx.Provide(NewService, NewReconciler),
	fx.Invoke(migrate, registerRoutes, registerTaskHandlers, scheduleSweep),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Transaction{})
}

func registerRoutes(engine *gin.Engine, svc *Service) {
	v1 := engine.Group("/v1")
	v1.POST("/transactions", svc.handleCreate)
	v1.GET("/transactions/:id", svc.handleGet)
	v1.POST("/transactions/:id/status", svc.handleUpdateStatus)
}

func registerTaskHandlers(mux *asynq.ServeMux, r *Reconciler) {
	mux.HandleFunc(transactiontask.TypeTransactionReconcile, r.HandleReconcile)
}

type sweepParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Enqueuer  task.Enqueuer `optional:"true"`
}

// scheduleSweep periodically enqueues a full reconcile sweep.
func scheduleSweep(p sweepParams) {
	if !p.Config.Reconcile.Enable || p.Enqueuer == nil {
		return
	}

	done := make(chan struct{})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go runSweep(p.Config.Reconcile.Interval, p.Enqueuer, done)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

func runSweep(interval time.Duration, enqueuer task.Enqueuer, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			sweep, err := transactiontask.NewReconcileTask(transactiontask.ReconcilePayload{})
			if err != nil {
				zap.L().Warn("failed to build reconcile sweep task", zap.Error(err))
				continue
			}
			if _, err := enqueuer.Enqueue(context.Background(), sweep); err != nil {
				zap.L().Warn("failed to enqueue reconcile sweep", zap.Error(err))
			}
		}
	}
}
