package ledger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(ProvideCreditStore, NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(engine *gin.Engine, svc *Service) {
	v1 := engine.Group("/v1")
	v1.GET("/credits/balance", svc.handleGetBalance)
	v1.GET("/credits/entries", svc.handleListEntries)
	v1.POST("/credits", svc.handleMutateCredits)
}
