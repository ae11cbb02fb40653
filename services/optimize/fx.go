package optimize

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("optimize.service",
	fx.Provide(NewOrchestrator, NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(engine *gin.Engine, svc *Service) {
	v1 := engine.Group("/v1")
	v1.POST("/optimize", svc.handleOptimize)
}
