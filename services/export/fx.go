package export

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("export.service",
	fx.Provide(NewTextRenderer, NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(engine *gin.Engine, svc *Service) {
	v1 := engine.Group("/v1")
	v1.POST("/export", svc.handleExport)
}
