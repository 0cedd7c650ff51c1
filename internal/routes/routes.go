package routes

import (
	"io"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agro_admin/internal/controllers"
	"agro_admin/internal/middleware"
)

// SetupRouter builds the engine with every route group. Request logs go to
// logWriter.
func SetupRouter(d controllers.Deps, logWriter io.Writer) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logWriter),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/metrics", "/healthz"}),
	))
	r.Use(middleware.Metrics())

	HomeRoutes(r, d)
	CropRoutes(r, d)
	HarvestRoutes(r, d)
	OrderRoutes(r, d)
	PlotRoutes(r, d)
	TaskRoutes(r, d)
	WorkerRoutes(r, d)
	AutoCompleteRoutes(r, d)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
