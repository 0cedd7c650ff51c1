package routes

import (
	"github.com/gin-gonic/gin"

	"agro_admin/internal/controllers"
)

func HomeRoutes(r *gin.Engine, d controllers.Deps) {
	home := controllers.NewHomeController(d)
	r.GET("/", home.Index)
	r.GET("/healthz", home.Health)
}

func AutoCompleteRoutes(r *gin.Engine, d controllers.Deps) {
	ac := controllers.NewAutoCompleteController(d)
	group := r.Group("/AutoComplete")
	{
		group.GET("/Harvest", ac.Harvest)
		group.GET("/Worker", ac.Worker)
	}
}
