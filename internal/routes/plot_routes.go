package routes

import (
	"github.com/gin-gonic/gin"

	"agro_admin/internal/controllers"
)

func PlotRoutes(r *gin.Engine, d controllers.Deps) {
	h := controllers.NewPlotController(d)
	group := r.Group("/Plot")
	{
		group.GET("/Index", h.Index)
		group.GET("/Create", h.CreateForm)
		group.POST("/Create", h.Create)
		group.GET("/Edit/:id", h.EditForm)
		group.POST("/Edit/:id", h.Edit)
		group.DELETE("/Delete/:id", h.Delete)
		group.GET("/Get/:id", h.Get)
		group.GET("/Plot_PDF", h.PDF)
		group.GET("/Plot_Excel_Simple", h.ExcelSimple)
		group.POST("/ProcessImportedExcel_Plot", h.Import)
	}
}
