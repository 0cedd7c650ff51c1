package routes

import (
	"github.com/gin-gonic/gin"

	"agro_admin/internal/controllers"
)

func WorkerRoutes(r *gin.Engine, d controllers.Deps) {
	h := controllers.NewWorkerController(d)
	group := r.Group("/Worker")
	{
		group.GET("/Index", h.Index)
		group.GET("/Create", h.CreateForm)
		group.POST("/Create", h.Create)
		group.GET("/Edit/:id", h.EditForm)
		group.POST("/Edit/:id", h.Edit)
		group.DELETE("/Delete/:id", h.Delete)
		group.GET("/Get/:id", h.Get)
		group.GET("/Show/:id", h.Show)
		group.GET("/Worker_PDF", h.PDF)
		group.GET("/Worker_Excel_Simple", h.ExcelSimple)
		group.GET("/Worker_Excel_Details", h.ExcelDetails)
		group.POST("/ProcessImportedExcel_Worker", h.Import)
	}
}
