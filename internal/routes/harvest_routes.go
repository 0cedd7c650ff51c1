package routes

import (
	"github.com/gin-gonic/gin"

	"agro_admin/internal/controllers"
)

func HarvestRoutes(r *gin.Engine, d controllers.Deps) {
	h := controllers.NewHarvestController(d)
	group := r.Group("/Harvest")
	{
		group.GET("/Index", h.Index)
		group.GET("/Create", h.CreateForm)
		group.POST("/Create", h.Create)
		group.GET("/Edit/:id", h.EditForm)
		group.POST("/Edit/:id", h.Edit)
		group.DELETE("/Delete/:id", h.Delete)
		group.GET("/Get/:id", h.Get)
		group.GET("/Show/:id", h.Show)
		group.GET("/Edit2/:id", h.EditDetailForm)
		group.POST("/Edit2/:id", h.EditDetail)
		group.GET("/Harvest_PDF", h.PDF)
		group.GET("/Harvest_Excel_Simple", h.ExcelSimple)
		group.GET("/Harvest_Excel_Details", h.ExcelDetails)
		group.POST("/ProcessImportedExcel_Harvest", h.Import)
	}
}
