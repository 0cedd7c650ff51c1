package routes

import (
	"github.com/gin-gonic/gin"

	"agro_admin/internal/controllers"
)

func OrderRoutes(r *gin.Engine, d controllers.Deps) {
	h := controllers.NewOrderController(d)
	group := r.Group("/Order")
	{
		group.GET("/Index", h.Index)
		group.GET("/Create", h.CreateForm)
		group.POST("/Create", h.Create)
		group.GET("/Edit/:id", h.EditForm)
		group.POST("/Edit/:id", h.Edit)
		group.DELETE("/Delete/:id", h.Delete)
		group.GET("/Get/:id", h.Get)
		group.GET("/Order_PDF", h.PDF)
		group.GET("/Order_Excel_Simple", h.ExcelSimple)
		group.POST("/ProcessImportedExcel_Order", h.Import)
	}
}
