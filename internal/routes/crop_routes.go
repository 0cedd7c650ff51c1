package routes

import (
	"github.com/gin-gonic/gin"

	"agro_admin/internal/controllers"
)

func CropRoutes(r *gin.Engine, d controllers.Deps) {
	h := controllers.NewCropController(d)
	group := r.Group("/Crop")
	{
		group.GET("/Index", h.Index)
		group.GET("/Create", h.CreateForm)
		group.POST("/Create", h.Create)
		group.GET("/Edit/:id", h.EditForm)
		group.POST("/Edit/:id", h.Edit)
		group.DELETE("/Delete/:id", h.Delete)
		group.GET("/Get/:id", h.Get)
		group.GET("/Show/:id", h.Show)
		group.GET("/Crop_PDF", h.PDF)
		group.GET("/Crop_Excel_Simple", h.ExcelSimple)
		group.GET("/Crop_Excel_Details", h.ExcelDetails)
		group.POST("/ProcessImportedExcel_Crop", h.Import)
	}
}
