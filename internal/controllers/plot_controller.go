package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/geo"
	"agro_admin/internal/middleware"
	"agro_admin/internal/models"
	"agro_admin/internal/reports"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

type PlotForm struct {
	CropID           uint    `form:"crop_id" json:"crop_id" binding:"required"`
	PersonID         uint    `form:"person_id" json:"person_id" binding:"required"`
	CommonName       string  `form:"common_name" json:"common_name" binding:"max=100"`
	SoilQualityID    uint    `form:"soil_quality_id" json:"soil_quality_id" binding:"required"`
	SoilCategoryID   uint    `form:"soil_category_id" json:"soil_category_id" binding:"required"`
	InfrastructureID uint    `form:"infrastructure_id" json:"infrastructure_id" binding:"required"`
	Size             float64 `form:"size" json:"size" binding:"gte=0"`
	GPSLocation      string  `form:"gps_location" json:"gps_location" binding:"max=100"`
}

func (f PlotForm) apply(m *models.Plot) {
	m.CropID = f.CropID
	m.PersonID = f.PersonID
	m.CommonName = strings.TrimSpace(f.CommonName)
	m.SoilQualityID = f.SoilQualityID
	m.SoilCategoryID = f.SoilCategoryID
	m.InfrastructureID = f.InfrastructureID
	m.Size = f.Size
	m.GPSLocation = strings.TrimSpace(f.GPSLocation)
}

func plotForm(m models.Plot) PlotForm {
	return PlotForm{
		CropID:           m.CropID,
		PersonID:         m.PersonID,
		CommonName:       m.CommonName,
		SoilQualityID:    m.SoilQualityID,
		SoilCategoryID:   m.SoilCategoryID,
		InfrastructureID: m.InfrastructureID,
		Size:             m.Size,
		GPSLocation:      m.GPSLocation,
	}
}

type PlotController struct {
	Deps
	store *repository.Store[models.Plot]
}

func NewPlotController(d Deps) *PlotController {
	return &PlotController{Deps: d, store: repository.NewStore[models.Plot](d.DB)}
}

func (h *PlotController) formView(ctx context.Context, id uint, form PlotForm) (FormView, error) {
	dd, err := options(ctx, h.Refs, map[string]dropdown.Source{
		"crops":           dropdown.Crops,
		"people":          dropdown.People,
		"soil_qualities":  dropdown.SoilQualities,
		"soil_categories": dropdown.SoilCategories,
		"infrastructures": dropdown.Infrastructures,
	})
	return FormView{Entity: "Plot", ID: id, Form: form, Dropdowns: dd}, err
}

// validate checks references and the GPS location.
func (h *PlotController) validate(ctx context.Context, f PlotForm) (map[string]string, error) {
	errs, err := requireRefs(ctx, h.DB, map[string]refCheck{
		"crop_id":           ref("crops", f.CropID),
		"person_id":         ref("people", f.PersonID),
		"soil_quality_id":   ref("soil_qualities", f.SoilQualityID),
		"soil_category_id":  ref("soil_categories", f.SoilCategoryID),
		"infrastructure_id": ref("infrastructures", f.InfrastructureID),
	})
	if err != nil {
		return nil, err
	}
	if gerr := geo.Validate(f.GPSLocation); gerr != nil {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["gps_location"] = gerr.Error()
	}
	return errs, nil
}

func (h *PlotController) Index(c *gin.Context) {
	renderList(c, h.Deps, "Plot", "There is no plot in the database", viewmodels.Plots)
}

func (h *PlotController) CreateForm(c *gin.Context) {
	view, err := h.formView(c.Request.Context(), 0, PlotForm{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PlotController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form PlotForm
	errs := bindForm(c, &form)
	if errs == nil {
		var err error
		if errs, err = h.validate(ctx, form); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	view, err := h.formView(ctx, 0, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if errs != nil {
		formError(c, view, errs)
		return
	}

	var plot models.Plot
	form.apply(&plot)
	if err := h.store.Create(ctx, &plot); err != nil {
		middleware.Log(c).WithError(err).Error("CreatePlot: insert failed")
		formError(c, view, map[string]string{formErrorKey: "Could not add plot: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Plot", fmt.Sprintf("Plot %d added.", plot.ID))
}

func (h *PlotController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	plot, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Plot with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	view, err := h.formView(ctx, id, plotForm(*plot))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PlotController) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	plot, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Plot with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var form PlotForm
	errs := bindForm(c, &form)
	if errs == nil {
		if errs, err = h.validate(ctx, form); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	view, err := h.formView(ctx, id, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if errs != nil {
		formError(c, view, errs)
		return
	}

	form.apply(plot)
	if err := h.store.Update(ctx, plot); err != nil {
		middleware.Log(c).WithError(err).WithField("id", id).Error("UpdatePlot: save failed")
		formError(c, view, map[string]string{formErrorKey: "Could not update plot: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Plot", fmt.Sprintf("Plot %d updated.", id))
}

func (h *PlotController) Delete(c *gin.Context) {
	deleteRow(c, "Plot", h.store, h.view)
}

func (h *PlotController) view(ctx context.Context, id uint) (*viewmodels.PlotView, error) {
	return viewmodels.Plots.One(ctx, h.DB, id)
}

func (h *PlotController) Get(c *gin.Context) {
	renderOne(c, "Plot", h.view)
}

func (h *PlotController) PDF(c *gin.Context) {
	exportPDF(c, h.Deps, "plot", "plots.pdf", viewmodels.Plots, reports.Plots)
}

func (h *PlotController) ExcelSimple(c *gin.Context) {
	exportExcel(c, h.Deps, "plot", "plots.xlsx", viewmodels.Plots, reports.Plots)
}

func (h *PlotController) Import(c *gin.Context) {
	importExcel(c, "plot", "imported_plots.xlsx", h.Importer.Plots)
}
