package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/middleware"
	"agro_admin/internal/models"
	"agro_admin/internal/reports"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

type CropForm struct {
	SpeciesID    uint      `form:"species_id" json:"species_id" binding:"required"`
	TaskID       uint      `form:"task_id" json:"task_id" binding:"required"`
	StatusID     uint      `form:"status_id" json:"status_id" binding:"required"`
	PersonID     uint      `form:"person_id" json:"person_id" binding:"required"`
	PlantingDate time.Time `form:"planting_date" json:"planting_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	Quantity     int       `form:"quantity" json:"quantity" binding:"gte=0"`
}

func (f CropForm) apply(m *models.Crop) {
	m.SpeciesID = f.SpeciesID
	m.TaskID = f.TaskID
	m.StatusID = f.StatusID
	m.PersonID = f.PersonID
	m.PlantingDate = f.PlantingDate
	m.Quantity = f.Quantity
}

func cropForm(m models.Crop) CropForm {
	return CropForm{
		SpeciesID:    m.SpeciesID,
		TaskID:       m.TaskID,
		StatusID:     m.StatusID,
		PersonID:     m.PersonID,
		PlantingDate: m.PlantingDate,
		Quantity:     m.Quantity,
	}
}

type CropController struct {
	Deps
	store *repository.Store[models.Crop]
}

func NewCropController(d Deps) *CropController {
	return &CropController{Deps: d, store: repository.NewStore[models.Crop](d.DB)}
}

func (h *CropController) formView(ctx context.Context, id uint, form CropForm) (FormView, error) {
	dd, err := options(ctx, h.Refs, map[string]dropdown.Source{
		"species":  dropdown.Species,
		"tasks":    dropdown.Tasks,
		"statuses": dropdown.Statuses,
		"people":   dropdown.People,
	})
	return FormView{Entity: "Crop", ID: id, Form: form, Dropdowns: dd}, err
}

func (h *CropController) checkRefs(ctx context.Context, f CropForm) (map[string]string, error) {
	return requireRefs(ctx, h.DB, map[string]refCheck{
		"species_id": ref("species", f.SpeciesID),
		"task_id":    ref("tasks", f.TaskID),
		"status_id":  ref("statuses", f.StatusID),
		"person_id":  ref("people", f.PersonID),
	})
}

// Index lists crops page by page.
func (h *CropController) Index(c *gin.Context) {
	renderList(c, h.Deps, "Crop", "There is no crop in the database", viewmodels.Crops)
}

// CreateForm returns an empty form with its dropdowns.
func (h *CropController) CreateForm(c *gin.Context) {
	view, err := h.formView(c.Request.Context(), 0, CropForm{PlantingDate: now().Truncate(24 * time.Hour)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create adds a crop.
func (h *CropController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form CropForm
	errs := bindForm(c, &form)
	if errs == nil {
		var err error
		if errs, err = h.checkRefs(ctx, form); err != nil {
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

	var crop models.Crop
	form.apply(&crop)
	if err := h.store.Create(ctx, &crop); err != nil {
		middleware.Log(c).WithError(err).Error("CreateCrop: insert failed")
		formError(c, view, map[string]string{formErrorKey: "Could not add crop: " + repository.Describe(err)})
		return
	}
	middleware.Log(c).WithField("id", crop.ID).Info("crop added")
	redirectAfterSave(c, "Crop", fmt.Sprintf("Crop %d added.", crop.ID))
}

// EditForm returns the stored crop as a form.
func (h *CropController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	crop, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Crop with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	view, err := h.formView(ctx, id, cropForm(*crop))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Edit overwrites a crop with the posted form.
func (h *CropController) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	crop, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Crop with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var form CropForm
	errs := bindForm(c, &form)
	if errs == nil {
		if errs, err = h.checkRefs(ctx, form); err != nil {
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

	form.apply(crop)
	if err := h.store.Update(ctx, crop); err != nil {
		middleware.Log(c).WithError(err).WithField("id", id).Error("UpdateCrop: save failed")
		formError(c, view, map[string]string{formErrorKey: "Could not update crop: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Crop", fmt.Sprintf("Crop %d updated.", id))
}

// Delete removes a crop. Crops with plots or harvests cannot be deleted.
func (h *CropController) Delete(c *gin.Context) {
	deleteRow(c, "Crop", h.store, h.view)
}

func (h *CropController) view(ctx context.Context, id uint) (*viewmodels.CropView, error) {
	return viewmodels.Crops.One(ctx, h.DB, id)
}

// Get returns one crop row.
func (h *CropController) Get(c *gin.Context) {
	renderOne(c, "Crop", h.view)
}

// Show returns a crop with its plots.
func (h *CropController) Show(c *gin.Context) {
	renderOne(c, "Crop", func(ctx context.Context, id uint) (*viewmodels.CropDetail, error) {
		return viewmodels.FindCropDetail(ctx, h.DB, id)
	})
}

func (h *CropController) PDF(c *gin.Context) {
	exportPDF(c, h.Deps, "crop", "crops.pdf", viewmodels.Crops, reports.Crops)
}

func (h *CropController) ExcelSimple(c *gin.Context) {
	exportExcel(c, h.Deps, "crop", "crops.xlsx", viewmodels.Crops, reports.Crops)
}

func (h *CropController) ExcelDetails(c *gin.Context) {
	exportDetails(c, h.Deps, "crop", "crops_with_plots.xlsx", viewmodels.AllCropDetails, reports.CropDetails)
}

func (h *CropController) Import(c *gin.Context) {
	importExcel(c, "crop", "imported_crops.xlsx", h.Importer.Crops)
}
