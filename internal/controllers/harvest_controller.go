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

type HarvestForm struct {
	CropID   uint      `form:"crop_id" json:"crop_id" binding:"required"`
	Quantity float64   `form:"quantity" json:"quantity" binding:"gte=0"`
	FromDate time.Time `form:"from_date" json:"from_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
	ToDate   time.Time `form:"to_date" json:"to_date" time_format:"2006-01-02" time_utc:"1" binding:"required,gtefield=FromDate"`
	WorkerID uint      `form:"worker_id" json:"worker_id" binding:"required"`
}

func (f HarvestForm) apply(m *models.Harvest) {
	m.CropID = f.CropID
	m.Quantity = f.Quantity
	m.FromDate = f.FromDate
	m.ToDate = f.ToDate
	m.WorkerID = f.WorkerID
}

func harvestForm(m models.Harvest) HarvestForm {
	return HarvestForm{
		CropID:   m.CropID,
		Quantity: m.Quantity,
		FromDate: m.FromDate,
		ToDate:   m.ToDate,
		WorkerID: m.WorkerID,
	}
}

// OrderItemForm is one order inside the harvest detail form. ID 0 adds a
// new order.
type OrderItemForm struct {
	ID        uint      `form:"id" json:"id"`
	PersonID  uint      `form:"person_id" json:"person_id" binding:"required"`
	Quantity  float64   `form:"quantity" json:"quantity" binding:"gt=0"`
	Price     float64   `form:"price" json:"price" binding:"gte=0"`
	OrderDate time.Time `form:"order_date" json:"order_date" binding:"required"`
}

// HarvestDetailForm is a harvest with its complete list of orders.
type HarvestDetailForm struct {
	HarvestForm
	Orders []OrderItemForm `form:"orders" json:"orders" binding:"dive"`
}

type HarvestController struct {
	Deps
	store *repository.Store[models.Harvest]
}

func NewHarvestController(d Deps) *HarvestController {
	return &HarvestController{Deps: d, store: repository.NewStore[models.Harvest](d.DB)}
}

func (h *HarvestController) dropdowns(ctx context.Context, withPeople bool) (map[string][]dropdown.Option, error) {
	sources := map[string]dropdown.Source{
		"crops":   dropdown.Crops,
		"workers": dropdown.Workers,
	}
	if withPeople {
		sources["people"] = dropdown.People
	}
	return options(ctx, h.Refs, sources)
}

func (h *HarvestController) formView(ctx context.Context, id uint, form interface{}, withPeople bool) (FormView, error) {
	dd, err := h.dropdowns(ctx, withPeople)
	return FormView{Entity: "Harvest", ID: id, Form: form, Dropdowns: dd}, err
}

func (h *HarvestController) checkRefs(ctx context.Context, f HarvestForm) (map[string]string, error) {
	return requireRefs(ctx, h.DB, map[string]refCheck{
		"crop_id":   ref("crops", f.CropID),
		"worker_id": {table: "workers", column: "person_id", id: f.WorkerID},
	})
}

func (h *HarvestController) find(c *gin.Context, id uint) (*models.Harvest, bool) {
	harvest, err := h.store.Find(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Harvest with id %d does not exist", id)})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return harvest, true
}

func (h *HarvestController) Index(c *gin.Context) {
	renderList(c, h.Deps, "Harvest", "There is no harvest in the database", viewmodels.Harvests)
}

func (h *HarvestController) CreateForm(c *gin.Context) {
	today := now().Truncate(24 * time.Hour)
	view, err := h.formView(c.Request.Context(), 0, HarvestForm{FromDate: today, ToDate: today}, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *HarvestController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form HarvestForm
	errs := bindForm(c, &form)
	if errs == nil {
		var err error
		if errs, err = h.checkRefs(ctx, form); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	view, err := h.formView(ctx, 0, form, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if errs != nil {
		formError(c, view, errs)
		return
	}

	var harvest models.Harvest
	form.apply(&harvest)
	if err := h.store.Create(ctx, &harvest); err != nil {
		middleware.Log(c).WithError(err).Error("CreateHarvest: insert failed")
		formError(c, view, map[string]string{formErrorKey: "Could not add harvest: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Harvest", fmt.Sprintf("Harvest %d added.", harvest.ID))
}

func (h *HarvestController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	harvest, ok := h.find(c, id)
	if !ok {
		return
	}
	view, err := h.formView(c.Request.Context(), id, harvestForm(*harvest), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *HarvestController) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	harvest, ok := h.find(c, id)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var form HarvestForm
	errs := bindForm(c, &form)
	if errs == nil {
		var err error
		if errs, err = h.checkRefs(ctx, form); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	view, err := h.formView(ctx, id, form, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if errs != nil {
		formError(c, view, errs)
		return
	}

	form.apply(harvest)
	if err := h.store.Update(ctx, harvest); err != nil {
		middleware.Log(c).WithError(err).WithField("id", id).Error("UpdateHarvest: save failed")
		formError(c, view, map[string]string{formErrorKey: "Could not update harvest: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Harvest", fmt.Sprintf("Harvest %d updated.", id))
}

// EditDetailForm returns a harvest with its orders for the detail editor.
func (h *HarvestController) EditDetailForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	detail, err := viewmodels.FindHarvestDetail(ctx, h.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Harvest with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	view, err := h.formView(ctx, id, detail, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// EditDetail saves a harvest and reconciles its orders with the submitted
// list: new orders are added, known ones updated and missing ones removed.
func (h *HarvestController) EditDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	harvest, ok := h.find(c, id)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var form HarvestDetailForm
	errs := bindForm(c, &form)
	if errs == nil {
		var err error
		if errs, err = h.checkRefs(ctx, form.HarvestForm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if errs != nil {
		view, err := h.formView(ctx, id, form, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		formError(c, view, errs)
		return
	}

	form.apply(harvest)
	submitted := make([]models.Order, len(form.Orders))
	for i, o := range form.Orders {
		submitted[i] = models.Order{
			ID:        o.ID,
			HarvestID: id,
			PersonID:  o.PersonID,
			Quantity:  o.Quantity,
			Price:     o.Price,
			OrderDate: o.OrderDate,
		}
	}

	// 1) Begin transaction
	tx := h.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	// 2) Save the harvest itself
	if err := tx.Omit("Crop", "Worker").Save(harvest).Error; err != nil {
		tx.Rollback()
		h.detailFailed(c, id, form, err)
		return
	}

	// 3) Reconcile orders against the stored ones
	var existing []uint
	if err := tx.Model(&models.Order{}).Where("harvest_id = ?", id).Order("id").Pluck("id", &existing).Error; err != nil {
		tx.Rollback()
		h.detailFailed(c, id, form, err)
		return
	}
	diff := repository.Reconcile(existing, submitted, func(o *models.Order) *uint { return &o.ID })
	if err := repository.ApplyDiff(tx, diff, "id"); err != nil {
		tx.Rollback()
		h.detailFailed(c, id, form, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		h.detailFailed(c, id, form, err)
		return
	}

	middleware.Log(c).WithField("id", id).
		WithField("inserted", len(diff.Insert)).
		WithField("updated", len(diff.Update)).
		WithField("deleted", len(diff.Delete)).
		Info("harvest detail saved")
	setFlash(c, ActionResponseMessage{MessageType: MessageSuccess, Message: fmt.Sprintf("Harvest %d updated.", id)})
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/Harvest/Show/%d", id))
}

func (h *HarvestController) detailFailed(c *gin.Context, id uint, form HarvestDetailForm, err error) {
	middleware.Log(c).WithError(err).WithField("id", id).Error("UpdateHarvestDetail: save failed")
	view, verr := h.formView(c.Request.Context(), id, form, true)
	if verr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": verr.Error()})
		return
	}
	formError(c, view, map[string]string{formErrorKey: "Could not update harvest: " + repository.Describe(err)})
}

// Delete removes a harvest. Harvests with orders cannot be deleted.
func (h *HarvestController) Delete(c *gin.Context) {
	deleteRow(c, "Harvest", h.store, h.view)
}

func (h *HarvestController) view(ctx context.Context, id uint) (*viewmodels.HarvestView, error) {
	return viewmodels.Harvests.One(ctx, h.DB, id)
}

func (h *HarvestController) Get(c *gin.Context) {
	renderOne(c, "Harvest", h.view)
}

// Show returns a harvest with its orders.
func (h *HarvestController) Show(c *gin.Context) {
	renderOne(c, "Harvest", func(ctx context.Context, id uint) (*viewmodels.HarvestDetail, error) {
		return viewmodels.FindHarvestDetail(ctx, h.DB, id)
	})
}

func (h *HarvestController) PDF(c *gin.Context) {
	exportPDF(c, h.Deps, "harvest", "harvests.pdf", viewmodels.Harvests, reports.Harvests)
}

func (h *HarvestController) ExcelSimple(c *gin.Context) {
	exportExcel(c, h.Deps, "harvest", "harvests.xlsx", viewmodels.Harvests, reports.Harvests)
}

func (h *HarvestController) ExcelDetails(c *gin.Context) {
	exportDetails(c, h.Deps, "harvest", "harvests_with_orders.xlsx", viewmodels.AllHarvestDetails, reports.HarvestDetails)
}

func (h *HarvestController) Import(c *gin.Context) {
	importExcel(c, "harvest", "imported_harvests.xlsx", h.Importer.Harvests)
}
