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

type OrderForm struct {
	HarvestID uint      `form:"harvest_id" json:"harvest_id" binding:"required"`
	PersonID  uint      `form:"person_id" json:"person_id" binding:"required"`
	Quantity  float64   `form:"quantity" json:"quantity" binding:"gt=0"`
	Price     float64   `form:"price" json:"price" binding:"gte=0"`
	OrderDate time.Time `form:"order_date" json:"order_date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
}

func (f OrderForm) apply(m *models.Order) {
	m.HarvestID = f.HarvestID
	m.PersonID = f.PersonID
	m.Quantity = f.Quantity
	m.Price = f.Price
	m.OrderDate = f.OrderDate
}

func orderForm(m models.Order) OrderForm {
	return OrderForm{
		HarvestID: m.HarvestID,
		PersonID:  m.PersonID,
		Quantity:  m.Quantity,
		Price:     m.Price,
		OrderDate: m.OrderDate,
	}
}

type OrderController struct {
	Deps
	store *repository.Store[models.Order]
}

func NewOrderController(d Deps) *OrderController {
	return &OrderController{Deps: d, store: repository.NewStore[models.Order](d.DB)}
}

func (h *OrderController) formView(ctx context.Context, id uint, form OrderForm) (FormView, error) {
	dd, err := options(ctx, h.Refs, map[string]dropdown.Source{
		"harvests": dropdown.Harvests,
		"people":   dropdown.People,
	})
	return FormView{Entity: "Order", ID: id, Form: form, Dropdowns: dd}, err
}

func (h *OrderController) checkRefs(ctx context.Context, f OrderForm) (map[string]string, error) {
	return requireRefs(ctx, h.DB, map[string]refCheck{
		"harvest_id": ref("harvests", f.HarvestID),
		"person_id":  ref("people", f.PersonID),
	})
}

func (h *OrderController) Index(c *gin.Context) {
	renderList(c, h.Deps, "Order", "There is no order in the database", viewmodels.Orders)
}

func (h *OrderController) CreateForm(c *gin.Context) {
	view, err := h.formView(c.Request.Context(), 0, OrderForm{OrderDate: now().Truncate(24 * time.Hour)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *OrderController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form OrderForm
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

	var order models.Order
	form.apply(&order)
	if err := h.store.Create(ctx, &order); err != nil {
		middleware.Log(c).WithError(err).Error("CreateOrder: insert failed")
		formError(c, view, map[string]string{formErrorKey: "Could not add order: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Order", fmt.Sprintf("Order %d added.", order.ID))
}

func (h *OrderController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	order, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Order with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	view, err := h.formView(ctx, id, orderForm(*order))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *OrderController) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	order, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Order with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var form OrderForm
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

	form.apply(order)
	if err := h.store.Update(ctx, order); err != nil {
		middleware.Log(c).WithError(err).WithField("id", id).Error("UpdateOrder: save failed")
		formError(c, view, map[string]string{formErrorKey: "Could not update order: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Order", fmt.Sprintf("Order %d updated.", id))
}

func (h *OrderController) Delete(c *gin.Context) {
	deleteRow(c, "Order", h.store, h.view)
}

func (h *OrderController) view(ctx context.Context, id uint) (*viewmodels.OrderView, error) {
	return viewmodels.Orders.One(ctx, h.DB, id)
}

func (h *OrderController) Get(c *gin.Context) {
	renderOne(c, "Order", h.view)
}

func (h *OrderController) PDF(c *gin.Context) {
	exportPDF(c, h.Deps, "order", "orders.pdf", viewmodels.Orders, reports.Orders)
}

func (h *OrderController) ExcelSimple(c *gin.Context) {
	exportExcel(c, h.Deps, "order", "orders.xlsx", viewmodels.Orders, reports.Orders)
}

func (h *OrderController) Import(c *gin.Context) {
	importExcel(c, "order", "imported_orders.xlsx", h.Importer.Orders)
}
