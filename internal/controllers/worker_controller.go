package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/middleware"
	"agro_admin/internal/models"
	"agro_admin/internal/reports"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

// WorkerForm edits a worker. PersonID is only read on create; a worker
// keeps its person for life.
type WorkerForm struct {
	PersonID     uint    `form:"person_id" json:"person_id"`
	WorkerTypeID uint    `form:"worker_type_id" json:"worker_type_id" binding:"required"`
	Salary       float64 `form:"salary" json:"salary" binding:"gte=0"`
}

type WorkerController struct {
	Deps
	store *repository.Store[models.Worker]
}

func NewWorkerController(d Deps) *WorkerController {
	return &WorkerController{Deps: d, store: repository.NewStore[models.Worker](d.DB).WithKey("person_id")}
}

func (h *WorkerController) formView(ctx context.Context, id uint, form WorkerForm) (FormView, error) {
	sources := map[string]dropdown.Source{"worker_types": dropdown.WorkerTypes}
	if id == 0 {
		sources["people"] = dropdown.People
	}
	dd, err := options(ctx, h.Refs, sources)
	return FormView{Entity: "Worker", ID: id, Form: form, Dropdowns: dd}, err
}

func (h *WorkerController) checkRefs(ctx context.Context, f WorkerForm, creating bool) (map[string]string, error) {
	refs := map[string]refCheck{"worker_type_id": ref("worker_types", f.WorkerTypeID)}
	if creating {
		refs["person_id"] = ref("people", f.PersonID)
	}
	errs, err := requireRefs(ctx, h.DB, refs)
	if err != nil || !creating || errs["person_id"] != "" {
		return errs, err
	}

	taken, err := h.store.Exists(ctx, f.PersonID)
	if err != nil {
		return nil, err
	}
	if taken {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["person_id"] = fmt.Sprintf("Person %d is already a worker", f.PersonID)
	}
	return errs, nil
}

func (h *WorkerController) Index(c *gin.Context) {
	renderList(c, h.Deps, "Worker", "There is no worker in the database", viewmodels.Workers)
}

func (h *WorkerController) CreateForm(c *gin.Context) {
	view, err := h.formView(c.Request.Context(), 0, WorkerForm{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Create makes an existing person a worker.
func (h *WorkerController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form WorkerForm
	errs := bindForm(c, &form)
	if errs == nil && form.PersonID == 0 {
		errs = map[string]string{"person_id": "This field is required"}
	}
	if errs == nil {
		var err error
		if errs, err = h.checkRefs(ctx, form, true); err != nil {
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

	worker := models.Worker{PersonID: form.PersonID, WorkerTypeID: form.WorkerTypeID, Salary: form.Salary}
	if err := h.store.Create(ctx, &worker); err != nil {
		middleware.Log(c).WithError(err).Error("CreateWorker: insert failed")
		formError(c, view, map[string]string{formErrorKey: "Could not add worker: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Worker", fmt.Sprintf("Worker %d added.", worker.PersonID))
}

func (h *WorkerController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	worker, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Worker with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	form := WorkerForm{PersonID: worker.PersonID, WorkerTypeID: worker.WorkerTypeID, Salary: worker.Salary}
	view, err := h.formView(ctx, id, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *WorkerController) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	worker, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Worker with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var form WorkerForm
	errs := bindForm(c, &form)
	form.PersonID = id
	if errs == nil {
		if errs, err = h.checkRefs(ctx, form, false); err != nil {
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

	worker.WorkerTypeID = form.WorkerTypeID
	worker.Salary = form.Salary
	if err := h.store.Update(ctx, worker); err != nil {
		middleware.Log(c).WithError(err).WithField("id", id).Error("UpdateWorker: save failed")
		formError(c, view, map[string]string{formErrorKey: "Could not update worker: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Worker", fmt.Sprintf("Worker %d updated.", id))
}

// Delete removes the worker row only; the person stays.
func (h *WorkerController) Delete(c *gin.Context) {
	deleteRow(c, "Worker", h.store, h.view)
}

func (h *WorkerController) view(ctx context.Context, id uint) (*viewmodels.WorkerView, error) {
	return viewmodels.Workers.One(ctx, h.DB, id)
}

func (h *WorkerController) Get(c *gin.Context) {
	renderOne(c, "Worker", h.view)
}

// Show returns a worker with the tasks of the same person.
func (h *WorkerController) Show(c *gin.Context) {
	renderOne(c, "Worker", func(ctx context.Context, id uint) (*viewmodels.WorkerDetail, error) {
		return viewmodels.FindWorkerDetail(ctx, h.DB, id)
	})
}

func (h *WorkerController) PDF(c *gin.Context) {
	exportPDF(c, h.Deps, "worker", "workers.pdf", viewmodels.Workers, reports.Workers)
}

func (h *WorkerController) ExcelSimple(c *gin.Context) {
	exportExcel(c, h.Deps, "worker", "workers.xlsx", viewmodels.Workers, reports.Workers)
}

func (h *WorkerController) ExcelDetails(c *gin.Context) {
	exportDetails(c, h.Deps, "worker", "workers_with_tasks.xlsx", viewmodels.AllWorkerDetails, reports.WorkerDetails)
}

func (h *WorkerController) Import(c *gin.Context) {
	importExcel(c, "worker", "imported_workers.xlsx", h.Importer.Workers)
}
