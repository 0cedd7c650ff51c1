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

type TaskForm struct {
	Label        string `form:"label" json:"label" binding:"required,max=200"`
	TaskStatusID uint   `form:"task_status_id" json:"task_status_id" binding:"required"`
	PersonID     uint   `form:"person_id" json:"person_id" binding:"required"`
}

func (f TaskForm) apply(m *models.Task) {
	m.Label = f.Label
	m.TaskStatusID = f.TaskStatusID
	m.PersonID = f.PersonID
}

type TaskController struct {
	Deps
	store *repository.Store[models.Task]
}

func NewTaskController(d Deps) *TaskController {
	return &TaskController{Deps: d, store: repository.NewStore[models.Task](d.DB)}
}

func (h *TaskController) formView(ctx context.Context, id uint, form TaskForm) (FormView, error) {
	dd, err := options(ctx, h.Refs, map[string]dropdown.Source{
		"task_statuses": dropdown.TaskStatuses,
		"people":        dropdown.People,
	})
	return FormView{Entity: "Task", ID: id, Form: form, Dropdowns: dd}, err
}

func (h *TaskController) checkRefs(ctx context.Context, f TaskForm) (map[string]string, error) {
	return requireRefs(ctx, h.DB, map[string]refCheck{
		"task_status_id": ref("task_statuses", f.TaskStatusID),
		"person_id":      ref("people", f.PersonID),
	})
}

func (h *TaskController) Index(c *gin.Context) {
	renderList(c, h.Deps, "Task", "There is no task in the database", viewmodels.Tasks)
}

func (h *TaskController) CreateForm(c *gin.Context) {
	view, err := h.formView(c.Request.Context(), 0, TaskForm{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TaskController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var form TaskForm
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

	var task models.Task
	form.apply(&task)
	if err := h.store.Create(ctx, &task); err != nil {
		middleware.Log(c).WithError(err).Error("CreateTask: insert failed")
		formError(c, view, map[string]string{formErrorKey: "Could not add task: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Task", fmt.Sprintf("Task %d added.", task.ID))
}

func (h *TaskController) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	task, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Task with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	form := TaskForm{Label: task.Label, TaskStatusID: task.TaskStatusID, PersonID: task.PersonID}
	view, err := h.formView(ctx, id, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TaskController) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	task, err := h.store.Find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Task with id %d does not exist", id)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var form TaskForm
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

	form.apply(task)
	if err := h.store.Update(ctx, task); err != nil {
		middleware.Log(c).WithError(err).WithField("id", id).Error("UpdateTask: save failed")
		formError(c, view, map[string]string{formErrorKey: "Could not update task: " + repository.Describe(err)})
		return
	}
	redirectAfterSave(c, "Task", fmt.Sprintf("Task %d updated.", id))
}

// Delete removes a task. Tasks still referenced by crops cannot be deleted.
func (h *TaskController) Delete(c *gin.Context) {
	deleteRow(c, "Task", h.store, h.view)
}

func (h *TaskController) view(ctx context.Context, id uint) (*viewmodels.TaskView, error) {
	return viewmodels.Tasks.One(ctx, h.DB, id)
}

func (h *TaskController) Get(c *gin.Context) {
	renderOne(c, "Task", h.view)
}

func (h *TaskController) PDF(c *gin.Context) {
	exportPDF(c, h.Deps, "task", "tasks.pdf", viewmodels.Tasks, reports.Tasks)
}

func (h *TaskController) ExcelSimple(c *gin.Context) {
	exportExcel(c, h.Deps, "task", "tasks.xlsx", viewmodels.Tasks, reports.Tasks)
}

func (h *TaskController) Import(c *gin.Context) {
	importExcel(c, "task", "imported_tasks.xlsx", h.Importer.Tasks)
}
