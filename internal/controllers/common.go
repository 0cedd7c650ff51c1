package controllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agro_admin/internal/config"
	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/metrics"
	"agro_admin/internal/middleware"
	"agro_admin/internal/paging"
	"agro_admin/internal/reports"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

// Deps are shared by every controller.
type Deps struct {
	DB       *gorm.DB
	Settings config.AppSettings
	Refs     *dropdown.Resolver
	Importer *reports.Importer
}

func NewDeps(db *gorm.DB, settings config.AppSettings) Deps {
	refs := dropdown.NewResolver(db, settings)
	return Deps{
		DB:       db,
		Settings: settings,
		Refs:     refs,
		Importer: reports.NewImporter(db, refs),
	}
}

const (
	MessageSuccess = "success"
	MessageError   = "error"
	MessageInfo    = "info"

	triggerHeader = "HX-Trigger"
	flashCookie   = "flash"
	formErrorKey  = "_form"
	formDate      = "2006-01-02"
)

var now = time.Now

// ActionResponseMessage is the outcome of an operation shown to the user.
type ActionResponseMessage struct {
	MessageType string `json:"messageType"`
	Message     string `json:"message"`
}

// ListView is one page of an entity list.
type ListView[V any] struct {
	Items      []V                    `json:"items"`
	Paging     paging.Info            `json:"paging"`
	TotalPages int                    `json:"total_pages"`
	Flash      *ActionResponseMessage `json:"flash,omitempty"`
}

// FormView carries a form, its selection lists and field errors.
type FormView struct {
	Entity    string                       `json:"entity"`
	ID        uint                         `json:"id,omitempty"`
	Form      interface{}                  `json:"form"`
	Dropdowns map[string][]dropdown.Option `json:"dropdowns"`
	Errors    map[string]string            `json:"errors,omitempty"`
}

// listQuery holds page, sort and ascending.
type listQuery struct {
	Page      int
	Sort      int
	Ascending bool
}

func (q listQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("sort", strconv.Itoa(q.Sort))
	v.Set("ascending", strconv.FormatBool(q.Ascending))
	return v
}

// bindList reads the list parameters one by one; a malformed value falls
// back to its default without touching the others.
func bindList(c *gin.Context) listQuery {
	q := listQuery{Page: 1, Sort: 1, Ascending: true}
	if v, ok := c.GetQuery("page"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		} else {
			middleware.Log(c).WithError(err).Debug("invalid page parameter, using 1")
		}
	}
	if v, ok := c.GetQuery("sort"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			q.Sort = n
		} else {
			middleware.Log(c).WithError(err).Debug("invalid sort parameter, using 1")
		}
	}
	if v, ok := c.GetQuery("ascending"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			q.Ascending = b
		} else {
			middleware.Log(c).WithError(err).Debug("invalid ascending parameter, using true")
		}
	}
	return q
}

func indexURL(entity string, q listQuery) string {
	return "/" + entity + "/Index?" + q.values().Encode()
}

// renderList answers an Index request. An empty table redirects home with
// a message and an invalid page redirects to page 1.
func renderList[V any](c *gin.Context, d Deps, entity, emptyMessage string, proj viewmodels.Projection[V]) {
	ctx := c.Request.Context()
	q := bindList(c)

	total, err := proj.Count(ctx, d.DB)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s index: count failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load " + strings.ToLower(entity) + " list"})
		return
	}
	if total == 0 {
		setFlash(c, ActionResponseMessage{MessageType: MessageInfo, Message: emptyMessage})
		c.Redirect(http.StatusFound, "/")
		return
	}

	info := paging.Info{
		CurrentPage:  q.Page,
		Sort:         q.Sort,
		Ascending:    q.Ascending,
		ItemsPerPage: d.Settings.PageSize,
		TotalItems:   total,
	}
	if info.OutOfRange() {
		q.Page = 1
		c.Redirect(http.StatusFound, indexURL(entity, q))
		return
	}

	rows, err := proj.Page(ctx, d.DB, info)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s index: query failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load " + strings.ToLower(entity) + " list"})
		return
	}

	c.JSON(http.StatusOK, ListView[V]{
		Items:      rows,
		Paging:     info,
		TotalPages: info.TotalPages(),
		Flash:      takeFlash(c),
	})
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid id " + c.Param("id")})
		return 0, false
	}
	return uint(id), true
}

// renderOne answers Get and Show requests.
func renderOne[V any](c *gin.Context, entity string, load func(context.Context, uint) (*V, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := load(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s with id %d does not exist", entity, id)})
		return
	}
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s %d: load failed", entity, id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// deleteRow removes one row and reports the result in the HX-Trigger
// header. A failed delete answers with the row fragment so it stays
// on screen.
func deleteRow[T, V any](c *gin.Context, entity string, store *repository.Store[T], fragment func(context.Context, uint) (*V, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	err := store.Delete(ctx, id)
	if err == nil {
		middleware.Log(c).WithField("id", id).Infof("%s deleted", entity)
		setTrigger(c, ActionResponseMessage{
			MessageType: MessageSuccess,
			Message:     fmt.Sprintf("%s %d deleted.", entity, id),
		})
		c.Status(http.StatusOK)
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		setTrigger(c, ActionResponseMessage{
			MessageType: MessageError,
			Message:     fmt.Sprintf("%s with id %d does not exist", entity, id),
		})
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s with id %d does not exist", entity, id)})
		return
	}

	middleware.Log(c).WithError(err).WithField("id", id).Warnf("%s delete failed", entity)
	setTrigger(c, ActionResponseMessage{
		MessageType: MessageError,
		Message:     fmt.Sprintf("Error deleting %s: %s", strings.ToLower(entity), repository.Describe(err)),
	})
	view, ferr := fragment(ctx, id)
	if ferr != nil {
		c.JSON(http.StatusConflict, gin.H{"error": repository.Describe(err)})
		return
	}
	c.JSON(http.StatusConflict, view)
}

func setTrigger(c *gin.Context, msg ActionResponseMessage) {
	b, err := json.Marshal(gin.H{"showMessage": msg})
	if err != nil {
		logrus.WithError(err).Error("encode trigger header")
		return
	}
	c.Header(triggerHeader, string(b))
}

// setFlash stores msg for the next page view.
func setFlash(c *gin.Context, msg ActionResponseMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", false, true)
}

// takeFlash returns and clears the pending message, if any.
func takeFlash(c *gin.Context) *ActionResponseMessage {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msg ActionResponseMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil
	}
	return &msg
}

// redirectAfterSave flashes message and returns to the index page the user
// came from.
func redirectAfterSave(c *gin.Context, entity, message string) {
	setFlash(c, ActionResponseMessage{MessageType: MessageSuccess, Message: message})
	c.Redirect(http.StatusSeeOther, indexURL(entity, bindList(c)))
}

// Validation errors are reported under the form field names.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.Split(f.Tag.Get("form"), ",")[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	}
}

// bindForm binds the request body into form and returns field errors keyed
// by form field name, or nil.
func bindForm(c *gin.Context, form interface{}) map[string]string {
	err := c.ShouldBind(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{formErrorKey: err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldKey(fe)] = fieldMessage(fe)
	}
	return out
}

// fieldKey drops struct and embedded struct names from the namespace,
// leaving form names such as "orders[1].quantity".
func fieldKey(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	for len(parts) > 1 && parts[0] != "" && unicode.IsUpper(rune(parts[0][0])) {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte", "min":
		return "Must be at least " + fe.Param()
	case "lte", "max":
		return "Must be at most " + fe.Param()
	case "gtefield":
		return "Must not be before " + fe.Param()
	}
	return fmt.Sprintf("Failed on %s", fe.Tag())
}

// formError renders the form again with errs.
func formError(c *gin.Context, view FormView, errs map[string]string) {
	view.Errors = errs
	c.JSON(http.StatusUnprocessableEntity, view)
}

// options loads several dropdowns at once.
func options(ctx context.Context, refs *dropdown.Resolver, sources map[string]dropdown.Source) (map[string][]dropdown.Option, error) {
	out := make(map[string][]dropdown.Option, len(sources))
	for name, src := range sources {
		opts, err := refs.Options(ctx, src)
		if err != nil {
			return nil, err
		}
		out[name] = opts
	}
	return out, nil
}

// requireRefs checks that each referenced id exists, keyed by form field.
func requireRefs(ctx context.Context, db *gorm.DB, refs map[string]refCheck) (map[string]string, error) {
	errs := map[string]string{}
	for field, r := range refs {
		var n int64
		if err := db.WithContext(ctx).Table(r.table).Where(r.column+" = ?", r.id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			errs[field] = "Unknown value " + strconv.FormatUint(uint64(r.id), 10)
		}
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

type refCheck struct {
	table  string
	column string
	id     uint
}

func ref(table string, id uint) refCheck {
	return refCheck{table: table, column: "id", id: id}
}

// sendFile writes a generated document.
func sendFile(c *gin.Context, entity, format, name, contentType string, data []byte, inline bool) {
	metrics.ExportsTotal.WithLabelValues(entity, format).Inc()
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	c.Data(http.StatusOK, contentType, data)
}

const (
	contentPDF  = "application/pdf"
	contentXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// exportPDF loads every row and renders table as a PDF.
func exportPDF[V any](c *gin.Context, d Deps, entity, name string, proj viewmodels.Projection[V], table reports.Table[V]) {
	rows, err := proj.All(c.Request.Context(), d.DB)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s pdf: query failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	b, err := table.PDF(rows, now())
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s pdf: render failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, entity, "pdf", name, contentPDF, b, true)
}

// exportExcel loads every row and writes table as a workbook.
func exportExcel[V any](c *gin.Context, d Deps, entity, name string, proj viewmodels.Projection[V], table reports.Table[V]) {
	rows, err := proj.All(c.Request.Context(), d.DB)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s excel: query failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	b, err := table.Excel(rows)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s excel: write failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, entity, "xlsx", name, contentXLSX, b, false)
}

// exportDetails writes a parent/children workbook.
func exportDetails[D any](c *gin.Context, d Deps, entity, name string, load func(context.Context, *gorm.DB) ([]D, error), write func([]D) ([]byte, error)) {
	details, err := load(c.Request.Context(), d.DB)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s details: query failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	b, err := write(details)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s details: write failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sendFile(c, entity, "xlsx_details", name, contentXLSX, b, false)
}

// importExcel applies the uploaded "file" workbook and answers with the
// annotated copy.
func importExcel(c *gin.Context, entity, name string, apply func(context.Context, *export.Sheet) (*export.Result, error)) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	sheet, err := export.OpenSheet(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer sheet.Close()

	res, err := apply(c.Request.Context(), sheet)
	if err != nil {
		middleware.Log(c).WithError(err).Errorf("%s import failed", entity)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	middleware.Log(c).WithFields(logrus.Fields{
		"imported": res.Imported,
		"failed":   res.Failed,
	}).Infof("%s import finished", entity)

	c.Header("X-Import-Imported", strconv.Itoa(res.Imported))
	c.Header("X-Import-Failed", strconv.Itoa(res.Failed))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentXLSX, res.File)
}
