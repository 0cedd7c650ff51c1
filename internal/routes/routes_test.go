package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agro_admin/internal/config"
	"agro_admin/internal/controllers"
	"agro_admin/internal/models"
	"agro_admin/internal/seed"
)

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, seed.Demo(context.Background(), db))

	settings := config.DefaultSettings()
	settings.PageSize = 2
	return SetupRouter(controllers.NewDeps(db, settings), io.Discard), db
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func trigger(t *testing.T, w *httptest.ResponseRecorder) controllers.ActionResponseMessage {
	t.Helper()
	var body struct {
		ShowMessage controllers.ActionResponseMessage `json:"showMessage"`
	}
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &body))
	return body.ShowMessage
}

func TestIndexPagesAndRedirects(t *testing.T) {
	r, _ := setup(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/Crop/Index?page=2&sort=1&ascending=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID uint `json:"id"`
		} `json:"items"`
		TotalPages int `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.TotalPages)
	require.Len(t, list.Items, 1)
	assert.Equal(t, uint(3), list.Items[0].ID)

	w = do(r, httptest.NewRequest(http.MethodGet, "/Crop/Index?page=7&sort=2&ascending=false", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/Crop/Index?ascending=false&page=1&sort=2", w.Header().Get("Location"))

	w = do(r, httptest.NewRequest(http.MethodGet, "/Crop/Index?page=7&sort=5&ascending=yes", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/Crop/Index?ascending=true&page=1&sort=5", w.Header().Get("Location"))
}

func TestEmptyIndexRedirectsHomeWithFlash(t *testing.T) {
	r, db := setup(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.Order{}).Error)

	w := do(r, httptest.NewRequest(http.MethodGet, "/Order/Index", nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var home controllers.HomeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &home))
	require.NotNil(t, home.Flash)
	assert.Equal(t, controllers.MessageInfo, home.Flash.MessageType)
	assert.Equal(t, "There is no order in the database", home.Flash.Message)
	assert.Equal(t, "/Crop/Index", home.Links["Crop"])
}

func TestDelete(t *testing.T) {
	r, db := setup(t)

	t.Run("success", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodDelete, "/Order/Delete/3", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		msg := trigger(t, w)
		assert.Equal(t, controllers.MessageSuccess, msg.MessageType)

		var n int64
		require.NoError(t, db.Model(&models.Order{}).Where("id = 3").Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("missing row", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodDelete, "/Order/Delete/99", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		msg := trigger(t, w)
		assert.Equal(t, controllers.MessageError, msg.MessageType)
		assert.Contains(t, msg.Message, "99")
	})

	t.Run("referenced row stays", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodDelete, "/Harvest/Delete/1", nil))
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, controllers.MessageError, trigger(t, w).MessageType)

		var row struct {
			ID         uint   `json:"id"`
			WorkerName string `json:"worker_name"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
		assert.Equal(t, uint(1), row.ID)
		assert.Equal(t, "Marko Babic", row.WorkerName)
	})

	t.Run("worker keeps person", func(t *testing.T) {
		require.NoError(t, db.Where("worker_id = 2").Delete(&models.Harvest{}).Error)
		w := do(r, httptest.NewRequest(http.MethodDelete, "/Worker/Delete/2", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var n int64
		require.NoError(t, db.Model(&models.Person{}).Where("id = 2").Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})
}

func TestCreateCrop(t *testing.T) {
	r, db := setup(t)

	t.Run("validation", func(t *testing.T) {
		w := do(r, postForm("/Crop/Create", url.Values{
			"task_id":       {"1"},
			"status_id":     {"1"},
			"person_id":     {"1"},
			"planting_date": {"2024-05-01"},
			"quantity":      {"-4"},
		}))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var view controllers.FormView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Contains(t, view.Errors, "species_id")
		assert.Contains(t, view.Errors, "quantity")
		assert.NotEmpty(t, view.Dropdowns["species"])
	})

	t.Run("unknown reference", func(t *testing.T) {
		w := do(r, postForm("/Crop/Create", url.Values{
			"species_id":    {"42"},
			"task_id":       {"1"},
			"status_id":     {"1"},
			"person_id":     {"1"},
			"planting_date": {"2024-05-01"},
		}))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var view controllers.FormView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "Unknown value 42", view.Errors["species_id"])
	})

	t.Run("saved", func(t *testing.T) {
		w := do(r, postForm("/Crop/Create?page=2&sort=3&ascending=false", url.Values{
			"species_id":    {"2"},
			"task_id":       {"1"},
			"status_id":     {"1"},
			"person_id":     {"4"},
			"planting_date": {"2024-05-01"},
			"quantity":      {"15"},
		}))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/Crop/Index?ascending=false&page=2&sort=3", w.Header().Get("Location"))

		var crop models.Crop
		require.NoError(t, db.Order("id DESC").First(&crop).Error)
		assert.Equal(t, uint(4), crop.ID)
		assert.Equal(t, 15, crop.Quantity)
		assert.Equal(t, "2024-05-01", crop.PlantingDate.Format("2006-01-02"))
	})
}

func TestCreateFormPinsDefault(t *testing.T) {
	r, _ := setup(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/Crop/Create", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var view controllers.FormView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Dropdowns["people"], 5)
	assert.Equal(t, uint(3), view.Dropdowns["people"][0].ID)
	assert.Equal(t, "Ana Horvat", view.Dropdowns["people"][1].Label)
}

func TestHarvestDateRange(t *testing.T) {
	r, _ := setup(t)

	w := do(r, postForm("/Harvest/Edit/2", url.Values{
		"crop_id":   {"1"},
		"quantity":  {"10"},
		"from_date": {"2024-08-05"},
		"to_date":   {"2024-08-01"},
		"worker_id": {"1"},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var view controllers.FormView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Contains(t, view.Errors, "to_date")
}

func TestPlotRejectsBadLocation(t *testing.T) {
	r, _ := setup(t)

	w := do(r, postForm("/Plot/Edit/1", url.Values{
		"crop_id":           {"1"},
		"person_id":         {"4"},
		"common_name":       {"North field"},
		"soil_quality_id":   {"1"},
		"soil_category_id":  {"2"},
		"infrastructure_id": {"1"},
		"size":              {"2.5"},
		"gps_location":      {"somewhere north"},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var view controllers.FormView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Contains(t, view.Errors, "gps_location")
}

func TestWorkerCreateRejectsExistingWorker(t *testing.T) {
	r, db := setup(t)

	w := do(r, postForm("/Worker/Create", url.Values{
		"person_id":      {"1"},
		"worker_type_id": {"1"},
		"salary":         {"9"},
	}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, postForm("/Worker/Create", url.Values{
		"person_id":      {"5"},
		"worker_type_id": {"1"},
		"salary":         {"9"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var worker models.Worker
	require.NoError(t, db.Where("person_id = 5").First(&worker).Error)
	assert.Equal(t, 9.0, worker.Salary)
}

func TestHarvestEditDetailReconcilesOrders(t *testing.T) {
	r, db := setup(t)

	body := `{
		"crop_id": 3, "quantity": 175, "worker_id": 3,
		"from_date": "2024-07-01T00:00:00Z", "to_date": "2024-07-11T00:00:00Z",
		"orders": [
			{"id": 1, "person_id": 4, "quantity": 55, "price": 130, "order_date": "2024-07-15T00:00:00Z"},
			{"id": 0, "person_id": 1, "quantity": 10, "price": 20, "order_date": "2024-07-25T00:00:00Z"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/Harvest/Edit2/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/Harvest/Show/1", w.Header().Get("Location"))

	var orders []models.Order
	require.NoError(t, db.Where("harvest_id = 1").Order("id").Find(&orders).Error)
	require.Len(t, orders, 2)
	assert.Equal(t, uint(1), orders[0].ID)
	assert.Equal(t, 55.0, orders[0].Quantity)
	assert.Equal(t, uint(1), orders[1].PersonID)
	assert.NotEqual(t, uint(2), orders[1].ID)

	var harvest models.Harvest
	require.NoError(t, db.First(&harvest, 1).Error)
	assert.Equal(t, 175.0, harvest.Quantity)

	// the other harvest's orders are untouched
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Where("harvest_id = 2").Count(&n).Error)
	assert.Equal(t, int64(1), n)

	w = do(r, httptest.NewRequest(http.MethodGet, "/Harvest/Show/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Orders []json.RawMessage `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Len(t, detail.Orders, 2)
}

func TestHarvestEditDetailValidatesOrders(t *testing.T) {
	r, db := setup(t)

	body := `{
		"crop_id": 3, "quantity": 175, "worker_id": 3,
		"from_date": "2024-07-01T00:00:00Z", "to_date": "2024-07-11T00:00:00Z",
		"orders": [{"id": 1, "person_id": 4, "quantity": 0, "price": 130, "order_date": "2024-07-15T00:00:00Z"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/Harvest/Edit2/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Where("harvest_id = 1").Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestExportsAndImport(t *testing.T) {
	r, _ := setup(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/Crop/Crop_PDF", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(r, httptest.NewRequest(http.MethodGet, "/Worker/Worker_Excel_Details", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "workers_with_tasks.xlsx")

	w = do(r, httptest.NewRequest(http.MethodGet, "/Task/Task_Excel_Simple", nil))
	require.Equal(t, http.StatusOK, w.Code)
	workbook := w.Body.Bytes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "tasks.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/Task/ProcessImportedExcel_Task", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Import-Imported"))
	assert.Equal(t, "0", w.Header().Get("X-Import-Failed"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "imported_tasks.xlsx")

	w = do(r, httptest.NewRequest(http.MethodPost, "/Task/ProcessImportedExcel_Task", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutoComplete(t *testing.T) {
	r, _ := setup(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/AutoComplete/Worker?term=Ana", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var opts []struct {
		ID    uint   `json:"id"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	require.Len(t, opts, 1)
	assert.Equal(t, uint(1), opts[0].ID)
	assert.Equal(t, "1 Ana Horvat", opts[0].Label)
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := setup(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agro_http_requests_total")
}
