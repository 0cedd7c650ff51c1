package reports

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"agro_admin/internal/config"
	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/models"
	"agro_admin/internal/seed"
	"agro_admin/internal/viewmodels"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, seed.Demo(context.Background(), db))
	return db
}

func newImporter(db *gorm.DB) *Importer {
	return NewImporter(db, dropdown.NewResolver(db, config.DefaultSettings()))
}

func openSheet(t *testing.T, b []byte) *export.Sheet {
	t.Helper()
	s, err := export.OpenSheet(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// edit rewrites cells of the first sheet.
func edit(t *testing.T, b []byte, cells map[string]interface{}) []byte {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func statusCells(t *testing.T, b []byte, col string, rows int) []string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)
	out := make([]string, 0, rows)
	for i := 1; i <= rows; i++ {
		v, err := f.GetCellValue(sheet, col+strconv.Itoa(i))
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

func TestCropRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	before, err := viewmodels.Crops.All(ctx, db)
	require.NoError(t, err)
	file, err := Crops.Excel(before)
	require.NoError(t, err)

	res, err := newImporter(db).Crops(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []string{export.StatusHeader, export.StatusImported, export.StatusImported, export.StatusImported},
		statusCells(t, res.File, "H", 4))

	after, err := viewmodels.Crops.All(ctx, db)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.True(t, before[i].PlantingDate.Equal(after[i].PlantingDate))
		before[i].PlantingDate, after[i].PlantingDate = time.Time{}, time.Time{}
	}
	assert.Equal(t, before, after)
}

func TestCropImportUnknownSpecies(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := viewmodels.Crops.All(ctx, db)
	require.NoError(t, err)
	file, err := Crops.Excel(rows)
	require.NoError(t, err)
	file = edit(t, file, map[string]interface{}{
		"B2": "Rice",
		"G3": 999,
		"A4": 404,
	})

	res, err := newImporter(db).Crops(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"Species not found", export.StatusImported, "Crop not found in the database"},
		statusCells(t, res.File, "H", 4)[1:])

	var crop1, crop2 models.Crop
	require.NoError(t, db.First(&crop1, 1).Error)
	require.NoError(t, db.First(&crop2, 2).Error)
	assert.Equal(t, uint(1), crop1.SpeciesID, "failed row left unchanged")
	assert.Equal(t, 999, crop2.Quantity)
}

func TestCropImportAmbiguousPerson(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Person{ID: 6, Name: "Ana Horvat"}).Error)

	rows, err := viewmodels.Crops.All(ctx, db)
	require.NoError(t, err)
	file, err := Crops.Excel(rows)
	require.NoError(t, err)

	res, err := newImporter(db).Crops(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, `More than one match for "Ana Horvat"`, statusCells(t, res.File, "H", 2)[1])

	var crop models.Crop
	require.NoError(t, db.First(&crop, 1).Error)
	assert.Equal(t, uint(1), crop.PersonID)
}

func TestHarvestImportStatuses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := viewmodels.Harvests.All(ctx, db)
	require.NoError(t, err)
	file, err := Harvests.Excel(rows)
	require.NoError(t, err)
	file = edit(t, file, map[string]interface{}{
		"F2": "Petra Novak",
		"D3": "2024-08-01",
		"C4": 61.25,
	})

	res, err := newImporter(db).Harvests(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, []string{"Worker not found", "Invalid Date Format", export.StatusImported},
		statusCells(t, res.File, "G", 4)[1:])

	var h models.Harvest
	require.NoError(t, db.First(&h, 3).Error)
	assert.Equal(t, 61.25, h.Quantity)
}

func TestWorkerImportRenamesPerson(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := viewmodels.Workers.All(ctx, db)
	require.NoError(t, err)
	file, err := Workers.Excel(rows)
	require.NoError(t, err)
	file = edit(t, file, map[string]interface{}{
		"B2": "Ana Horvat-Kos",
		"C3": "Contractor",
		"D4": 11,
	})

	res, err := newImporter(db).Workers(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, []string{export.StatusImported, "Failed: Worker Type not found", export.StatusImported},
		statusCells(t, res.File, "E", 4)[1:])

	var p models.Person
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, "Ana Horvat-Kos", p.Name)

	var w models.Worker
	require.NoError(t, db.First(&w, "person_id = ?", 3).Error)
	assert.Equal(t, 11.0, w.Salary)
}

func TestPlotImportRejectsBadGPS(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := viewmodels.Plots.All(ctx, db)
	require.NoError(t, err)
	file, err := Plots.Excel(rows)
	require.NoError(t, err)
	file = edit(t, file, map[string]interface{}{"I2": "behind the barn"})

	res, err := newImporter(db).Plots(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid GPS location", export.StatusImported, export.StatusImported},
		statusCells(t, res.File, "J", 4)[1:])
}

func TestOrderAndTaskRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	im := newImporter(db)

	orders, err := viewmodels.Orders.All(ctx, db)
	require.NoError(t, err)
	file, err := Orders.Excel(orders)
	require.NoError(t, err)
	res, err := im.Orders(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, len(orders), res.Imported)

	tasks, err := viewmodels.Tasks.All(ctx, db)
	require.NoError(t, err)
	file, err = Tasks.Excel(tasks)
	require.NoError(t, err)
	res, err = im.Tasks(ctx, openSheet(t, file))
	require.NoError(t, err)
	assert.Equal(t, len(tasks), res.Imported)
}

func TestDetailWorkbooks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	crops, err := viewmodels.AllCropDetails(ctx, db)
	require.NoError(t, err)
	b, err := CropDetails(crops)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Crop 1 - Wheat", "Crop 2 - Corn", "Crop 3 - Barley"}, f.GetSheetList())
	v, _ := f.GetCellValue("Crop 1 - Wheat", "A4")
	assert.Equal(t, "ID Plot", v)
	v, _ = f.GetCellValue("Crop 1 - Wheat", "C6")
	assert.Equal(t, "River bank", v)

	harvests, err := viewmodels.AllHarvestDetails(ctx, db)
	require.NoError(t, err)
	_, err = HarvestDetails(harvests)
	require.NoError(t, err)

	workers, err := viewmodels.AllWorkerDetails(ctx, db)
	require.NoError(t, err)
	_, err = WorkerDetails(workers)
	require.NoError(t, err)
}

func TestPDFs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rows, err := viewmodels.Crops.All(ctx, db)
	require.NoError(t, err)
	b, err := Crops.PDF(rows, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
